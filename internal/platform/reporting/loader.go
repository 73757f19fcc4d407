package reporting

import (
	"context"
	"fmt"

	"github.com/ehr/hms/internal/domain/appointment"
	"github.com/ehr/hms/internal/domain/billing"
	"github.com/ehr/hms/internal/domain/doctor"
	"github.com/ehr/hms/internal/domain/inventory"
	"github.com/ehr/hms/internal/domain/patient"
	"github.com/ehr/hms/internal/views"
)

type PatientLister interface {
	ListPatients(ctx context.Context) ([]*patient.Patient, error)
}

type DoctorLister interface {
	ListDoctors(ctx context.Context) ([]*doctor.Doctor, error)
}

type AppointmentLister interface {
	ListAppointments(ctx context.Context) ([]*appointment.Appointment, error)
}

type InventoryLister interface {
	ListItems(ctx context.Context) ([]*inventory.Item, error)
}

type BillLister interface {
	ListBills(ctx context.Context) ([]*billing.Bill, error)
}

// Loader reads every collection for one report.
type Loader interface {
	Load(ctx context.Context) (views.Dataset, error)
}

// Source is what the Handler reads from: single collections for the narrow
// endpoints and the whole Dataset for views, the overview and exports.
type Source interface {
	Loader
	PatientLister
	DoctorLister
	AppointmentLister
	InventoryLister
}

// ServiceLoader builds a Dataset from the domain services.
type ServiceLoader struct {
	Patients     PatientLister
	Doctors      DoctorLister
	Appointments AppointmentLister
	Inventory    InventoryLister
	Bills        BillLister
}

func (l *ServiceLoader) Load(ctx context.Context) (views.Dataset, error) {
	var (
		ds  views.Dataset
		err error
	)
	if ds.Patients, err = l.Patients.ListPatients(ctx); err != nil {
		return ds, fmt.Errorf("load patients: %w", err)
	}
	if ds.Doctors, err = l.Doctors.ListDoctors(ctx); err != nil {
		return ds, fmt.Errorf("load doctors: %w", err)
	}
	if ds.Appointments, err = l.Appointments.ListAppointments(ctx); err != nil {
		return ds, fmt.Errorf("load appointments: %w", err)
	}
	if ds.Inventory, err = l.Inventory.ListItems(ctx); err != nil {
		return ds, fmt.Errorf("load inventory: %w", err)
	}
	if ds.Bills, err = l.Bills.ListBills(ctx); err != nil {
		return ds, fmt.Errorf("load bills: %w", err)
	}
	return ds, nil
}

func (l *ServiceLoader) ListPatients(ctx context.Context) ([]*patient.Patient, error) {
	return l.Patients.ListPatients(ctx)
}

func (l *ServiceLoader) ListDoctors(ctx context.Context) ([]*doctor.Doctor, error) {
	return l.Doctors.ListDoctors(ctx)
}

func (l *ServiceLoader) ListAppointments(ctx context.Context) ([]*appointment.Appointment, error) {
	return l.Appointments.ListAppointments(ctx)
}

func (l *ServiceLoader) ListItems(ctx context.Context) ([]*inventory.Item, error) {
	return l.Inventory.ListItems(ctx)
}
