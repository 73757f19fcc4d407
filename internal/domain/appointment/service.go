package appointment

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/ehr/hms/internal/domain/doctor"
	"github.com/ehr/hms/internal/domain/patient"
	"github.com/ehr/hms/internal/platform/apierr"
	"github.com/ehr/hms/internal/platform/store"
)

// PatientFinder resolves the patient named on a booking.
type PatientFinder interface {
	GetPatient(ctx context.Context, id string) (*patient.Patient, error)
}

// DoctorFinder resolves the doctor named on a booking.
type DoctorFinder interface {
	GetDoctor(ctx context.Context, id string) (*doctor.Doctor, error)
}

type Service struct {
	repo     Repository
	patients PatientFinder
	doctors  DoctorFinder
	now      func() time.Time
}

func NewService(repo Repository, patients PatientFinder, doctors DoctorFinder) *Service {
	return &Service{repo: repo, patients: patients, doctors: doctors, now: time.Now}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateAppointment books a Scheduled appointment with an active doctor on
// or after today. Patient and doctor names are copied onto the record.
func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	a.PatientID = strings.TrimSpace(a.PatientID)
	a.DoctorID = strings.TrimSpace(a.DoctorID)
	switch {
	case a.PatientID == "":
		return apierr.Invalid("patient_id is required")
	case a.DoctorID == "":
		return apierr.Invalid("doctor_id is required")
	case a.AppointmentDate == "":
		return apierr.Invalid("appointment_date is required")
	case a.AppointmentTime == "":
		return apierr.Invalid("appointment_time is required")
	}

	now := s.now()
	if _, err := time.Parse(time.DateOnly, a.AppointmentDate); err != nil {
		return apierr.Invalid("appointment_date must be YYYY-MM-DD")
	}
	if a.AppointmentDate < now.Format(time.DateOnly) {
		return apierr.Invalid("appointment_date must not be in the past")
	}
	if _, ok := a.MinuteOfDay(); !ok {
		return apierr.Invalid("appointment_time must look like 10:00 AM")
	}
	if a.Type == "" {
		a.Type = Types[0]
	}
	if !slices.Contains(Types, a.Type) {
		return apierr.Invalid("invalid appointment type: %s", a.Type)
	}

	p, err := s.patients.GetPatient(ctx, a.PatientID)
	if errors.Is(err, store.ErrNotFound) {
		return apierr.Invalid("patient %s not found", a.PatientID)
	}
	if err != nil {
		return err
	}
	d, err := s.doctors.GetDoctor(ctx, a.DoctorID)
	if errors.Is(err, store.ErrNotFound) {
		return apierr.Invalid("doctor %s not found", a.DoctorID)
	}
	if err != nil {
		return err
	}
	if !d.IsActive() {
		return apierr.Invalid("doctor %s is not active", a.DoctorID)
	}

	a.PatientName = p.Name
	a.DoctorName = d.Name
	a.Status = StatusScheduled
	a.CreatedDate = now.Format(time.RFC3339)
	return s.repo.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context) ([]*Appointment, error) {
	return s.repo.List(ctx)
}
