package reporting

import (
	"errors"
	"testing"
	"time"

	"github.com/ehr/hms/internal/domain/appointment"
	"github.com/ehr/hms/internal/domain/billing"
	"github.com/ehr/hms/internal/domain/doctor"
	"github.com/ehr/hms/internal/domain/inventory"
	"github.com/ehr/hms/internal/domain/patient"
	"github.com/ehr/hms/internal/platform/apierr"
	"github.com/ehr/hms/internal/views"
)

var testNow = time.Date(2024, 1, 22, 9, 30, 0, 0, time.UTC)

func testDataset() views.Dataset {
	return views.Dataset{
		Patients: []*patient.Patient{
			{ID: "P001", Name: "John Doe", Gender: "Male", Status: patient.StatusDischarged, CreatedDate: "2024-01-15T08:00:00Z"},
			{ID: "P002", Name: "Mary Johnson", Gender: "Female", Status: patient.StatusAdmitted, CreatedDate: "2024-01-18T08:00:00Z"},
		},
		Doctors: []*doctor.Doctor{
			{ID: "D001", Name: "Dr. John Smith", Department: "Cardiology", Status: doctor.StatusActive, Experience: 15},
			{ID: "D002", Name: "Dr. Sarah Wilson", Department: "Pediatrics", Status: doctor.StatusActive, Experience: 12},
		},
		Appointments: []*appointment.Appointment{
			{ID: "A001", AppointmentDate: "2024-01-22", AppointmentTime: "10:00 AM", Status: appointment.StatusScheduled},
			{ID: "A002", AppointmentDate: "2024-01-23", AppointmentTime: "2:00 PM", Status: appointment.StatusCompleted},
			{ID: "A003", AppointmentDate: "2024-01-25", AppointmentTime: "9:00 AM", Status: appointment.StatusScheduled},
		},
		Inventory: []*inventory.Item{
			{ID: "M001", Quantity: 500, MinimumStock: 100, PricePerUnit: 0.5},
			{ID: "I002", Quantity: 3, MinimumStock: 10, PricePerUnit: 2},
		},
		Bills: []*billing.Bill{
			{ID: "B001", BillDate: "2024-01-20", Total: 825, PaymentStatus: billing.PaymentPaid},
			{ID: "B002", BillDate: "2024-02-02", Total: 110, PaymentStatus: billing.PaymentPending},
		},
	}
}

func TestPredefinedViews(t *testing.T) {
	seen := map[string]bool{}
	for _, v := range PredefinedViews {
		if v.ID == "" || v.Name == "" || v.Description == "" {
			t.Errorf("view %+v is missing metadata", v)
		}
		if v.eval == nil {
			t.Errorf("view %s has no evaluator", v.ID)
		}
		if seen[v.ID] {
			t.Errorf("duplicate view id %s", v.ID)
		}
		seen[v.ID] = true
	}
}

func TestPredefinedViews_AllEvaluate(t *testing.T) {
	ds := testDataset()
	for _, v := range PredefinedViews {
		report, err := Evaluate(v.ID, ds, testNow, nil)
		if err != nil {
			t.Errorf("%s: %v", v.ID, err)
			continue
		}
		if report.ViewID != v.ID || report.Result == nil || !report.GeneratedAt.Equal(testNow) {
			t.Errorf("%s: unexpected report %+v", v.ID, report)
		}
	}
}

func TestFindView(t *testing.T) {
	if v := FindView("monthly-revenue"); v == nil || v.Name != "Monthly Revenue" {
		t.Errorf("expected monthly-revenue view, got %+v", v)
	}
	if FindView("nonexistent") != nil {
		t.Error("expected nil for nonexistent view")
	}
}

func TestEvaluate_NotFound(t *testing.T) {
	if _, err := Evaluate("nonexistent", testDataset(), testNow, nil); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("expected ErrViewNotFound, got %v", err)
	}
}

func TestEvaluate_MonthlyRevenue(t *testing.T) {
	report, err := Evaluate("monthly-revenue", testDataset(), testNow, nil)
	if err != nil {
		t.Fatal(err)
	}
	months := report.Result.([]views.MonthRevenue)
	if len(months) != 2 || months[0].Month != "2024-01" || months[0].Total != 825 || months[1].Total != 110 {
		t.Errorf("unexpected months %+v", months)
	}
}

func TestEvaluate_UpcomingUsesLimitAndClock(t *testing.T) {
	report, err := Evaluate("upcoming-appointments", testDataset(), testNow, map[string]string{"limit": "1", "ignored": "x"})
	if err != nil {
		t.Fatal(err)
	}
	appts := report.Result.([]*appointment.Appointment)
	if len(appts) != 1 || appts[0].ID != "A001" {
		t.Errorf("expected only A001, got %d appointments", len(appts))
	}
	if _, ok := report.Parameters["ignored"]; ok {
		t.Error("undeclared parameters must not be echoed")
	}
	if report.Parameters["limit"] != "1" {
		t.Errorf("expected limit parameter recorded, got %v", report.Parameters)
	}
}

func TestEvaluate_BadLimit(t *testing.T) {
	_, err := Evaluate("recent-patients", testDataset(), testNow, map[string]string{"limit": "-2"})
	if !errors.Is(err, apierr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestEvaluate_DoctorSchedulesDepartment(t *testing.T) {
	report, err := Evaluate("doctor-schedules", testDataset(), testNow, map[string]string{"department": "Pediatrics"})
	if err != nil {
		t.Fatal(err)
	}
	entries := report.Result.([]views.ScheduleEntry)
	if len(entries) != 1 || entries[0].DoctorID != "D002" {
		t.Errorf("unexpected schedules %+v", entries)
	}
}
