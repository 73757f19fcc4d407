package doctor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ehr/hms/internal/platform/apierr"
	"github.com/ehr/hms/internal/platform/store"
)

type mockRepo struct {
	items []*Doctor
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = fmt.Sprintf("D%03d", len(m.items)+1)
	m.items = append(m.items, d)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Doctor, error) {
	for _, d := range m.items {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockRepo) List(_ context.Context) ([]*Doctor, error) {
	return m.items, nil
}

func newTestService() *Service {
	svc := NewService(&mockRepo{})
	svc.SetClock(func() time.Time { return time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC) })
	return svc
}

func validDoctor() *Doctor {
	return &Doctor{
		Name:            "Dr. Sarah Wilson",
		Specialization:  "Pediatrics",
		Department:      "Pediatrics",
		Experience:      12,
		Qualification:   "MD, FAAP",
		Phone:           "+1-555-0202",
		Email:           "sarah.wilson@hospital.com",
		ConsultationFee: 180,
	}
}

func TestCreateDoctor_Defaults(t *testing.T) {
	svc := newTestService()
	d := validDoctor()
	if err := svc.CreateDoctor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != "D001" {
		t.Errorf("expected D001, got %s", d.ID)
	}
	if d.Status != StatusActive || !d.IsActive() {
		t.Errorf("expected Active, got %s", d.Status)
	}
	if d.Schedule != DefaultSchedule {
		t.Errorf("expected default schedule, got %q", d.Schedule)
	}
	if d.CreatedDate != "2024-01-20T08:00:00Z" {
		t.Errorf("unexpected created_date %s", d.CreatedDate)
	}
}

func TestCreateDoctor_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Doctor)
	}{
		{"name", func(d *Doctor) { d.Name = "" }},
		{"specialization", func(d *Doctor) { d.Specialization = "" }},
		{"department", func(d *Doctor) { d.Department = "" }},
		{"phone", func(d *Doctor) { d.Phone = " " }},
		{"email", func(d *Doctor) { d.Email = "" }},
		{"bad email", func(d *Doctor) { d.Email = "not-an-address" }},
		{"qualification", func(d *Doctor) { d.Qualification = "" }},
		{"experience", func(d *Doctor) { d.Experience = 51 }},
		{"fee", func(d *Doctor) { d.ConsultationFee = -1 }},
		{"status", func(d *Doctor) { d.Status = "Retired" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			d := validDoctor()
			tt.mutate(d)
			if err := svc.CreateDoctor(context.Background(), d); !errors.Is(err, apierr.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateDoctor_KeepsOnLeave(t *testing.T) {
	svc := newTestService()
	d := validDoctor()
	d.Status = StatusOnLeave
	if err := svc.CreateDoctor(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	if d.IsActive() {
		t.Error("doctor on leave must not be active")
	}
}
