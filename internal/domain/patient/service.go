package patient

import (
	"context"
	"strings"
	"time"

	"github.com/ehr/hms/internal/platform/apierr"
)

const maxAge = 150

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock replaces the clock used for default dates and created_date.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreatePatient validates the admission form fields, fills defaults and
// stores the patient under the next P### id.
func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Name == "" {
		return apierr.Invalid("name is required")
	}
	if p.Age <= 0 {
		return apierr.Invalid("age is required")
	}
	if p.Age > maxAge {
		return apierr.Invalid("age must be at most %d", maxAge)
	}
	if p.Gender == "" {
		return apierr.Invalid("gender is required")
	}
	if p.Phone == "" {
		return apierr.Invalid("phone is required")
	}
	if p.Status == "" {
		p.Status = StatusAdmitted
	}
	if !p.Status.Known() {
		return apierr.Invalid("invalid status: %s", p.Status)
	}
	if p.BloodGroup == "" {
		p.BloodGroup = "Unknown"
	}

	now := s.now()
	if p.AdmissionDate == "" {
		p.AdmissionDate = now.Format(time.DateOnly)
	}
	if _, err := time.Parse(time.DateOnly, p.AdmissionDate); err != nil {
		return apierr.Invalid("admission_date must be YYYY-MM-DD")
	}
	if p.DischargeDate != nil {
		d := strings.TrimSpace(*p.DischargeDate)
		switch {
		case d == "" || d == p.AdmissionDate:
			p.DischargeDate = nil
		default:
			if _, err := time.Parse(time.DateOnly, d); err != nil {
				return apierr.Invalid("discharge_date must be YYYY-MM-DD")
			}
			p.DischargeDate = &d
		}
	}
	if p.AssignedDoctor != nil {
		if d := strings.TrimSpace(*p.AssignedDoctor); d == "" || d == "None" {
			p.AssignedDoctor = nil
		}
	}
	p.CreatedDate = now.Format(time.RFC3339)

	return s.repo.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	return s.repo.List(ctx)
}
