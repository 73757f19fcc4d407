package doctor

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/ehr/hms/internal/platform/apierr"
)

const maxExperience = 50

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	switch {
	case d.Name == "":
		return apierr.Invalid("name is required")
	case d.Specialization == "":
		return apierr.Invalid("specialization is required")
	case d.Department == "":
		return apierr.Invalid("department is required")
	case strings.TrimSpace(d.Phone) == "":
		return apierr.Invalid("phone is required")
	case d.Email == "":
		return apierr.Invalid("email is required")
	case strings.TrimSpace(d.Qualification) == "":
		return apierr.Invalid("qualification is required")
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return apierr.Invalid("invalid email: %s", d.Email)
	}
	if d.Experience < 0 || d.Experience > maxExperience {
		return apierr.Invalid("experience must be between 0 and %d years", maxExperience)
	}
	if d.ConsultationFee < 0 {
		return apierr.Invalid("consultation_fee must not be negative")
	}
	if strings.TrimSpace(d.Schedule) == "" {
		d.Schedule = DefaultSchedule
	}
	if d.Status == "" {
		d.Status = StatusActive
	}
	if !d.Status.Known() {
		return apierr.Invalid("invalid status: %s", d.Status)
	}
	d.CreatedDate = s.now().Format(time.RFC3339)
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.repo.List(ctx)
}
