package inventory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/ehr/hms/internal/platform/apierr"
)

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

// CreateItem validates and stores a new stock item. An empty status is
// derived from quantity and minimum stock.
func (s *Service) CreateItem(ctx context.Context, item *Item) error {
	item.Name = strings.TrimSpace(item.Name)
	item.Unit = strings.TrimSpace(item.Unit)
	switch {
	case item.Name == "":
		return apierr.Invalid("name is required")
	case item.Category == "":
		return apierr.Invalid("category is required")
	case item.Unit == "":
		return apierr.Invalid("unit is required")
	case item.Quantity < 0:
		return apierr.Invalid("quantity must not be negative")
	case item.PricePerUnit < 0:
		return apierr.Invalid("price_per_unit must not be negative")
	case item.MinimumStock < 0:
		return apierr.Invalid("minimum_stock must not be negative")
	}
	if !slices.Contains(Categories, item.Category) {
		return apierr.Invalid("invalid category: %s", item.Category)
	}
	if item.ExpiryDate != nil {
		d := strings.TrimSpace(*item.ExpiryDate)
		if d == "" {
			item.ExpiryDate = nil
		} else {
			if _, err := time.Parse(time.DateOnly, d); err != nil {
				return apierr.Invalid("expiry_date must be YYYY-MM-DD")
			}
			item.ExpiryDate = &d
		}
	}
	if item.Status == "" {
		item.Status = StockStatus(item.Quantity, item.MinimumStock)
	}
	if !item.Status.Known() {
		return apierr.Invalid("invalid status: %s", item.Status)
	}
	item.CreatedDate = s.now().Format(time.RFC3339)
	return s.repo.Create(ctx, item)
}

func (s *Service) GetItem(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListItems(ctx context.Context) ([]*Item, error) {
	return s.repo.List(ctx)
}
