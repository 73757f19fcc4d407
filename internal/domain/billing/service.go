package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ehr/hms/internal/domain/patient"
	"github.com/ehr/hms/internal/platform/apierr"
	"github.com/ehr/hms/internal/platform/store"
)

// PatientFinder resolves the patient a bill is issued to.
type PatientFinder interface {
	GetPatient(ctx context.Context, id string) (*patient.Patient, error)
}

type Service struct {
	bills    BillRepository
	patients PatientFinder
	now      func() time.Time
}

func NewService(bills BillRepository, patients PatientFinder) *Service {
	return &Service{bills: bills, patients: patients, now: time.Now}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Calculate prices the bill lines: amount = quantity x rate, tax is a
// percentage of the subtotal and total = subtotal + tax - discount. No
// rounding is applied.
func Calculate(in BillInput) (Totals, error) {
	items := make([]LineItem, 0, len(in.Items)+5)
	items = append(items, in.Items...)
	items = append(items, ItemsFromCharges(in.Charges)...)

	var subtotal float64
	for i := range items {
		it := &items[i]
		it.Description = strings.TrimSpace(it.Description)
		if it.Description == "" {
			return Totals{}, apierr.Invalid("items[%d]: description is required", i)
		}
		if it.Quantity == 0 {
			it.Quantity = 1
		}
		if it.Quantity < 0 || it.Rate < 0 || !finite(it.Quantity, it.Rate) {
			return Totals{}, apierr.Invalid("items[%d]: quantity and rate must not be negative", i)
		}
		it.Amount = it.Quantity * it.Rate
		subtotal += it.Amount
	}

	rate := DefaultTaxRate
	if in.TaxRate != nil {
		rate = *in.TaxRate
	}
	if rate < 0 || rate > MaxTaxRate || !finite(rate) {
		return Totals{}, apierr.Invalid("tax_rate must be between 0 and %g", MaxTaxRate)
	}
	if in.Discount < 0 || !finite(in.Discount) {
		return Totals{}, apierr.Invalid("discount must not be negative")
	}

	tax := subtotal * rate / 100
	total := subtotal + tax - in.Discount
	if total <= 0 {
		return Totals{}, apierr.Invalid("total must be greater than 0")
	}
	return Totals{Items: items, Subtotal: subtotal, Tax: tax, Discount: in.Discount, Total: total}, nil
}

// CreateBill prices the input, copies the patient's name onto the bill and
// stores it under the next B### id.
func (s *Service) CreateBill(ctx context.Context, in BillInput) (*Bill, error) {
	in.PatientID = strings.TrimSpace(in.PatientID)
	if in.PatientID == "" {
		return nil, apierr.Invalid("patient_id is required")
	}
	now := s.now()
	if in.BillDate == "" {
		in.BillDate = now.Format(time.DateOnly)
	}
	if _, err := time.Parse(time.DateOnly, in.BillDate); err != nil {
		return nil, apierr.Invalid("bill_date must be YYYY-MM-DD")
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = PaymentPending
	}
	if !in.PaymentStatus.Known() {
		return nil, apierr.Invalid("invalid payment_status: %s", in.PaymentStatus)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "Cash"
	}
	if !validPaymentMethods[in.PaymentMethod] {
		return nil, apierr.Invalid("invalid payment_method: %s", in.PaymentMethod)
	}

	totals, err := Calculate(in)
	if err != nil {
		return nil, err
	}

	p, err := s.patients.GetPatient(ctx, in.PatientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.Invalid("patient %s not found", in.PatientID)
	}
	if err != nil {
		return nil, err
	}

	b := &Bill{
		PatientID:     p.ID,
		PatientName:   p.Name,
		BillDate:      in.BillDate,
		Items:         totals.Items,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		Total:         totals.Total,
		PaymentStatus: in.PaymentStatus,
		PaymentMethod: in.PaymentMethod,
		CreatedDate:   now.Format(time.RFC3339),
	}
	if err := s.bills.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetBill(ctx context.Context, id string) (*Bill, error) {
	return s.bills.GetByID(ctx, id)
}

func (s *Service) ListBills(ctx context.Context) ([]*Bill, error) {
	return s.bills.List(ctx)
}
