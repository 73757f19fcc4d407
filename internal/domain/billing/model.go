package billing

import "math"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPartial PaymentStatus = "Partial"
)

var validPaymentStatuses = map[PaymentStatus]bool{
	PaymentPending: true, PaymentPaid: true, PaymentPartial: true,
}

func (s PaymentStatus) Known() bool { return validPaymentStatuses[s] }

var validPaymentMethods = map[string]bool{
	"Cash": true, "Credit Card": true, "Debit Card": true, "Insurance": true, "Check": true,
}

const (
	DefaultTaxRate = 10.0
	MaxTaxRate     = 50.0
)

// LineItem is one charge on a bill.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// Bill is one record of the billing collection. The money fields are
// computed once when the bill is created and stored as-is.
type Bill struct {
	ID            string        `json:"id"`
	PatientID     string        `json:"patient_id"`
	PatientName   string        `json:"patient_name"`
	BillDate      string        `json:"bill_date"`
	Items         []LineItem    `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Discount      float64       `json:"discount"`
	Total         float64       `json:"total"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`
	CreatedDate   string        `json:"created_date"`
}

// Charges are the fixed charge lines of the bill form.
type Charges struct {
	ConsultationFee float64 `json:"consultation_fee"`
	RoomCharges     float64 `json:"room_charges"`
	MedicineCharges float64 `json:"medicine_charges"`
	LabCharges      float64 `json:"lab_charges"`
	OtherCharges    float64 `json:"other_charges"`
}

// ItemsFromCharges turns each non-zero charge into a single-quantity line.
func ItemsFromCharges(ch Charges) []LineItem {
	lines := []struct {
		desc   string
		amount float64
	}{
		{"Consultation Fee", ch.ConsultationFee},
		{"Room Charges", ch.RoomCharges},
		{"Medicine Charges", ch.MedicineCharges},
		{"Lab Test Charges", ch.LabCharges},
		{"Other Charges", ch.OtherCharges},
	}
	var items []LineItem
	for _, l := range lines {
		if l.amount > 0 {
			items = append(items, LineItem{Description: l.desc, Quantity: 1, Rate: l.amount, Amount: l.amount})
		}
	}
	return items
}

// BillInput is the create-bill request. Items and Charges are combined;
// TaxRate is a percentage and defaults to DefaultTaxRate when omitted.
type BillInput struct {
	PatientID     string        `json:"patient_id"`
	BillDate      string        `json:"bill_date"`
	Items         []LineItem    `json:"items"`
	Charges       Charges       `json:"charges"`
	TaxRate       *float64      `json:"tax_rate"`
	Discount      float64       `json:"discount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`
}

// Totals holds the computed money fields of a bill.
type Totals struct {
	Items    []LineItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Discount float64    `json:"discount"`
	Total    float64    `json:"total"`
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
