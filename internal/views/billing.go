package views

import (
	"time"

	"github.com/samber/lo"

	"github.com/ehr/hms/internal/domain/billing"
)

// MonthRevenue is the summed bill total of one YYYY-MM month.
type MonthRevenue struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// MonthlyRevenue sums bill totals per month of bill_date, months in the
// order first seen. Bills whose date does not start with YYYY-MM are
// skipped.
func MonthlyRevenue(bills []*billing.Bill) []MonthRevenue {
	var out []MonthRevenue
	index := map[string]int{}
	for _, b := range bills {
		month, ok := billMonth(b.BillDate)
		if !ok {
			continue
		}
		i, seen := index[month]
		if !seen {
			i = len(out)
			index[month] = i
			out = append(out, MonthRevenue{Month: month})
		}
		out[i].Total += b.Total
	}
	if out == nil {
		out = []MonthRevenue{}
	}
	return out
}

func billMonth(date string) (string, bool) {
	if len(date) < 7 {
		return "", false
	}
	month := date[:7]
	if _, err := time.Parse("2006-01", month); err != nil {
		return "", false
	}
	return month, true
}

// PaymentStatusBreakdown counts bills per payment status.
func PaymentStatusBreakdown(bills []*billing.Bill) []Bucket {
	return CountBy(bills, func(b *billing.Bill) string { return string(b.PaymentStatus) })
}

// TotalRevenue sums every bill total.
func TotalRevenue(bills []*billing.Bill) float64 {
	return lo.SumBy(bills, func(b *billing.Bill) float64 { return b.Total })
}

type BillingStats struct {
	Bills   int     `json:"bills"`
	Revenue float64 `json:"revenue"`
	Paid    int     `json:"paid"`
	Pending int     `json:"pending"`
}

func ComputeBillingStats(bills []*billing.Bill) BillingStats {
	return BillingStats{
		Bills:   len(bills),
		Revenue: TotalRevenue(bills),
		Paid: lo.CountBy(bills, func(b *billing.Bill) bool {
			return b.PaymentStatus == billing.PaymentPaid
		}),
		Pending: lo.CountBy(bills, func(b *billing.Bill) bool {
			return b.PaymentStatus == billing.PaymentPending
		}),
	}
}
