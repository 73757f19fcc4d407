// Package reporting serves the dashboard and report pages: predefined
// views evaluated over a fresh read of every collection.
package reporting

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ehr/hms/internal/platform/apierr"
	"github.com/ehr/hms/internal/views"
)

const (
	DefaultUpcomingLimit = 5
	DefaultRecentLimit   = 5
	DefaultCalendarDays  = 7
)

var ErrViewNotFound = errors.New("view not found")

// ViewDefinition describes one predefined report.
type ViewDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters"`

	eval func(ds views.Dataset, today time.Time, params map[string]string) (any, error)
}

// ViewReport holds the result of evaluating a view.
type ViewReport struct {
	ViewID      string            `json:"view_id"`
	ViewName    string            `json:"view_name"`
	GeneratedAt time.Time         `json:"generated_at"`
	Result      any               `json:"result"`
	Parameters  map[string]string `json:"parameters,omitempty"`
}

// PredefinedViews is the list of available report views.
var PredefinedViews = []ViewDefinition{
	{
		ID:          "patient-status",
		Name:        "Patient Status Distribution",
		Description: "Number of patients per status",
		Parameters:  []string{},
		eval: func(ds views.Dataset, _ time.Time, _ map[string]string) (any, error) {
			return views.StatusDistribution(ds.Patients), nil
		},
	},
	{
		ID:          "patient-gender",
		Name:        "Gender Distribution",
		Description: "Number of patients per gender",
		Parameters:  []string{},
		eval: func(ds views.Dataset, _ time.Time, _ map[string]string) (any, error) {
			return views.GenderDistribution(ds.Patients), nil
		},
	},
	{
		ID:          "patient-stats",
		Name:        "Patient Statistics",
		Description: "Total, admitted and discharged patients and emergency history mentions",
		Parameters:  []string{},
		eval: func(ds views.Dataset, _ time.Time, _ map[string]string) (any, error) {
			return views.ComputePatientStats(ds.Patients), nil
		},
	},
	{
		ID:          "recent-patients",
		Name:        "Recent Patients",
		Description: "Most recently registered patients",
		Parameters:  []string{"limit"},
		eval: func(ds views.Dataset, _ time.Time, p map[string]string) (any, error) {
			n, err := intParam(p, "limit", DefaultRecentLimit)
			if err != nil {
				return nil, err
			}
			return views.RecentPatients(ds.Patients, n), nil
		},
	},
	{
		ID:          "doctor-stats",
		Name:        "Doctor Statistics",
		Description: "Doctor counts, distinct specializations and average experience",
		Parameters:  []string{},
		eval: func(ds views.Dataset, _ time.Time, _ map[string]string) (any, error) {
			return views.ComputeDoctorStats(ds.Doctors), nil
		},
	},
	{
		ID:          "doctor-schedules",
		Name:        "Doctor Schedules",
		Description: "Working hours of active doctors, optionally for one department",
		Parameters:  []string{"department"},
		eval: func(ds views.Dataset, _ time.Time, p map[string]string) (any, error) {
			return views.DoctorSchedules(ds.Doctors, p["department"]), nil
		},
	},
	{
		ID:          "upcoming-appointments",
		Name:        "Upcoming Appointments",
		Description: "Scheduled appointments from today on, soonest first",
		Parameters:  []string{"limit"},
		eval: func(ds views.Dataset, today time.Time, p map[string]string) (any, error) {
			n, err := intParam(p, "limit", DefaultUpcomingLimit)
			if err != nil {
				return nil, err
			}
			return views.UpcomingAppointments(ds.Appointments, views.Today(today), n), nil
		},
	},
	{
		ID:          "appointment-stats",
		Name:        "Appointment Statistics",
		Description: "Appointments per status and for today",
		Parameters:  []string{},
		eval: func(ds views.Dataset, today time.Time, _ map[string]string) (any, error) {
			return views.ComputeAppointmentStats(ds.Appointments, views.Today(today)), nil
		},
	},
	{
		ID:          "monthly-revenue",
		Name:        "Monthly Revenue",
		Description: "Sum of bill totals per billing month",
		Parameters:  []string{},
		eval: func(ds views.Dataset, _ time.Time, _ map[string]string) (any, error) {
			return views.MonthlyRevenue(ds.Bills), nil
		},
	},
	{
		ID:          "payment-status",
		Name:        "Payment Status",
		Description: "Number of bills per payment status",
		Parameters:  []string{},
		eval: func(ds views.Dataset, _ time.Time, _ map[string]string) (any, error) {
			return views.PaymentStatusBreakdown(ds.Bills), nil
		},
	},
	{
		ID:          "billing-stats",
		Name:        "Billing Statistics",
		Description: "Bill count, revenue and paid/pending counts",
		Parameters:  []string{},
		eval: func(ds views.Dataset, _ time.Time, _ map[string]string) (any, error) {
			return views.ComputeBillingStats(ds.Bills), nil
		},
	},
	{
		ID:          "low-stock",
		Name:        "Low Stock Items",
		Description: "Inventory items at or below their minimum stock",
		Parameters:  []string{},
		eval: func(ds views.Dataset, _ time.Time, _ map[string]string) (any, error) {
			return views.LowStock(ds.Inventory), nil
		},
	},
	{
		ID:          "inventory-stats",
		Name:        "Inventory Statistics",
		Description: "Item counts and total stock value",
		Parameters:  []string{},
		eval: func(ds views.Dataset, _ time.Time, _ map[string]string) (any, error) {
			return views.ComputeInventoryStats(ds.Inventory), nil
		},
	},
}

// FindView looks up a view by ID.
func FindView(id string) *ViewDefinition {
	for i := range PredefinedViews {
		if PredefinedViews[i].ID == id {
			return &PredefinedViews[i]
		}
	}
	return nil
}

// Evaluate runs the view with the given ID. Only the view's declared
// parameters are read from params.
func Evaluate(id string, ds views.Dataset, now time.Time, params map[string]string) (*ViewReport, error) {
	def := FindView(id)
	if def == nil {
		return nil, fmt.Errorf("%q: %w", id, ErrViewNotFound)
	}
	used := map[string]string{}
	for _, p := range def.Parameters {
		if v := params[p]; v != "" {
			used[p] = v
		}
	}
	result, err := def.eval(ds, now, used)
	if err != nil {
		return nil, err
	}
	return &ViewReport{
		ViewID:      def.ID,
		ViewName:    def.Name,
		GeneratedAt: now,
		Result:      result,
		Parameters:  used,
	}, nil
}

func intParam(params map[string]string, name string, def int) (int, error) {
	v, ok := params[name]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apierr.Invalid("%s must be a non-negative integer", name)
	}
	return n, nil
}
