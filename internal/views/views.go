// Package views computes read-only aggregations over collections that are
// already in memory. Nothing here fails: records with missing or malformed
// fields are counted under "Unknown" or skipped.
package views

import (
	"time"

	"github.com/samber/lo"

	"github.com/ehr/hms/internal/domain/appointment"
	"github.com/ehr/hms/internal/domain/billing"
	"github.com/ehr/hms/internal/domain/doctor"
	"github.com/ehr/hms/internal/domain/inventory"
	"github.com/ehr/hms/internal/domain/patient"
)

// Unknown is the bucket for records without a value for the grouping key.
const Unknown = "Unknown"

// Bucket is one group of a count breakdown.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Dataset is one read of every collection.
type Dataset struct {
	Patients     []*patient.Patient         `json:"patients"`
	Doctors      []*doctor.Doctor           `json:"doctors"`
	Appointments []*appointment.Appointment `json:"appointments"`
	Inventory    []*inventory.Item          `json:"inventory"`
	Bills        []*billing.Bill            `json:"bills"`
}

// Today formats t as the ISO date used by every date field.
func Today(t time.Time) string {
	return t.Format(time.DateOnly)
}

// CountBy counts items per key. Buckets appear in the order their key is
// first seen; empty keys count under Unknown.
func CountBy[T any](items []T, key func(T) string) []Bucket {
	keys := lo.Map(items, func(it T, _ int) string {
		if k := key(it); k != "" {
			return k
		}
		return Unknown
	})
	counts := lo.CountValues(keys)
	return lo.Map(lo.Uniq(keys), func(k string, _ int) Bucket {
		return Bucket{Key: k, Count: counts[k]}
	})
}

// Count returns the count of key in buckets, or 0.
func Count(buckets []Bucket, key string) int {
	b, ok := lo.Find(buckets, func(b Bucket) bool { return b.Key == key })
	if !ok {
		return 0
	}
	return b.Count
}

func truncate[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
