package views

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/ehr/hms/internal/domain/patient"
)

// StatusDistribution counts patients per status.
func StatusDistribution(patients []*patient.Patient) []Bucket {
	return CountBy(patients, func(p *patient.Patient) string { return string(p.Status) })
}

// GenderDistribution counts patients per gender.
func GenderDistribution(patients []*patient.Patient) []Bucket {
	return CountBy(patients, func(p *patient.Patient) string { return p.Gender })
}

// All is the filter value that matches everything.
const All = "All"

// PatientFilter narrows SearchPatients. Empty fields and All are ignored.
type PatientFilter struct {
	Name   string `query:"name" json:"name"`
	Status string `query:"status" json:"status"`
	Gender string `query:"gender" json:"gender"`
}

// SearchPatients returns patients whose name contains Name
// (case-insensitive, whitespace included) and whose status and gender match
// exactly.
func SearchPatients(patients []*patient.Patient, f PatientFilter) []*patient.Patient {
	name := strings.ToLower(f.Name)
	return lo.Filter(patients, func(p *patient.Patient, _ int) bool {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			return false
		}
		if active(f.Status) && string(p.Status) != f.Status {
			return false
		}
		if active(f.Gender) && p.Gender != f.Gender {
			return false
		}
		return true
	})
}

func active(filter string) bool {
	return filter != "" && filter != All
}

// RecentPatients returns the n most recently created patients, newest first.
func RecentPatients(patients []*patient.Patient, n int) []*patient.Patient {
	out := slices.Clone(patients)
	slices.SortStableFunc(out, func(a, b *patient.Patient) int {
		return cmp.Compare(b.CreatedDate, a.CreatedDate)
	})
	return truncate(out, n)
}

type PatientStats struct {
	Total      int `json:"total"`
	Admitted   int `json:"admitted"`
	Discharged int `json:"discharged"`
	// Emergency counts patients whose medical history mentions an emergency.
	Emergency int `json:"emergency"`
}

func ComputePatientStats(patients []*patient.Patient) PatientStats {
	return PatientStats{
		Total: len(patients),
		Admitted: lo.CountBy(patients, func(p *patient.Patient) bool {
			return p.Status == patient.StatusAdmitted
		}),
		Discharged: lo.CountBy(patients, func(p *patient.Patient) bool {
			return p.Status == patient.StatusDischarged
		}),
		Emergency: lo.CountBy(patients, func(p *patient.Patient) bool {
			return strings.Contains(strings.ToLower(p.MedicalHistory), "emergency")
		}),
	}
}
