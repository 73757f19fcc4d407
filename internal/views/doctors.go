package views

import (
	"slices"

	"github.com/samber/lo"

	"github.com/ehr/hms/internal/domain/doctor"
)

type DoctorStats struct {
	Total             int     `json:"total"`
	Active            int     `json:"active"`
	Specializations   int     `json:"specializations"`
	AverageExperience float64 `json:"average_experience"`
}

func ComputeDoctorStats(doctors []*doctor.Doctor) DoctorStats {
	stats := DoctorStats{
		Total:  len(doctors),
		Active: lo.CountBy(doctors, (*doctor.Doctor).IsActive),
		Specializations: len(lo.Uniq(lo.FilterMap(doctors, func(d *doctor.Doctor, _ int) (string, bool) {
			return d.Specialization, d.Specialization != ""
		}))),
	}
	if len(doctors) > 0 {
		years := lo.SumBy(doctors, func(d *doctor.Doctor) int { return d.Experience })
		stats.AverageExperience = float64(years) / float64(len(doctors))
	}
	return stats
}

// Departments lists the distinct departments, sorted. Doctors without one
// are listed under Unknown.
func Departments(doctors []*doctor.Doctor) []string {
	depts := lo.Uniq(lo.Map(doctors, func(d *doctor.Doctor, _ int) string {
		return lo.Ternary(d.Department == "", Unknown, d.Department)
	}))
	slices.Sort(depts)
	return depts
}

// ScheduleEntry is one row of the working-hours table.
type ScheduleEntry struct {
	DoctorID        string  `json:"doctor_id"`
	Doctor          string  `json:"doctor"`
	Specialization  string  `json:"specialization"`
	Department      string  `json:"department"`
	Schedule        string  `json:"schedule"`
	ConsultationFee float64 `json:"consultation_fee"`
	Phone           string  `json:"phone"`
	Status          string  `json:"status"`
}

// DoctorSchedules lists active doctors, optionally limited to one department.
func DoctorSchedules(doctors []*doctor.Doctor, department string) []ScheduleEntry {
	return lo.FilterMap(doctors, func(d *doctor.Doctor, _ int) (ScheduleEntry, bool) {
		if !d.IsActive() || (active(department) && d.Department != department) {
			return ScheduleEntry{}, false
		}
		return ScheduleEntry{
			DoctorID:        d.ID,
			Doctor:          d.Name,
			Specialization:  d.Specialization,
			Department:      d.Department,
			Schedule:        lo.Ternary(d.Schedule == "", "Not specified", d.Schedule),
			ConsultationFee: d.ConsultationFee,
			Phone:           d.Phone,
			Status:          string(d.Status),
		}, true
	})
}
