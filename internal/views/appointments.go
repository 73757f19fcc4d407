package views

import (
	"cmp"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/ehr/hms/internal/domain/appointment"
)

// UpcomingAppointments returns Scheduled appointments dated today or later,
// earliest first, at most n of them (n <= 0 returns all). Dates compare as
// ISO strings.
func UpcomingAppointments(appts []*appointment.Appointment, today string, n int) []*appointment.Appointment {
	out := lo.Filter(appts, func(a *appointment.Appointment, _ int) bool {
		return a.AppointmentDate >= today && a.Status == appointment.StatusScheduled
	})
	slices.SortStableFunc(out, func(a, b *appointment.Appointment) int {
		return cmp.Compare(a.AppointmentDate, b.AppointmentDate)
	})
	return truncate(out, n)
}

// TodaysAppointments returns the appointments dated today, any status.
func TodaysAppointments(appts []*appointment.Appointment, today string) []*appointment.Appointment {
	return lo.Filter(appts, func(a *appointment.Appointment, _ int) bool {
		return a.AppointmentDate == today
	})
}

// Day is one calendar day of appointments.
type Day struct {
	Date         string                     `json:"date"`
	Appointments []*appointment.Appointment `json:"appointments"`
}

// AppointmentsInRange groups the appointments dated within [start, end] by
// day, days ascending and each day ordered by time. Appointments with an
// unparseable date are left out.
func AppointmentsInRange(appts []*appointment.Appointment, start, end string) []Day {
	inRange := lo.Filter(appts, func(a *appointment.Appointment, _ int) bool {
		if _, err := time.Parse(time.DateOnly, a.AppointmentDate); err != nil {
			return false
		}
		return a.AppointmentDate >= start && a.AppointmentDate <= end
	})
	byDate := lo.GroupBy(inRange, func(a *appointment.Appointment) string { return a.AppointmentDate })
	dates := lo.Keys(byDate)
	slices.Sort(dates)

	return lo.Map(dates, func(date string, _ int) Day {
		day := byDate[date]
		slices.SortStableFunc(day, compareTime)
		return Day{Date: date, Appointments: day}
	})
}

// compareTime orders by clock time; unparseable times sort last, by text.
func compareTime(a, b *appointment.Appointment) int {
	am, aok := a.MinuteOfDay()
	bm, bok := b.MinuteOfDay()
	switch {
	case aok && bok:
		return cmp.Compare(am, bm)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return cmp.Compare(a.AppointmentTime, b.AppointmentTime)
	}
}

type AppointmentStats struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Today     int `json:"today"`
}

func ComputeAppointmentStats(appts []*appointment.Appointment, today string) AppointmentStats {
	byStatus := CountBy(appts, func(a *appointment.Appointment) string { return string(a.Status) })
	return AppointmentStats{
		Total:     len(appts),
		Scheduled: Count(byStatus, string(appointment.StatusScheduled)),
		Completed: Count(byStatus, string(appointment.StatusCompleted)),
		Cancelled: Count(byStatus, string(appointment.StatusCancelled)),
		Today:     len(TodaysAppointments(appts, today)),
	}
}
