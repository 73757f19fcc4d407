package appointment

import "time"

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

var Statuses = []Status{StatusScheduled, StatusCompleted, StatusCancelled}

func (s Status) Known() bool {
	for _, k := range Statuses {
		if s == k {
			return true
		}
	}
	return false
}

// Types offered when booking.
var Types = []string{
	"Consultation", "Follow-up", "Check-up", "Emergency",
	"Surgery", "Therapy", "Vaccination", "Diagnostic",
}

// TimeLayout is the clock format of appointment_time ("10:00 AM", "2:00 PM").
const TimeLayout = "3:04 PM"

// Appointment is one record of the appointments collection. Patient and
// doctor names are copied at booking time and are not kept in sync.
type Appointment struct {
	ID              string `json:"id"`
	PatientID       string `json:"patient_id"`
	PatientName     string `json:"patient_name"`
	DoctorID        string `json:"doctor_id"`
	DoctorName      string `json:"doctor_name"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Type            string `json:"type"`
	Status          Status `json:"status"`
	Notes           string `json:"notes"`
	CreatedDate     string `json:"created_date"`
}

// MinuteOfDay parses AppointmentTime. ok is false for unparseable times.
func (a *Appointment) MinuteOfDay() (int, bool) {
	t, err := time.Parse(TimeLayout, a.AppointmentTime)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
