package doctor

// Status is a doctor's availability. Only Active doctors take appointments.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusOnLeave  Status = "On Leave"
)

var Statuses = []Status{StatusActive, StatusInactive, StatusOnLeave}

func (s Status) Known() bool {
	for _, k := range Statuses {
		if s == k {
			return true
		}
	}
	return false
}

// DefaultSchedule is offered when a doctor is added without working hours.
const DefaultSchedule = "Mon-Fri: 9:00 AM - 5:00 PM"

// Doctor is one record of the doctors collection.
type Doctor struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization"`
	Department      string  `json:"department"`
	Experience      int     `json:"experience"`
	Qualification   string  `json:"qualification"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	ConsultationFee float64 `json:"consultation_fee"`
	Schedule        string  `json:"schedule"`
	Status          Status  `json:"status"`
	CreatedDate     string  `json:"created_date"`
}

// IsActive reports whether the doctor can be booked.
func (d *Doctor) IsActive() bool { return d.Status == StatusActive }
