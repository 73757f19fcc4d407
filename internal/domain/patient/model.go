package patient

// Status is a patient's care status. Stored values are free text; the
// constants are the choices offered on admission.
type Status string

const (
	StatusAdmitted    Status = "Admitted"
	StatusDischarged  Status = "Discharged"
	StatusTransferred Status = "Transferred"
	StatusEmergency   Status = "Emergency"
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{StatusAdmitted, StatusDischarged, StatusTransferred, StatusEmergency}

// Known reports whether s is one of the offered statuses.
func (s Status) Known() bool {
	for _, k := range Statuses {
		if s == k {
			return true
		}
	}
	return false
}

// Genders offered on admission.
var Genders = []string{"Male", "Female", "Other"}

// Patient is one record of the patients collection.
type Patient struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Age              int     `json:"age"`
	Gender           string  `json:"gender"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email"`
	Address          string  `json:"address"`
	BloodGroup       string  `json:"blood_group"`
	EmergencyContact string  `json:"emergency_contact"`
	MedicalHistory   string  `json:"medical_history"`
	Allergies        string  `json:"allergies"`
	AdmissionDate    string  `json:"admission_date"`
	DischargeDate    *string `json:"discharge_date"`
	Status           Status  `json:"status"`
	AssignedDoctor   *string `json:"assigned_doctor"`
	RoomNumber       string  `json:"room_number"`
	CreatedDate      string  `json:"created_date"`
}
