// Package seed installs the sample hospital records into empty stores.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/hms/internal/domain/appointment"
	"github.com/ehr/hms/internal/domain/billing"
	"github.com/ehr/hms/internal/domain/doctor"
	"github.com/ehr/hms/internal/domain/inventory"
	"github.com/ehr/hms/internal/domain/patient"
	"github.com/ehr/hms/internal/platform/store"
)

// Seed writes the sample records of every collection whose document does not
// exist yet. Existing documents are never touched, even when empty or
// corrupt. It returns the collections it wrote.
func Seed(ctx context.Context, st *store.Store, now time.Time, logger zerolog.Logger) ([]store.Collection, error) {
	samples, err := Samples(now)
	if err != nil {
		return nil, err
	}
	var seeded []store.Collection
	for _, c := range store.All {
		exists, err := st.Exists(ctx, c)
		if err != nil {
			return seeded, fmt.Errorf("seed %s: %w", c, err)
		}
		if exists {
			continue
		}
		if err := st.Save(ctx, c, samples[c]); err != nil {
			return seeded, fmt.Errorf("seed %s: %w", c, err)
		}
		logger.Info().Str("collection", c.String()).Int("records", len(samples[c])).Msg("seeded collection")
		seeded = append(seeded, c)
	}
	return seeded, nil
}

// Samples returns the sample records per collection, stamped with now.
func Samples(now time.Time) (map[store.Collection][]store.Record, error) {
	created := now.Format(time.RFC3339)
	typed := map[store.Collection][]any{
		store.Patients:     toAny(samplePatients(created)),
		store.Doctors:      toAny(sampleDoctors(created)),
		store.Appointments: toAny(sampleAppointments(created)),
		store.Inventory:    toAny(sampleInventory(created)),
		store.Billing:      toAny(sampleBills(created)),
	}
	out := make(map[store.Collection][]store.Record, len(typed))
	for c, values := range typed {
		records := make([]store.Record, 0, len(values))
		for _, v := range values {
			rec, err := store.Encode(v)
			if err != nil {
				return nil, fmt.Errorf("encode %s sample: %w", c, err)
			}
			records = append(records, rec)
		}
		out[c] = records
	}
	return out, nil
}

func toAny[T any](items []T) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func str(s string) *string { return &s }

func samplePatients(created string) []*patient.Patient {
	return []*patient.Patient{
		{
			ID: "P001", Name: "John Doe", Age: 35, Gender: "Male",
			Phone: "+1-555-0123", Email: "john.doe@email.com",
			Address:          "123 Main St, City, State 12345",
			BloodGroup:       "O+",
			EmergencyContact: "Jane Doe - +1-555-0124",
			MedicalHistory:   "Hypertension, Diabetes",
			Allergies:        "Penicillin",
			AdmissionDate:    "2024-01-15",
			DischargeDate:    str("2024-01-20"),
			Status:           patient.StatusDischarged,
			AssignedDoctor:   str("Dr. John Smith"),
			RoomNumber:       "101",
			CreatedDate:      created,
		},
		{
			ID: "P002", Name: "Mary Johnson", Age: 28, Gender: "Female",
			Phone: "+1-555-0125", Email: "mary.johnson@email.com",
			Address:          "456 Oak Ave, City, State 12345",
			BloodGroup:       "A+",
			EmergencyContact: "Robert Johnson - +1-555-0126",
			MedicalHistory:   "None",
			Allergies:        "None",
			AdmissionDate:    "2024-01-18",
			DischargeDate:    nil,
			Status:           patient.StatusAdmitted,
			AssignedDoctor:   str("Dr. Sarah Wilson"),
			RoomNumber:       "205",
			CreatedDate:      created,
		},
	}
}

func sampleDoctors(created string) []*doctor.Doctor {
	return []*doctor.Doctor{
		{
			ID: "D001", Name: "Dr. John Smith", Specialization: "Cardiology",
			Experience: 15, Qualification: "MD, FACC",
			Phone: "+1-555-0201", Email: "john.smith@hospital.com",
			Schedule: "Mon-Fri: 9:00 AM - 5:00 PM", ConsultationFee: 200,
			Department: "Cardiology", Status: doctor.StatusActive, CreatedDate: created,
		},
		{
			ID: "D002", Name: "Dr. Sarah Wilson", Specialization: "Pediatrics",
			Experience: 12, Qualification: "MD, FAAP",
			Phone: "+1-555-0202", Email: "sarah.wilson@hospital.com",
			Schedule: "Mon-Sat: 8:00 AM - 4:00 PM", ConsultationFee: 180,
			Department: "Pediatrics", Status: doctor.StatusActive, CreatedDate: created,
		},
		{
			ID: "D003", Name: "Dr. Michael Brown", Specialization: "Orthopedics",
			Experience: 20, Qualification: "MD, FAAOS",
			Phone: "+1-555-0203", Email: "michael.brown@hospital.com",
			Schedule: "Tue-Sat: 10:00 AM - 6:00 PM", ConsultationFee: 250,
			Department: "Orthopedics", Status: doctor.StatusActive, CreatedDate: created,
		},
	}
}

func sampleAppointments(created string) []*appointment.Appointment {
	return []*appointment.Appointment{
		{
			ID: "A001", PatientID: "P001", PatientName: "John Doe",
			DoctorID: "D001", DoctorName: "Dr. John Smith",
			AppointmentDate: "2024-01-22", AppointmentTime: "10:00 AM",
			Type: "Consultation", Status: appointment.StatusScheduled,
			Notes: "Regular checkup", CreatedDate: created,
		},
		{
			ID: "A002", PatientID: "P002", PatientName: "Mary Johnson",
			DoctorID: "D002", DoctorName: "Dr. Sarah Wilson",
			AppointmentDate: "2024-01-23", AppointmentTime: "2:00 PM",
			Type: "Follow-up", Status: appointment.StatusCompleted,
			Notes: "Post-surgery checkup", CreatedDate: created,
		},
	}
}

func sampleInventory(created string) []*inventory.Item {
	return []*inventory.Item{
		{
			ID: "M001", Name: "Paracetamol", Category: "Medicine", Type: "Tablet",
			Quantity: 500, Unit: "Tablets", PricePerUnit: 0.50, Supplier: "PharmaCorp",
			ExpiryDate: str("2025-12-31"), MinimumStock: 100,
			Status: inventory.StatusInStock, CreatedDate: created,
		},
		{
			ID: "E001", Name: "Stethoscope", Category: "Equipment", Type: "Diagnostic",
			Quantity: 25, Unit: "Pieces", PricePerUnit: 150.00, Supplier: "MedEquip Inc",
			ExpiryDate: nil, MinimumStock: 5,
			Status: inventory.StatusInStock, CreatedDate: created,
		},
	}
}

func sampleBills(created string) []*billing.Bill {
	return []*billing.Bill{
		{
			ID: "B001", PatientID: "P001", PatientName: "John Doe", BillDate: "2024-01-20",
			Items: []billing.LineItem{
				{Description: "Consultation Fee", Quantity: 1, Rate: 200, Amount: 200},
				{Description: "Room Charges (5 days)", Quantity: 5, Rate: 100, Amount: 500},
				{Description: "Medicine", Quantity: 1, Rate: 50, Amount: 50},
			},
			Subtotal: 750, Tax: 75, Discount: 0, Total: 825,
			PaymentStatus: billing.PaymentPaid, PaymentMethod: "Credit Card",
			CreatedDate: created,
		},
	}
}
