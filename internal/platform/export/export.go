// Package export renders every collection into an Excel workbook: an
// Overview sheet with the dashboard figures followed by one sheet per
// collection.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/ehr/hms/internal/domain/appointment"
	"github.com/ehr/hms/internal/domain/billing"
	"github.com/ehr/hms/internal/domain/doctor"
	"github.com/ehr/hms/internal/domain/inventory"
	"github.com/ehr/hms/internal/domain/patient"
	"github.com/ehr/hms/internal/views"
)

const (
	OverviewSheet     = "Overview"
	PatientsSheet     = "Patients"
	DoctorsSheet      = "Doctors"
	AppointmentsSheet = "Appointments"
	InventorySheet    = "Inventory"
	BillingSheet      = "Billing"
)

// ContentType is the MIME type of a written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// Workbook builds the export for ds. today is the ISO date used for the
// "today" figures of the overview. The caller closes the returned file.
func Workbook(ds views.Dataset, today string) (*excelize.File, error) {
	sheets := []sheet{
		overviewSheet(ds, today),
		patientsSheet(ds.Patients),
		doctorsSheet(ds.Doctors),
		appointmentsSheet(ds.Appointments),
		inventorySheet(ds.Inventory),
		billingSheet(ds.Bills),
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename default sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("write sheet %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, ds views.Dataset, today string) error {
	f, err := Workbook(ds, today)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := lo.Map(s.headers, func(h string, _ int) any { return h })
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(s.headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(s.headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(s.name, "A", lastCol, 18); err != nil {
		return err
	}
	return f.SetPanes(s.name, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
}

func overviewSheet(ds views.Dataset, today string) sheet {
	ov := views.ComputeOverview(ds, today)
	return sheet{
		name:    OverviewSheet,
		headers: []string{"Metric", "Value"},
		rows: [][]any{
			{"Date", today},
			{"Total Patients", ov.TotalPatients},
			{"Active Patients", ov.ActivePatients},
			{"Total Doctors", ov.TotalDoctors},
			{"Active Doctors", ov.ActiveDoctors},
			{"Total Appointments", ov.TotalAppointments},
			{"Today's Appointments", ov.TodaysAppointments},
			{"Total Revenue", ov.TotalRevenue},
			{"Inventory Items", ov.InventoryItems},
			{"Low Stock Items", ov.LowStockItems},
		},
	}
}

func patientsSheet(patients []*patient.Patient) sheet {
	return sheet{
		name: PatientsSheet,
		headers: []string{
			"ID", "Name", "Age", "Gender", "Phone", "Email", "Blood Group",
			"Status", "Admission Date", "Discharge Date", "Assigned Doctor",
			"Room", "Created",
		},
		rows: lo.Map(patients, func(p *patient.Patient, _ int) []any {
			return []any{
				p.ID, p.Name, p.Age, p.Gender, p.Phone, p.Email, p.BloodGroup,
				string(p.Status), p.AdmissionDate, deref(p.DischargeDate),
				deref(p.AssignedDoctor), p.RoomNumber, p.CreatedDate,
			}
		}),
	}
}

func doctorsSheet(doctors []*doctor.Doctor) sheet {
	return sheet{
		name: DoctorsSheet,
		headers: []string{
			"ID", "Name", "Specialization", "Department", "Experience",
			"Qualification", "Phone", "Email", "Consultation Fee", "Schedule",
			"Status",
		},
		rows: lo.Map(doctors, func(d *doctor.Doctor, _ int) []any {
			return []any{
				d.ID, d.Name, d.Specialization, d.Department, d.Experience,
				d.Qualification, d.Phone, d.Email, d.ConsultationFee, d.Schedule,
				string(d.Status),
			}
		}),
	}
}

func appointmentsSheet(appts []*appointment.Appointment) sheet {
	return sheet{
		name: AppointmentsSheet,
		headers: []string{
			"ID", "Patient ID", "Patient", "Doctor ID", "Doctor", "Date",
			"Time", "Type", "Status", "Notes",
		},
		rows: lo.Map(appts, func(a *appointment.Appointment, _ int) []any {
			return []any{
				a.ID, a.PatientID, a.PatientName, a.DoctorID, a.DoctorName,
				a.AppointmentDate, a.AppointmentTime, a.Type, string(a.Status), a.Notes,
			}
		}),
	}
}

func inventorySheet(items []*inventory.Item) sheet {
	return sheet{
		name: InventorySheet,
		headers: []string{
			"ID", "Name", "Category", "Type", "Quantity", "Unit",
			"Price Per Unit", "Supplier", "Expiry Date", "Minimum Stock",
			"Status", "Low Stock",
		},
		rows: lo.Map(items, func(it *inventory.Item, _ int) []any {
			return []any{
				it.ID, it.Name, it.Category, it.Type, it.Quantity, it.Unit,
				it.PricePerUnit, it.Supplier, deref(it.ExpiryDate), it.MinimumStock,
				string(it.Status), lo.Ternary(views.IsLowStock(it), "Yes", "No"),
			}
		}),
	}
}

func billingSheet(bills []*billing.Bill) sheet {
	return sheet{
		name: BillingSheet,
		headers: []string{
			"ID", "Patient ID", "Patient", "Bill Date", "Items", "Subtotal",
			"Tax", "Discount", "Total", "Payment Status", "Payment Method",
		},
		rows: lo.Map(bills, func(b *billing.Bill, _ int) []any {
			items := lo.Map(b.Items, func(li billing.LineItem, _ int) string { return li.Description })
			return []any{
				b.ID, b.PatientID, b.PatientName, b.BillDate, strings.Join(items, "; "),
				b.Subtotal, b.Tax, b.Discount, b.Total, string(b.PaymentStatus),
				b.PaymentMethod,
			}
		}),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
