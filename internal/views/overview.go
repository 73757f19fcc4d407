package views

// Overview is the dashboard's key figures across all collections.
type Overview struct {
	TotalPatients      int     `json:"total_patients"`
	ActivePatients     int     `json:"active_patients"`
	TotalDoctors       int     `json:"total_doctors"`
	ActiveDoctors      int     `json:"active_doctors"`
	TotalAppointments  int     `json:"total_appointments"`
	TodaysAppointments int     `json:"todays_appointments"`
	TotalRevenue       float64 `json:"total_revenue"`
	InventoryItems     int     `json:"inventory_items"`
	LowStockItems      int     `json:"low_stock_items"`
}

func ComputeOverview(ds Dataset, today string) Overview {
	patients := ComputePatientStats(ds.Patients)
	doctors := ComputeDoctorStats(ds.Doctors)
	return Overview{
		TotalPatients:      patients.Total,
		ActivePatients:     patients.Admitted,
		TotalDoctors:       doctors.Total,
		ActiveDoctors:      doctors.Active,
		TotalAppointments:  len(ds.Appointments),
		TodaysAppointments: len(TodaysAppointments(ds.Appointments, today)),
		TotalRevenue:       TotalRevenue(ds.Bills),
		InventoryItems:     len(ds.Inventory),
		LowStockItems:      len(LowStock(ds.Inventory)),
	}
}
