package models

// Maintenance record statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Maintenance is a single service event logged against a vehicle.
// Photos is never nil once mapped; empty means no photos.
type Maintenance struct {
	ID        int64    `json:"id"`
	VehicleID int64    `json:"vehicleId"`
	Type      string   `json:"type"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Mileage   int64    `json:"mileage"`
	Cost      float64  `json:"cost"`
	Location  string   `json:"location"`
	Notes     string   `json:"notes"`
	Photos    []string `json:"photos"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// MaintenanceStats is the backend-computed summary for one vehicle.
type MaintenanceStats struct {
	TotalCost               float64 `json:"totalCost"`
	RecordCount             int     `json:"recordCount"`
	LastMaintenanceDate     string  `json:"lastMaintenanceDate"`
	NextMaintenanceEstimate string  `json:"nextMaintenanceEstimate"`
}
