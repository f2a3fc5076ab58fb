package models

// DefaultVehicleColor is substituted when the backend omits a color.
const DefaultVehicleColor = "#3B82F6"

// Vehicle is a registered vehicle in UI shape. Dates travel as the backend
// sends them (ISO strings); the presentation layer formats them itself.
type Vehicle struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"userId"`
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	Year            int    `json:"year"`
	Plate           string `json:"plate"`
	Mileage         int64  `json:"mileage"`
	FuelType        string `json:"fuelType"`
	Color           string `json:"color"`
	VINNumber       string `json:"vinNumber"`
	PurchaseDate    string `json:"purchaseDate"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
	IsActive        bool   `json:"isActive"`
	LastMaintenance string `json:"lastMaintenance,omitempty"`
	NextMaintenance string `json:"nextMaintenance,omitempty"`
}

// Brand is a vehicle make in the shared taxonomy.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BrandModel is a model belonging to a brand.
type BrandModel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
