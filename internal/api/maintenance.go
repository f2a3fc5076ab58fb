package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kennyp2233/autrack-go/internal/models"
)

// MaintenanceService covers maintenance records and their per-vehicle stats.
type MaintenanceService struct {
	client *Client
}

// maintenanceWire is the backend's maintenance shape. Fotos travels as a
// JSON-encoded string ("[\"a.jpg\"]"), not a JSON array.
type maintenanceWire struct {
	IDMantenimiento    int64    `json:"id_mantenimiento"`
	IDVehiculo         int64    `json:"id_vehiculo"`
	Tipo               string   `json:"tipo"`
	Fecha              string   `json:"fecha"`
	Hora               string   `json:"hora"`
	Kilometraje        int64    `json:"kilometraje"`
	Costo              *float64 `json:"costo"`
	Lugar              *string  `json:"lugar"`
	Notas              *string  `json:"notas"`
	Fotos              *string  `json:"fotos"`
	Estado             *string  `json:"estado"`
	FechaCreacion      string   `json:"fecha_creacion"`
	FechaActualizacion string   `json:"fecha_actualizacion"`
}

func maintenanceFromWire(w maintenanceWire) models.Maintenance {
	m := models.Maintenance{
		ID:        w.IDMantenimiento,
		VehicleID: w.IDVehiculo,
		Type:      w.Tipo,
		Date:      w.Fecha,
		Time:      w.Hora,
		Mileage:   w.Kilometraje,
		Photos:    decodePhotos(w.Fotos),
		Status:    models.StatusCompleted,
		CreatedAt: w.FechaCreacion,
		UpdatedAt: w.FechaActualizacion,
	}
	if w.Costo != nil {
		m.Cost = *w.Costo
	}
	if w.Lugar != nil {
		m.Location = *w.Lugar
	}
	if w.Notas != nil {
		m.Notes = *w.Notas
	}
	if w.Estado != nil {
		m.Status = *w.Estado
	}
	return m
}

// decodePhotos turns the server-side JSON string into a slice. Absent or
// malformed input yields an empty slice, never nil.
func decodePhotos(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var photos []string
	if err := json.Unmarshal([]byte(*raw), &photos); err != nil || photos == nil {
		return []string{}
	}
	return photos
}

// encodePhotos produces the JSON string the backend stores, "[]" when empty.
func encodePhotos(photos []string) string {
	if len(photos) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(photos)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

type statsWire struct {
	CostoTotal                float64 `json:"costo_total"`
	CantidadRegistros         int     `json:"cantidad_registros"`
	FechaUltimoMantenimiento  *string `json:"fecha_ultimo_mantenimiento"`
	FechaProximoMantenimiento *string `json:"fecha_proximo_mantenimiento"`
}

// MaintenanceCreate is the UI-shaped payload for logging a service event.
type MaintenanceCreate struct {
	VehicleID int64
	Type      string
	Date      string
	Time      string
	Mileage   int64
	Cost      float64
	Location  string
	Notes     string
	Photos    []string
	Status    string
}

// MaintenanceUpdate is a partial record change. Only truthy fields are sent;
// in particular Cost: 0 is dropped from the body, matching the behavior the
// backend's existing clients rely on.
type MaintenanceUpdate struct {
	Type     string
	Date     string
	Time     string
	Mileage  int64
	Cost     float64
	Location string
	Notes    string
	Photos   []string
	Status   string
}

// List returns every maintenance record visible to the user.
func (s *MaintenanceService) List(ctx context.Context) ([]models.Maintenance, error) {
	return s.list(ctx, "/maintenance")
}

// ListByVehicle returns the records for one vehicle.
func (s *MaintenanceService) ListByVehicle(ctx context.Context, vehicleID int64) ([]models.Maintenance, error) {
	return s.list(ctx, fmt.Sprintf("/maintenance/vehicle/%d", vehicleID))
}

func (s *MaintenanceService) list(ctx context.Context, endpoint string) ([]models.Maintenance, error) {
	var wires []maintenanceWire
	if err := s.client.do(ctx, "GET", endpoint, nil, &wires, true); err != nil {
		return nil, err
	}
	records := make([]models.Maintenance, len(wires))
	for i, w := range wires {
		records[i] = maintenanceFromWire(w)
	}
	return records, nil
}

// Get returns one record by id.
func (s *MaintenanceService) Get(ctx context.Context, id int64) (*models.Maintenance, error) {
	var w maintenanceWire
	if err := s.client.do(ctx, "GET", fmt.Sprintf("/maintenance/%d", id), nil, &w, true); err != nil {
		return nil, err
	}
	m := maintenanceFromWire(w)
	return &m, nil
}

// Create logs a maintenance record. The backend also advances the parent
// vehicle's last-maintenance date and mileage, and schedules the next
// service three months out.
func (s *MaintenanceService) Create(ctx context.Context, input MaintenanceCreate) (*models.Maintenance, error) {
	body := map[string]any{
		"id_vehiculo": input.VehicleID,
		"tipo":        input.Type,
		"fecha":       input.Date,
		"hora":        input.Time,
		"kilometraje": input.Mileage,
		"costo":       input.Cost,
		"lugar":       input.Location,
		"notas":       input.Notes,
		"fotos":       encodePhotos(input.Photos),
		"estado":      input.Status,
	}

	var w maintenanceWire
	if err := s.client.do(ctx, "POST", "/maintenance", body, &w, true); err != nil {
		return nil, err
	}
	m := maintenanceFromWire(w)
	return &m, nil
}

// Update patches a record with the truthy fields of input.
func (s *MaintenanceService) Update(ctx context.Context, id int64, input MaintenanceUpdate) (*models.Maintenance, error) {
	body := map[string]any{}
	if input.Type != "" {
		body["tipo"] = input.Type
	}
	if input.Date != "" {
		body["fecha"] = input.Date
	}
	if input.Time != "" {
		body["hora"] = input.Time
	}
	if input.Mileage != 0 {
		body["kilometraje"] = input.Mileage
	}
	if input.Cost != 0 {
		body["costo"] = input.Cost
	}
	if input.Location != "" {
		body["lugar"] = input.Location
	}
	if input.Notes != "" {
		body["notas"] = input.Notes
	}
	if len(input.Photos) > 0 {
		body["fotos"] = encodePhotos(input.Photos)
	}
	if input.Status != "" {
		body["estado"] = input.Status
	}

	var w maintenanceWire
	if err := s.client.do(ctx, "PATCH", fmt.Sprintf("/maintenance/%d", id), body, &w, true); err != nil {
		return nil, err
	}
	m := maintenanceFromWire(w)
	return &m, nil
}

// Delete removes a record for good. Unlike vehicles there is no soft delete.
func (s *MaintenanceService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, "DELETE", fmt.Sprintf("/maintenance/%d", id), nil, nil, true)
}

// Stats fetches the backend-computed summary for a vehicle.
func (s *MaintenanceService) Stats(ctx context.Context, vehicleID int64) (*models.MaintenanceStats, error) {
	var w statsWire
	if err := s.client.do(ctx, "GET", fmt.Sprintf("/maintenance/stats/%d", vehicleID), nil, &w, true); err != nil {
		return nil, err
	}
	stats := &models.MaintenanceStats{
		TotalCost:   w.CostoTotal,
		RecordCount: w.CantidadRegistros,
	}
	if w.FechaUltimoMantenimiento != nil {
		stats.LastMaintenanceDate = *w.FechaUltimoMantenimiento
	}
	if w.FechaProximoMantenimiento != nil {
		stats.NextMaintenanceEstimate = *w.FechaProximoMantenimiento
	}
	return stats, nil
}
