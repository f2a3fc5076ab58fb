package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/kennyp2233/autrack-go/internal/models"
)

// VehicleService covers the vehicle CRUD and the brand/model taxonomy.
type VehicleService struct {
	client *Client
}

// vehicleWire is the backend's vehicle shape. Fields the backend may omit
// are pointers; vehicleFromWire substitutes the documented defaults.
type vehicleWire struct {
	IDVehiculo           int64   `json:"id_vehiculo"`
	IDUsuario            int64   `json:"id_usuario"`
	Marca                string  `json:"marca"`
	Modelo               string  `json:"modelo"`
	Anio                 int     `json:"anio"`
	Placa                string  `json:"placa"`
	KilometrajeActual    int64   `json:"kilometraje_actual"`
	TipoCombustible      *string `json:"tipo_combustible"`
	Color                *string `json:"color"`
	NumeroVin            *string `json:"numero_vin"`
	FechaCompra          *string `json:"fecha_compra"`
	FechaCreacion        string  `json:"fecha_creacion"`
	FechaActualizacion   string  `json:"fecha_actualizacion"`
	Activo               *bool   `json:"activo"`
	UltimoMantenimiento  *string `json:"ultimo_mantenimiento"`
	ProximoMantenimiento *string `json:"proximo_mantenimiento"`
}

func vehicleFromWire(w vehicleWire) models.Vehicle {
	v := models.Vehicle{
		ID:        w.IDVehiculo,
		UserID:    w.IDUsuario,
		Brand:     w.Marca,
		Model:     w.Modelo,
		Year:      w.Anio,
		Plate:     w.Placa,
		Mileage:   w.KilometrajeActual,
		Color:     models.DefaultVehicleColor,
		CreatedAt: w.FechaCreacion,
		UpdatedAt: w.FechaActualizacion,
		IsActive:  true,
	}
	if w.TipoCombustible != nil {
		v.FuelType = *w.TipoCombustible
	}
	if w.Color != nil && *w.Color != "" {
		v.Color = *w.Color
	}
	if w.NumeroVin != nil {
		v.VINNumber = *w.NumeroVin
	}
	if w.FechaCompra != nil {
		v.PurchaseDate = *w.FechaCompra
	}
	if w.Activo != nil {
		v.IsActive = *w.Activo
	}
	if w.UltimoMantenimiento != nil {
		v.LastMaintenance = *w.UltimoMantenimiento
	}
	if w.ProximoMantenimiento != nil {
		v.NextMaintenance = *w.ProximoMantenimiento
	}
	return v
}

type brandWire struct {
	IDMarca int64  `json:"id_marca"`
	Nombre  string `json:"nombre"`
}

type modelWire struct {
	IDModelo int64  `json:"id_modelo"`
	Nombre   string `json:"nombre"`
}

// VehicleCreate is the UI-shaped payload for registering a vehicle. Brand
// and model travel as names; Create resolves them to taxonomy IDs first.
type VehicleCreate struct {
	Brand        string
	Model        string
	Year         int
	Plate        string
	Mileage      int64
	FuelType     string
	Color        string
	VINNumber    string
	PurchaseDate string
}

// VehicleUpdate is a partial vehicle change. Only truthy fields are sent.
type VehicleUpdate struct {
	Year         int
	Plate        string
	Mileage      int64
	FuelType     string
	Color        string
	VINNumber    string
	PurchaseDate string
}

// List returns the user's vehicles.
func (s *VehicleService) List(ctx context.Context) ([]models.Vehicle, error) {
	var wires []vehicleWire
	if err := s.client.do(ctx, "GET", "/vehicles", nil, &wires, true); err != nil {
		return nil, err
	}
	vehicles := make([]models.Vehicle, len(wires))
	for i, w := range wires {
		vehicles[i] = vehicleFromWire(w)
	}
	return vehicles, nil
}

// Get returns one vehicle by id.
func (s *VehicleService) Get(ctx context.Context, id int64) (*models.Vehicle, error) {
	var w vehicleWire
	if err := s.client.do(ctx, "GET", fmt.Sprintf("/vehicles/%d", id), nil, &w, true); err != nil {
		return nil, err
	}
	v := vehicleFromWire(w)
	return &v, nil
}

// Create registers a vehicle. Brand and model names are resolved to taxonomy
// IDs with lookup-or-create calls, strictly sequential because the model
// lookup needs the resolved brand id. A brand created here is not rolled
// back if the model step fails afterwards.
func (s *VehicleService) Create(ctx context.Context, input VehicleCreate) (*models.Vehicle, error) {
	brandID, err := s.resolveBrand(ctx, input.Brand)
	if err != nil {
		return nil, err
	}
	modelID, err := s.resolveModel(ctx, brandID, input.Model)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"id_marca":           brandID,
		"id_modelo":          modelID,
		"anio":               input.Year,
		"placa":              input.Plate,
		"kilometraje_actual": input.Mileage,
	}
	if input.FuelType != "" {
		body["tipo_combustible"] = input.FuelType
	}
	if input.Color != "" {
		body["color"] = input.Color
	}
	if input.VINNumber != "" {
		body["numero_vin"] = input.VINNumber
	}
	if input.PurchaseDate != "" {
		body["fecha_compra"] = input.PurchaseDate
	}

	var w vehicleWire
	if err := s.client.do(ctx, "POST", "/vehicles", body, &w, true); err != nil {
		return nil, err
	}
	v := vehicleFromWire(w)
	return &v, nil
}

// Update patches a vehicle with the truthy fields of input.
func (s *VehicleService) Update(ctx context.Context, id int64, input VehicleUpdate) (*models.Vehicle, error) {
	body := map[string]any{}
	if input.Year != 0 {
		body["anio"] = input.Year
	}
	if input.Plate != "" {
		body["placa"] = input.Plate
	}
	if input.Mileage != 0 {
		body["kilometraje_actual"] = input.Mileage
	}
	if input.FuelType != "" {
		body["tipo_combustible"] = input.FuelType
	}
	if input.Color != "" {
		body["color"] = input.Color
	}
	if input.VINNumber != "" {
		body["numero_vin"] = input.VINNumber
	}
	if input.PurchaseDate != "" {
		body["fecha_compra"] = input.PurchaseDate
	}

	var w vehicleWire
	if err := s.client.do(ctx, "PATCH", fmt.Sprintf("/vehicles/%d", id), body, &w, true); err != nil {
		return nil, err
	}
	v := vehicleFromWire(w)
	return &v, nil
}

// Delete deactivates a vehicle. The backend soft-deletes: the row stays,
// activo flips to false.
func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, "DELETE", fmt.Sprintf("/vehicles/%d", id), nil, nil, true)
}

// UpdateMileage sets the current odometer reading through the dedicated
// endpoint, where the wire name is kilometraje, not kilometraje_actual.
func (s *VehicleService) UpdateMileage(ctx context.Context, id, mileage int64) (*models.Vehicle, error) {
	body := map[string]any{"kilometraje": mileage}

	var w vehicleWire
	if err := s.client.do(ctx, "PATCH", fmt.Sprintf("/vehicles/%d/kilometraje", id), body, &w, true); err != nil {
		return nil, err
	}
	v := vehicleFromWire(w)
	return &v, nil
}

// Brands lists the brand taxonomy.
func (s *VehicleService) Brands(ctx context.Context) ([]models.Brand, error) {
	var wires []brandWire
	if err := s.client.do(ctx, "GET", "/vehicles/brands", nil, &wires, true); err != nil {
		return nil, err
	}
	brands := make([]models.Brand, len(wires))
	for i, w := range wires {
		brands[i] = models.Brand{ID: w.IDMarca, Name: w.Nombre}
	}
	return brands, nil
}

// Models lists the models registered under a brand.
func (s *VehicleService) Models(ctx context.Context, brandID int64) ([]models.BrandModel, error) {
	var wires []modelWire
	if err := s.client.do(ctx, "GET", fmt.Sprintf("/vehicles/brands/%d/models", brandID), nil, &wires, true); err != nil {
		return nil, err
	}
	out := make([]models.BrandModel, len(wires))
	for i, w := range wires {
		out[i] = models.BrandModel{ID: w.IDModelo, Name: w.Nombre}
	}
	return out, nil
}

// CreateBrand adds a brand to the taxonomy.
func (s *VehicleService) CreateBrand(ctx context.Context, name string) (*models.Brand, error) {
	var w brandWire
	if err := s.client.do(ctx, "POST", "/vehicles/brands", map[string]any{"nombre": name}, &w, true); err != nil {
		return nil, err
	}
	return &models.Brand{ID: w.IDMarca, Name: w.Nombre}, nil
}

// CreateModel adds a model under a brand.
func (s *VehicleService) CreateModel(ctx context.Context, brandID int64, name string) (*models.BrandModel, error) {
	endpoint := fmt.Sprintf("/vehicles/brands/%d/models", brandID)
	var w modelWire
	if err := s.client.do(ctx, "POST", endpoint, map[string]any{"nombre": name}, &w, true); err != nil {
		return nil, err
	}
	return &models.BrandModel{ID: w.IDModelo, Name: w.Nombre}, nil
}

func (s *VehicleService) resolveBrand(ctx context.Context, name string) (int64, error) {
	brands, err := s.Brands(ctx)
	if err != nil {
		return 0, err
	}
	for _, b := range brands {
		if strings.EqualFold(b.Name, name) {
			return b.ID, nil
		}
	}
	created, err := s.CreateBrand(ctx, name)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (s *VehicleService) resolveModel(ctx context.Context, brandID int64, name string) (int64, error) {
	brandModels, err := s.Models(ctx, brandID)
	if err != nil {
		return 0, err
	}
	for _, m := range brandModels {
		if strings.EqualFold(m.Name, name) {
			return m.ID, nil
		}
	}
	created, err := s.CreateModel(ctx, brandID, name)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}
