package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVehicleMapping(t *testing.T) {
	t.Run("round_trip_fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id_vehiculo":           int64(3),
				"id_usuario":            int64(7),
				"marca":                 "Toyota",
				"modelo":                "Corolla",
				"anio":                  2019,
				"placa":                 "ABC-123",
				"kilometraje_actual":    int64(54000),
				"tipo_combustible":      "Gasolina",
				"color":                 "#FF0000",
				"numero_vin":            "1HGBH41JXMN109186",
				"fecha_compra":          "2019-03-10",
				"fecha_creacion":        "2019-03-11T09:00:00Z",
				"fecha_actualizacion":   "2024-05-01T12:00:00Z",
				"activo":                true,
				"ultimo_mantenimiento":  "2024-04-20",
				"proximo_mantenimiento": "2024-07-20",
			})
		}))
		defer server.Close()

		c, _ := newTestClient(server)
		v, err := c.Vehicles.Get(context.Background(), 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if v.ID != 3 || v.UserID != 7 {
			t.Errorf("id mapping mismatch: %+v", v)
		}
		if v.Brand != "Toyota" || v.Model != "Corolla" || v.Year != 2019 || v.Plate != "ABC-123" {
			t.Errorf("identity fields mismatch: %+v", v)
		}
		if v.Mileage != 54000 {
			t.Errorf("expected mileage from kilometraje_actual, got %d", v.Mileage)
		}
		if v.FuelType != "Gasolina" {
			t.Errorf("expected fuelType Gasolina, got %q", v.FuelType)
		}
		if v.Color != "#FF0000" {
			t.Errorf("expected explicit color preserved, got %q", v.Color)
		}
		if v.VINNumber != "1HGBH41JXMN109186" || v.PurchaseDate != "2019-03-10" {
			t.Errorf("vin/purchase mapping mismatch: %+v", v)
		}
		if !v.IsActive || v.LastMaintenance != "2024-04-20" || v.NextMaintenance != "2024-07-20" {
			t.Errorf("status fields mismatch: %+v", v)
		}
	})

	t.Run("defaults_for_omitted_fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id_vehiculo": int64(4),
				"id_usuario":  int64(7),
				"marca":       "Honda",
				"modelo":      "Civic",
				"anio":        2021,
				"placa":       "XYZ-987",
			})
		}))
		defer server.Close()

		c, _ := newTestClient(server)
		v, err := c.Vehicles.Get(context.Background(), 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if v.Color != "#3B82F6" {
			t.Errorf("expected default color #3B82F6, got %q", v.Color)
		}
		if v.FuelType != "" {
			t.Errorf("expected empty fuelType default, got %q", v.FuelType)
		}
		if !v.IsActive {
			t.Error("expected isActive to default to true when activo is absent")
		}
		if v.Mileage != 0 {
			t.Errorf("expected zero mileage default, got %d", v.Mileage)
		}
	})
}

func TestVehicleUpdate_TruthyFieldsOnly(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id_vehiculo": int64(3)})
	}))
	defer server.Close()

	c, _ := newTestClient(server)
	_, err := c.Vehicles.Update(context.Background(), 3, VehicleUpdate{
		Plate:   "NEW-001",
		Mileage: 0, // zero values are dropped from PATCH bodies
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body["placa"] != "NEW-001" {
		t.Errorf("expected placa in body, got %v", body)
	}
	if _, ok := body["kilometraje_actual"]; ok {
		t.Error("zero mileage must be omitted from the PATCH body")
	}
	if _, ok := body["anio"]; ok {
		t.Error("unset year must be omitted from the PATCH body")
	}
}

func TestVehicleCreate_ResolvesTaxonomy(t *testing.T) {
	t.Run("existing_brand_and_model", func(t *testing.T) {
		var calls []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, r.Method+" "+r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/api/v1/vehicles/brands":
				_ = json.NewEncoder(w).Encode([]map[string]any{
					{"id_marca": int64(1), "nombre": "Toyota"},
					{"id_marca": int64(2), "nombre": "Honda"},
				})
			case "/api/v1/vehicles/brands/1/models":
				_ = json.NewEncoder(w).Encode([]map[string]any{
					{"id_modelo": int64(10), "nombre": "Corolla"},
				})
			case "/api/v1/vehicles":
				var body map[string]any
				_ = json.NewDecoder(r.Body).Decode(&body)
				if body["id_marca"] != float64(1) || body["id_modelo"] != float64(10) {
					t.Errorf("expected resolved taxonomy ids, got %v", body)
				}
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id_vehiculo": int64(5),
					"marca":       "Toyota",
					"modelo":      "Corolla",
				})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		c, _ := newTestClient(server)
		v, err := c.Vehicles.Create(context.Background(), VehicleCreate{
			Brand: "toyota", // lookup is case-insensitive
			Model: "Corolla",
			Year:  2019,
			Plate: "ABC-123",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.ID != 5 {
			t.Errorf("expected created vehicle id 5, got %d", v.ID)
		}
		if len(calls) != 3 {
			t.Errorf("expected 3 calls (brands, models, create), got %v", calls)
		}
	})

	t.Run("creates_missing_brand_and_model", func(t *testing.T) {
		var calls []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, r.Method+" "+r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			switch r.Method + " " + r.URL.Path {
			case "GET /api/v1/vehicles/brands":
				_ = json.NewEncoder(w).Encode([]map[string]any{})
			case "POST /api/v1/vehicles/brands":
				_ = json.NewEncoder(w).Encode(map[string]any{"id_marca": int64(9), "nombre": "Mazda"})
			case "GET /api/v1/vehicles/brands/9/models":
				_ = json.NewEncoder(w).Encode([]map[string]any{})
			case "POST /api/v1/vehicles/brands/9/models":
				_ = json.NewEncoder(w).Encode(map[string]any{"id_modelo": int64(90), "nombre": "CX-5"})
			case "POST /api/v1/vehicles":
				_ = json.NewEncoder(w).Encode(map[string]any{"id_vehiculo": int64(6)})
			default:
				t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
			}
		}))
		defer server.Close()

		c, _ := newTestClient(server)
		v, err := c.Vehicles.Create(context.Background(), VehicleCreate{
			Brand: "Mazda",
			Model: "CX-5",
			Year:  2023,
			Plate: "MZD-555",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.ID != 6 {
			t.Errorf("expected vehicle id 6, got %d", v.ID)
		}

		// Lookup-or-create on both levels: 5 sequential round trips.
		want := []string{
			"GET /api/v1/vehicles/brands",
			"POST /api/v1/vehicles/brands",
			"GET /api/v1/vehicles/brands/9/models",
			"POST /api/v1/vehicles/brands/9/models",
			"POST /api/v1/vehicles",
		}
		if len(calls) != len(want) {
			t.Fatalf("expected %d calls, got %v", len(want), calls)
		}
		for i := range want {
			if calls[i] != want[i] {
				t.Errorf("call %d: expected %q, got %q", i, want[i], calls[i])
			}
		}
	})

	t.Run("model_failure_leaves_created_brand", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.Method + " " + r.URL.Path {
			case "GET /api/v1/vehicles/brands":
				_ = json.NewEncoder(w).Encode([]map[string]any{})
			case "POST /api/v1/vehicles/brands":
				_ = json.NewEncoder(w).Encode(map[string]any{"id_marca": int64(9), "nombre": "Mazda"})
			default:
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message":"model lookup failed"}`))
			}
		}))
		defer server.Close()

		c, _ := newTestClient(server)
		_, err := c.Vehicles.Create(context.Background(), VehicleCreate{Brand: "Mazda", Model: "CX-5"})
		if err == nil {
			t.Fatal("expected error when model resolution fails")
		}
		// No rollback of the brand: the error simply bubbles up.
		if err.Error() != "model lookup failed" {
			t.Errorf("expected bubbled server message, got %q", err.Error())
		}
	})
}

func TestVehicleUpdateMileage(t *testing.T) {
	var path string
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id_vehiculo":        int64(3),
			"kilometraje_actual": int64(60000),
		})
	}))
	defer server.Close()

	c, _ := newTestClient(server)
	v, err := c.Vehicles.UpdateMileage(context.Background(), 3, 60000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if path != "/api/v1/vehicles/3/kilometraje" {
		t.Errorf("unexpected path %q", path)
	}
	// The dedicated endpoint uses kilometraje, not kilometraje_actual.
	if body["kilometraje"] != float64(60000) {
		t.Errorf("expected kilometraje in body, got %v", body)
	}
	if _, ok := body["kilometraje_actual"]; ok {
		t.Error("kilometraje_actual does not belong on the mileage endpoint")
	}
	if v.Mileage != 60000 {
		t.Errorf("expected updated mileage mapped back, got %d", v.Mileage)
	}
}
