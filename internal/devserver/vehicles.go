package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "Identificador inválido")
		return 0, false
	}
	return id, true
}

// vehicleResponse joins brand and model names into the payload.
func (s *Server) vehicleResponse(v Vehiculo) vehiculoResponse {
	resp := vehiculoResponse{Vehiculo: v}
	var marca Marca
	if err := s.db.First(&marca, v.IDMarca).Error; err == nil {
		resp.Marca = marca.Nombre
	}
	var modelo Modelo
	if err := s.db.First(&modelo, v.IDModelo).Error; err == nil {
		resp.Modelo = modelo.Nombre
	}
	return resp
}

// ownedVehicle loads an active vehicle belonging to the current user.
func (s *Server) ownedVehicle(c *gin.Context, id int64) (*Vehiculo, bool) {
	var v Vehiculo
	err := s.db.Where("id_vehiculo = ? AND id_usuario = ? AND activo = ?", id, currentUserID(c), true).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "Vehículo no encontrado")
		return nil, false
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo cargar el vehículo")
		return nil, false
	}
	return &v, true
}

func (s *Server) listVehicles(c *gin.Context) {
	var vehicles []Vehiculo
	if err := s.db.Where("id_usuario = ? AND activo = ?", currentUserID(c), true).Order("id_vehiculo").Find(&vehicles).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudieron cargar los vehículos")
		return
	}

	out := make([]vehiculoResponse, len(vehicles))
	for i, v := range vehicles {
		out[i] = s.vehicleResponse(v)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	v, ok := s.ownedVehicle(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.vehicleResponse(*v))
}

type vehicleCreateRequest struct {
	IDMarca           int64  `json:"id_marca" binding:"required"`
	IDModelo          int64  `json:"id_modelo" binding:"required"`
	Anio              int    `json:"anio" binding:"required"`
	Placa             string `json:"placa" binding:"required"`
	KilometrajeActual int64  `json:"kilometraje_actual"`
	TipoCombustible   string `json:"tipo_combustible"`
	Color             string `json:"color"`
	NumeroVin         string `json:"numero_vin"`
	FechaCompra       string `json:"fecha_compra"`
}

func (s *Server) createVehicle(c *gin.Context) {
	var req vehicleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos del vehículo inválidos")
		return
	}

	var modelo Modelo
	if err := s.db.Where("id_modelo = ? AND id_marca = ?", req.IDModelo, req.IDMarca).First(&modelo).Error; err != nil {
		fail(c, http.StatusBadRequest, "Marca o modelo desconocido")
		return
	}

	now := time.Now().UTC()
	v := Vehiculo{
		IDUsuario:          currentUserID(c),
		IDMarca:            req.IDMarca,
		IDModelo:           req.IDModelo,
		Anio:               req.Anio,
		Placa:              req.Placa,
		KilometrajeActual:  req.KilometrajeActual,
		TipoCombustible:    req.TipoCombustible,
		Color:              req.Color,
		NumeroVin:          req.NumeroVin,
		FechaCompra:        req.FechaCompra,
		Activo:             true,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}
	if err := s.db.Create(&v).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo registrar el vehículo")
		return
	}
	c.JSON(http.StatusCreated, s.vehicleResponse(v))
}

type vehicleUpdateRequest struct {
	Anio              *int    `json:"anio"`
	Placa             *string `json:"placa"`
	KilometrajeActual *int64  `json:"kilometraje_actual"`
	TipoCombustible   *string `json:"tipo_combustible"`
	Color             *string `json:"color"`
	NumeroVin         *string `json:"numero_vin"`
	FechaCompra       *string `json:"fecha_compra"`
}

func (s *Server) updateVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	v, ok := s.ownedVehicle(c, id)
	if !ok {
		return
	}

	var req vehicleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos del vehículo inválidos")
		return
	}

	if req.Anio != nil {
		v.Anio = *req.Anio
	}
	if req.Placa != nil {
		v.Placa = *req.Placa
	}
	if req.KilometrajeActual != nil {
		v.KilometrajeActual = *req.KilometrajeActual
	}
	if req.TipoCombustible != nil {
		v.TipoCombustible = *req.TipoCombustible
	}
	if req.Color != nil {
		v.Color = *req.Color
	}
	if req.NumeroVin != nil {
		v.NumeroVin = *req.NumeroVin
	}
	if req.FechaCompra != nil {
		v.FechaCompra = *req.FechaCompra
	}
	v.FechaActualizacion = time.Now().UTC()

	if err := s.db.Save(v).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo actualizar el vehículo")
		return
	}
	c.JSON(http.StatusOK, s.vehicleResponse(*v))
}

// deleteVehicle soft-deletes: the row stays, activo flips to false.
func (s *Server) deleteVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	v, ok := s.ownedVehicle(c, id)
	if !ok {
		return
	}

	if err := s.db.Model(v).Updates(map[string]any{
		"activo":              false,
		"fecha_actualizacion": time.Now().UTC(),
	}).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo eliminar el vehículo")
		return
	}
	c.Status(http.StatusNoContent)
}

type mileageUpdateRequest struct {
	Kilometraje *int64 `json:"kilometraje" binding:"required"`
}

func (s *Server) updateMileage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	v, ok := s.ownedVehicle(c, id)
	if !ok {
		return
	}

	var req mileageUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Kilometraje inválido")
		return
	}

	v.KilometrajeActual = *req.Kilometraje
	v.FechaActualizacion = time.Now().UTC()
	if err := s.db.Save(v).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo actualizar el kilometraje")
		return
	}
	c.JSON(http.StatusOK, s.vehicleResponse(*v))
}

func (s *Server) listBrands(c *gin.Context) {
	var brands []Marca
	if err := s.db.Order("nombre").Find(&brands).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudieron cargar las marcas")
		return
	}
	c.JSON(http.StatusOK, brands)
}

type taxonomyCreateRequest struct {
	Nombre string `json:"nombre" binding:"required"`
}

// createBrand is lookup-or-create: posting an existing name returns the
// existing row rather than an error, since brands are shared taxonomy.
func (s *Server) createBrand(c *gin.Context) {
	var req taxonomyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Nombre de marca inválido")
		return
	}

	var existing Marca
	if err := s.db.Where("LOWER(nombre) = LOWER(?)", strings.TrimSpace(req.Nombre)).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	brand := Marca{Nombre: strings.TrimSpace(req.Nombre)}
	if err := s.db.Create(&brand).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo crear la marca")
		return
	}
	c.JSON(http.StatusCreated, brand)
}

func (s *Server) listModels(c *gin.Context) {
	brandID, ok := parseID(c, "brandId")
	if !ok {
		return
	}

	var brandModels []Modelo
	if err := s.db.Where("id_marca = ?", brandID).Order("nombre").Find(&brandModels).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudieron cargar los modelos")
		return
	}
	c.JSON(http.StatusOK, brandModels)
}

func (s *Server) createModel(c *gin.Context) {
	brandID, ok := parseID(c, "brandId")
	if !ok {
		return
	}

	var brand Marca
	if err := s.db.First(&brand, brandID).Error; err != nil {
		fail(c, http.StatusNotFound, "Marca no encontrada")
		return
	}

	var req taxonomyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Nombre de modelo inválido")
		return
	}

	var existing Modelo
	if err := s.db.Where("id_marca = ? AND LOWER(nombre) = LOWER(?)", brandID, strings.TrimSpace(req.Nombre)).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	model := Modelo{IDMarca: brandID, Nombre: strings.TrimSpace(req.Nombre)}
	if err := s.db.Create(&model).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo crear el modelo")
		return
	}
	c.JSON(http.StatusCreated, model)
}
