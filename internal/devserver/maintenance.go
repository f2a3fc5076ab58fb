package devserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// nextServiceDate is the fixed scheduling rule: three months after the
// recorded service date. Unparseable dates yield no estimate.
func nextServiceDate(fecha string) string {
	d, err := time.Parse(dateLayout, fecha)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 3, 0).Format(dateLayout)
}

// ownedMaintenance loads a record whose vehicle belongs to the current user.
func (s *Server) ownedMaintenance(c *gin.Context, id int64) (*Mantenimiento, bool) {
	var m Mantenimiento
	err := s.db.
		Joins("JOIN vehiculos ON vehiculos.id_vehiculo = mantenimientos.id_vehiculo").
		Where("mantenimientos.id_mantenimiento = ? AND vehiculos.id_usuario = ?", id, currentUserID(c)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "Mantenimiento no encontrado")
		return nil, false
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo cargar el mantenimiento")
		return nil, false
	}
	return &m, true
}

func (s *Server) listMaintenance(c *gin.Context) {
	var records []Mantenimiento
	err := s.db.
		Joins("JOIN vehiculos ON vehiculos.id_vehiculo = mantenimientos.id_vehiculo").
		Where("vehiculos.id_usuario = ?", currentUserID(c)).
		Order("mantenimientos.fecha DESC").
		Find(&records).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudieron cargar los mantenimientos")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) listMaintenanceByVehicle(c *gin.Context) {
	vehicleID, ok := parseID(c, "vehicleId")
	if !ok {
		return
	}
	if _, ok := s.ownedVehicle(c, vehicleID); !ok {
		return
	}

	var records []Mantenimiento
	if err := s.db.Where("id_vehiculo = ?", vehicleID).Order("fecha DESC").Find(&records).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudieron cargar los mantenimientos")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) getMaintenance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, ok := s.ownedMaintenance(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m)
}

type maintenanceCreateRequest struct {
	IDVehiculo  int64   `json:"id_vehiculo" binding:"required"`
	Tipo        string  `json:"tipo" binding:"required"`
	Fecha       string  `json:"fecha" binding:"required"`
	Hora        string  `json:"hora"`
	Kilometraje int64   `json:"kilometraje"`
	Costo       float64 `json:"costo"`
	Lugar       string  `json:"lugar"`
	Notas       string  `json:"notas"`
	Fotos       string  `json:"fotos"`
	Estado      string  `json:"estado"`
}

// createMaintenance logs a record and updates the parent vehicle: last
// maintenance date, current mileage, and the next service estimate three
// months out.
func (s *Server) createMaintenance(c *gin.Context) {
	var req maintenanceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos del mantenimiento inválidos")
		return
	}

	v, ok := s.ownedVehicle(c, req.IDVehiculo)
	if !ok {
		return
	}

	if req.Fotos == "" {
		req.Fotos = "[]"
	}
	if req.Estado == "" {
		req.Estado = "completed"
	}

	now := time.Now().UTC()
	m := Mantenimiento{
		IDVehiculo:         req.IDVehiculo,
		Tipo:               req.Tipo,
		Fecha:              req.Fecha,
		Hora:               req.Hora,
		Kilometraje:        req.Kilometraje,
		Costo:              req.Costo,
		Lugar:              req.Lugar,
		Notas:              req.Notas,
		Fotos:              req.Fotos,
		Estado:             req.Estado,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}
	if err := s.db.Create(&m).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo registrar el mantenimiento")
		return
	}

	updates := map[string]any{
		"ultimo_mantenimiento": req.Fecha,
		"fecha_actualizacion":  now,
	}
	if req.Kilometraje > 0 {
		updates["kilometraje_actual"] = req.Kilometraje
	}
	if next := nextServiceDate(req.Fecha); next != "" {
		updates["proximo_mantenimiento"] = next
	}
	if err := s.db.Model(v).Updates(updates).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo registrar el mantenimiento")
		return
	}

	c.JSON(http.StatusCreated, m)
}

type maintenanceUpdateRequest struct {
	Tipo        *string  `json:"tipo"`
	Fecha       *string  `json:"fecha"`
	Hora        *string  `json:"hora"`
	Kilometraje *int64   `json:"kilometraje"`
	Costo       *float64 `json:"costo"`
	Lugar       *string  `json:"lugar"`
	Notas       *string  `json:"notas"`
	Fotos       *string  `json:"fotos"`
	Estado      *string  `json:"estado"`
}

func (s *Server) updateMaintenance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, ok := s.ownedMaintenance(c, id)
	if !ok {
		return
	}

	var req maintenanceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos del mantenimiento inválidos")
		return
	}

	if req.Tipo != nil {
		m.Tipo = *req.Tipo
	}
	if req.Fecha != nil {
		m.Fecha = *req.Fecha
	}
	if req.Hora != nil {
		m.Hora = *req.Hora
	}
	if req.Kilometraje != nil {
		m.Kilometraje = *req.Kilometraje
	}
	if req.Costo != nil {
		m.Costo = *req.Costo
	}
	if req.Lugar != nil {
		m.Lugar = *req.Lugar
	}
	if req.Notas != nil {
		m.Notas = *req.Notas
	}
	if req.Fotos != nil {
		m.Fotos = *req.Fotos
	}
	if req.Estado != nil {
		m.Estado = *req.Estado
	}
	m.FechaActualizacion = time.Now().UTC()

	if err := s.db.Save(m).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo actualizar el mantenimiento")
		return
	}
	c.JSON(http.StatusOK, m)
}

// deleteMaintenance removes the record permanently; maintenance records
// have no soft delete.
func (s *Server) deleteMaintenance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, ok := s.ownedMaintenance(c, id)
	if !ok {
		return
	}

	if err := s.db.Delete(m).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo eliminar el mantenimiento")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) maintenanceStats(c *gin.Context) {
	vehicleID, ok := parseID(c, "vehicleId")
	if !ok {
		return
	}
	if _, ok := s.ownedVehicle(c, vehicleID); !ok {
		return
	}

	var records []Mantenimiento
	if err := s.db.Where("id_vehiculo = ?", vehicleID).Find(&records).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudieron calcular las estadísticas")
		return
	}

	var total float64
	var last string
	for _, r := range records {
		total += r.Costo
		if r.Fecha > last {
			last = r.Fecha
		}
	}

	resp := gin.H{
		"costo_total":        total,
		"cantidad_registros": len(records),
	}
	if last != "" {
		resp["fecha_ultimo_mantenimiento"] = last
		if next := nextServiceDate(last); next != "" {
			resp["fecha_proximo_mantenimiento"] = next
		}
	}
	c.JSON(http.StatusOK, resp)
}
