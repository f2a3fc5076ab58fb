package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) getProfile(c *gin.Context) {
	var user Usuario
	if err := s.db.First(&user, currentUserID(c)).Error; err != nil {
		fail(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	c.JSON(http.StatusOK, user)
}

type profileUpdateRequest struct {
	NombreCompleto *string `json:"nombre_completo"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	var user Usuario
	if err := s.db.First(&user, currentUserID(c)).Error; err != nil {
		fail(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	if req.NombreCompleto != nil {
		user.NombreCompleto = *req.NombreCompleto
		if err := s.db.Model(&user).Update("nombre_completo", user.NombreCompleto).Error; err != nil {
			fail(c, http.StatusInternalServerError, "No se pudo actualizar el perfil")
			return
		}
	}
	c.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	ContrasenaActual string `json:"contrasenaActual" binding:"required"`
	NuevaContrasena  string `json:"nuevaContrasena" binding:"required,min=6"`
}

func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	var user Usuario
	if err := s.db.First(&user, currentUserID(c)).Error; err != nil {
		fail(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Contrasena), []byte(req.ContrasenaActual)) != nil {
		fail(c, http.StatusUnauthorized, "La contraseña actual no es correcta")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NuevaContrasena), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo cambiar la contraseña")
		return
	}
	if err := s.db.Model(&user).Update("contrasena", string(hash)).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo cambiar la contraseña")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getConfig(c *gin.Context) {
	config, err := s.loadOrCreateConfig(currentUserID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo cargar la configuración")
		return
	}
	c.JSON(http.StatusOK, config)
}

type configUpdateRequest struct {
	NotificacionesEmail  *bool   `json:"notificaciones_email"`
	NotificacionesPush   *bool   `json:"notificaciones_push"`
	MonedaPredeterminada *string `json:"moneda_predeterminada"`
	UnidadMedida         *string `json:"unidad_medida"`
	Tema                 *string `json:"tema"`
	Idioma               *string `json:"idioma"`
}

func (s *Server) updateConfig(c *gin.Context) {
	var req configUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	config, err := s.loadOrCreateConfig(currentUserID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo cargar la configuración")
		return
	}
	if req.NotificacionesEmail != nil {
		config.NotificacionesEmail = *req.NotificacionesEmail
	}
	if req.NotificacionesPush != nil {
		config.NotificacionesPush = *req.NotificacionesPush
	}
	if req.MonedaPredeterminada != nil {
		config.MonedaPredeterminada = *req.MonedaPredeterminada
	}
	if req.UnidadMedida != nil {
		config.UnidadMedida = *req.UnidadMedida
	}
	if req.Tema != nil {
		config.Tema = *req.Tema
	}
	if req.Idioma != nil {
		config.Idioma = *req.Idioma
	}

	if err := s.db.Save(config).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo guardar la configuración")
		return
	}
	c.JSON(http.StatusOK, config)
}

func (s *Server) loadOrCreateConfig(userID int64) (*ConfiguracionUsuario, error) {
	var config ConfiguracionUsuario
	if err := s.db.First(&config, "id_usuario = ?", userID).Error; err == nil {
		return &config, nil
	}
	config = ConfiguracionUsuario{
		IDUsuario:            userID,
		MonedaPredeterminada: "EUR",
		UnidadMedida:         "km",
		Tema:                 "system",
		Idioma:               "es",
	}
	if err := s.db.Create(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}
