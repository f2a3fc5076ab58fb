package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kennyp2233/autrack-go/internal/logger"
)

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(user *Usuario) (string, error) {
	claims := &tokenClaims{
		Email: user.Correo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.IDUsuario),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtTTL)),
			Issuer:    "autrack-dev",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// requireAuth validates the Bearer token and stores the user id in the
// request context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			fail(c, http.StatusUnauthorized, "No autorizado")
			c.Abort()
			return
		}

		claims := &tokenClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			fail(c, http.StatusUnauthorized, "Token inválido o expirado")
			c.Abort()
			return
		}

		var userID int64
		if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
			fail(c, http.StatusUnauthorized, "Token inválido o expirado")
			c.Abort()
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64("userID")
}

type registerRequest struct {
	Correo         string `json:"correo" binding:"required,email"`
	NombreCompleto string `json:"nombre_completo" binding:"required"`
	Contrasena     string `json:"contrasena" binding:"required,min=6"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos de registro inválidos")
		return
	}

	var count int64
	s.db.Model(&Usuario{}).Where("correo = ?", strings.ToLower(req.Correo)).Count(&count)
	if count > 0 {
		fail(c, http.StatusConflict, "El correo ya está registrado")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo crear la cuenta")
		return
	}

	user := &Usuario{
		Correo:         strings.ToLower(req.Correo),
		Contrasena:     string(hash),
		NombreCompleto: req.NombreCompleto,
		FechaCreacion:  time.Now().UTC(),
	}
	if err := s.db.Create(user).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo crear la cuenta")
		return
	}

	// Settings row with defaults, so GET /users/config always has data.
	err = s.db.Create(&ConfiguracionUsuario{
		IDUsuario:            user.IDUsuario,
		MonedaPredeterminada: "EUR",
		UnidadMedida:         "km",
		Tema:                 "system",
		Idioma:               "es",
	}).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo crear la cuenta")
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo crear la cuenta")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "usuario": user})
}

type loginRequest struct {
	Correo     string `json:"correo" binding:"required"`
	Contrasena string `json:"contrasena" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Credenciales inválidas")
		return
	}

	var user Usuario
	err := s.db.Where("correo = ?", strings.ToLower(req.Correo)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusUnauthorized, "Correo o contraseña incorrectos")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo iniciar sesión")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Contrasena), []byte(req.Contrasena)) != nil {
		fail(c, http.StatusUnauthorized, "Correo o contraseña incorrectos")
		return
	}

	now := time.Now().UTC()
	user.UltimoInicioSesion = &now
	if err := s.db.Model(&user).Update("ultimo_inicio_sesion", now).Error; err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo iniciar sesión")
		return
	}

	token, err := s.issueToken(&user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo iniciar sesión")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "usuario": user})
}

type forgotPasswordRequest struct {
	Correo string `json:"correo" binding:"required,email"`
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Correo inválido")
		return
	}

	var user Usuario
	err := s.db.Where("correo = ?", strings.ToLower(req.Correo)).First(&user).Error
	if err == nil {
		resetToken := uuid.NewString()
		// The response stays 204 either way so the endpoint does not leak
		// which addresses exist; a storage failure only loses the token.
		if err := s.db.Model(&user).Update("token_recuperacion", resetToken).Error; err != nil {
			logger.Get().Errorw("failed to store recovery token", "correo", user.Correo, "error", err)
		} else {
			// There is no mailer in the dev server; the token goes to the log.
			logger.Get().Infow("password reset requested", "correo", user.Correo, "token", resetToken)
		}
	}

	// Whether or not the account exists, the response is the same.
	c.Status(http.StatusNoContent)
}

type resetPasswordRequest struct {
	Token      string `json:"token" binding:"required"`
	Contrasena string `json:"contrasena" binding:"required,min=6"`
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Solicitud inválida")
		return
	}

	var user Usuario
	err := s.db.Where("token_recuperacion = ?", req.Token).First(&user).Error
	if err != nil {
		fail(c, http.StatusBadRequest, "Token de recuperación inválido")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo restablecer la contraseña")
		return
	}
	err = s.db.Model(&user).Updates(map[string]any{
		"contrasena":         string(hash),
		"token_recuperacion": "",
	}).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "No se pudo restablecer la contraseña")
		return
	}
	c.Status(http.StatusNoContent)
}
