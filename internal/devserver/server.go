// Package devserver is a self-contained implementation of the Autrack
// backend contract, used for local development and for integration-testing
// the client without a real deployment. It persists to SQLite and speaks
// the same Spanish snake_case wire schema as production.
package devserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Server holds the dev backend's state and configuration.
type Server struct {
	db        *gorm.DB
	jwtSecret []byte
	jwtTTL    time.Duration
}

// Open opens (or creates) the SQLite database at path and migrates the
// schema. Use "file:...?mode=memory&cache=shared" DSNs in tests.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	models := []interface{}{
		&Usuario{},
		&ConfiguracionUsuario{},
		&Marca{},
		&Modelo{},
		&Vehiculo{},
		&Mantenimiento{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}
	return db, nil
}

// New creates a server over an already-opened database.
func New(db *gorm.DB, jwtSecret string, jwtTTL time.Duration) *Server {
	return &Server{db: db, jwtSecret: []byte(jwtSecret), jwtTTL: jwtTTL}
}

// Router builds the gin engine with every route of the backend contract.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.POST("/forgot-password", s.forgotPassword)
	auth.POST("/reset-password", s.resetPassword)

	protected := v1.Group("")
	protected.Use(s.requireAuth())

	users := protected.Group("/users")
	users.GET("/profile", s.getProfile)
	users.PATCH("/profile", s.updateProfile)
	users.PATCH("/change-password", s.changePassword)
	users.GET("/config", s.getConfig)
	users.PATCH("/config", s.updateConfig)

	vehicles := protected.Group("/vehicles")
	vehicles.GET("", s.listVehicles)
	vehicles.POST("", s.createVehicle)
	vehicles.GET("/brands", s.listBrands)
	vehicles.POST("/brands", s.createBrand)
	vehicles.GET("/brands/:brandId/models", s.listModels)
	vehicles.POST("/brands/:brandId/models", s.createModel)
	vehicles.GET("/:id", s.getVehicle)
	vehicles.PATCH("/:id", s.updateVehicle)
	vehicles.DELETE("/:id", s.deleteVehicle)
	vehicles.PATCH("/:id/kilometraje", s.updateMileage)

	maintenance := protected.Group("/maintenance")
	maintenance.GET("", s.listMaintenance)
	maintenance.POST("", s.createMaintenance)
	maintenance.GET("/vehicle/:vehicleId", s.listMaintenanceByVehicle)
	maintenance.GET("/stats/:vehicleId", s.maintenanceStats)
	maintenance.GET("/:id", s.getMaintenance)
	maintenance.PATCH("/:id", s.updateMaintenance)
	maintenance.DELETE("/:id", s.deleteMaintenance)

	return router
}

// fail writes the wire contract's error shape: a JSON body with a single
// message field. Clients surface the message verbatim.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
