package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kennyp2233/autrack-go/internal/api"
	"github.com/kennyp2233/autrack-go/internal/devserver"
	"github.com/kennyp2233/autrack-go/internal/logger"
	"github.com/kennyp2233/autrack-go/internal/session"
)

// testApp is a full client stack talking to an in-process dev server.
type testApp struct {
	DB      *gorm.DB
	Client  *api.Client
	Session *session.Session
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// setupApp starts a dev server over an isolated in-memory SQLite database
// and returns an SDK client pointed at it.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:itest%d?mode=memory&cache=shared", n)
	db, err := devserver.Open(dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	srv := devserver.New(db, "integration-test-secret", time.Hour).Router()
	server := httptest.NewServer(srv)
	t.Cleanup(server.Close)

	sess := session.New()
	client := api.New(server.URL+"/api/v1", sess, server.Client())
	return &testApp{DB: db, Client: client, Session: sess}
}

// registerUser creates an account through the SDK; the client adopts the
// returned token, so subsequent calls on the same app are authenticated.
func (app *testApp) registerUser(t *testing.T, email, name, password string) {
	t.Helper()
	_, err := app.Client.Auth.Register(context.Background(), api.RegisterInput{
		Email:    email,
		FullName: name,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if app.Session.Token() == "" {
		t.Fatal("expected a session token after registration")
	}
}

// addVehicle registers a vehicle and returns its id.
func (app *testApp) addVehicle(t *testing.T, brand, model, plate string) int64 {
	t.Helper()
	v, err := app.Client.Vehicles.Create(context.Background(), api.VehicleCreate{
		Brand:   brand,
		Model:   model,
		Year:    2020,
		Plate:   plate,
		Mileage: 10000,
	})
	if err != nil {
		t.Fatalf("create vehicle failed: %v", err)
	}
	return v.ID
}
