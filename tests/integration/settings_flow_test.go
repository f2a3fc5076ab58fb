package integration

import (
	"context"
	"testing"

	"github.com/kennyp2233/autrack-go/internal/api"
	"github.com/kennyp2233/autrack-go/internal/storage"
)

func TestSettingsFlow_DefaultsAndUpdate(t *testing.T) {
	app := setupApp(t)
	ctx := context.Background()
	app.registerUser(t, "cfg@test.com", "Usuario", "password123")

	settings, err := app.Client.Users.Settings(ctx)
	if err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	if settings.DefaultCurrency != "EUR" || settings.MeasurementUnit != "km" {
		t.Errorf("unexpected defaults: %+v", settings)
	}
	if settings.EmailNotifications || settings.PushNotifications {
		t.Errorf("notifications should default off: %+v", settings)
	}

	updated, err := app.Client.Users.UpdateSettings(ctx, api.SettingsUpdate{
		DefaultCurrency: "USD",
		Theme:           "dark",
	})
	if err != nil {
		t.Fatalf("update settings failed: %v", err)
	}
	if updated.DefaultCurrency != "USD" {
		t.Errorf("expected USD, got %q", updated.DefaultCurrency)
	}
	if updated.Theme != "dark" {
		t.Errorf("expected dark theme, got %q", updated.Theme)
	}
	if updated.MeasurementUnit != "km" {
		t.Errorf("untouched unit changed: %q", updated.MeasurementUnit)
	}
}

func TestProfileFlow_UpdateName(t *testing.T) {
	app := setupApp(t)
	ctx := context.Background()
	app.registerUser(t, "name@test.com", "Nombre Viejo", "password123")

	user, err := app.Client.Users.UpdateProfile(ctx, api.ProfileUpdate{FullName: "Nombre Nuevo"})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if user.FullName != "Nombre Nuevo" {
		t.Errorf("expected updated name, got %q", user.FullName)
	}

	profile, err := app.Client.Users.Profile(ctx)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if profile.FullName != "Nombre Nuevo" {
		t.Errorf("profile did not persist the name: %q", profile.FullName)
	}
}

// TestSessionPersistence mirrors what the CLI does between runs: the token
// goes into the storage shim, a fresh session picks it up, and the client
// keeps working without logging in again.
func TestSessionPersistence_TokenSurvivesRestart(t *testing.T) {
	app := setupApp(t)
	ctx := context.Background()
	app.registerUser(t, "persist@test.com", "Usuario", "password123")

	store := storage.New(storage.NewMemoryBackend(), nil, nil)
	if err := store.Set(ctx, "authToken", app.Session.Token()); err != nil {
		t.Fatalf("store token: %v", err)
	}

	// "Restart": new session, restored from storage.
	app.Session.Clear()
	token, ok, err := store.Get(ctx, "authToken")
	if err != nil || !ok {
		t.Fatalf("token not restored: ok=%v err=%v", ok, err)
	}
	app.Session.SetToken(token)

	if _, err := app.Client.Users.Profile(ctx); err != nil {
		t.Fatalf("profile with restored token failed: %v", err)
	}
}
