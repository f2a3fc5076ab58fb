package api

import (
	"context"

	"github.com/kennyp2233/autrack-go/internal/models"
)

// UserService covers the profile, settings and password endpoints.
type UserService struct {
	client *Client
}

// userWire is the backend's user shape.
type userWire struct {
	IDUsuario          int64   `json:"id_usuario"`
	Correo             string  `json:"correo"`
	NombreCompleto     string  `json:"nombre_completo"`
	FechaCreacion      string  `json:"fecha_creacion"`
	UltimoInicioSesion *string `json:"ultimo_inicio_sesion"`
}

func userFromWire(w userWire) models.User {
	user := models.User{
		ID:        w.IDUsuario,
		Email:     w.Correo,
		FullName:  w.NombreCompleto,
		CreatedAt: w.FechaCreacion,
	}
	if w.UltimoInicioSesion != nil {
		user.LastLogin = *w.UltimoInicioSesion
	}
	return user
}

// settingsWire is the backend's user-settings shape. Optional booleans come
// back as pointers so an omitted flag maps to false, not to a decode error.
type settingsWire struct {
	IDUsuario            int64   `json:"id_usuario"`
	NotificacionesEmail  *bool   `json:"notificaciones_email"`
	NotificacionesPush   *bool   `json:"notificaciones_push"`
	MonedaPredeterminada *string `json:"moneda_predeterminada"`
	UnidadMedida         *string `json:"unidad_medida"`
	Tema                 *string `json:"tema"`
	Idioma               *string `json:"idioma"`
}

func settingsFromWire(w settingsWire) models.UserSettings {
	s := models.UserSettings{UserID: w.IDUsuario}
	if w.NotificacionesEmail != nil {
		s.EmailNotifications = *w.NotificacionesEmail
	}
	if w.NotificacionesPush != nil {
		s.PushNotifications = *w.NotificacionesPush
	}
	if w.MonedaPredeterminada != nil {
		s.DefaultCurrency = *w.MonedaPredeterminada
	}
	if w.UnidadMedida != nil {
		s.MeasurementUnit = *w.UnidadMedida
	}
	if w.Tema != nil {
		s.Theme = *w.Tema
	}
	if w.Idioma != nil {
		s.Language = *w.Idioma
	}
	return s
}

// ProfileUpdate is a partial profile change. Zero-valued fields are not sent.
type ProfileUpdate struct {
	FullName string
}

// SettingsUpdate is a partial settings change. Like every PATCH in this
// client, only truthy fields are sent — setting a flag to false drops it
// from the body entirely, matching the backend's existing clients.
type SettingsUpdate struct {
	EmailNotifications bool
	PushNotifications  bool
	DefaultCurrency    string
	MeasurementUnit    string
	Theme              string
	Language           string
}

// Profile fetches the authenticated user's profile.
func (s *UserService) Profile(ctx context.Context) (*models.User, error) {
	var w userWire
	if err := s.client.do(ctx, "GET", "/users/profile", nil, &w, true); err != nil {
		return nil, err
	}
	user := userFromWire(w)
	return &user, nil
}

// UpdateProfile patches the profile with the truthy fields of input.
func (s *UserService) UpdateProfile(ctx context.Context, input ProfileUpdate) (*models.User, error) {
	body := map[string]any{}
	if input.FullName != "" {
		body["nombre_completo"] = input.FullName
	}

	var w userWire
	if err := s.client.do(ctx, "PATCH", "/users/profile", body, &w, true); err != nil {
		return nil, err
	}
	user := userFromWire(w)
	return &user, nil
}

// ChangePassword swaps the current password for a new one.
func (s *UserService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]any{
		"contrasenaActual": currentPassword,
		"nuevaContrasena":  newPassword,
	}
	return s.client.do(ctx, "PATCH", "/users/change-password", body, nil, true)
}

// Settings fetches the user's preferences, with absent fields defaulted.
func (s *UserService) Settings(ctx context.Context) (*models.UserSettings, error) {
	var w settingsWire
	if err := s.client.do(ctx, "GET", "/users/config", nil, &w, true); err != nil {
		return nil, err
	}
	settings := settingsFromWire(w)
	return &settings, nil
}

// UpdateSettings upserts the truthy fields of input.
func (s *UserService) UpdateSettings(ctx context.Context, input SettingsUpdate) (*models.UserSettings, error) {
	body := map[string]any{}
	if input.EmailNotifications {
		body["notificaciones_email"] = true
	}
	if input.PushNotifications {
		body["notificaciones_push"] = true
	}
	if input.DefaultCurrency != "" {
		body["moneda_predeterminada"] = input.DefaultCurrency
	}
	if input.MeasurementUnit != "" {
		body["unidad_medida"] = input.MeasurementUnit
	}
	if input.Theme != "" {
		body["tema"] = input.Theme
	}
	if input.Language != "" {
		body["idioma"] = input.Language
	}

	var w settingsWire
	if err := s.client.do(ctx, "PATCH", "/users/config", body, &w, true); err != nil {
		return nil, err
	}
	settings := settingsFromWire(w)
	return &settings, nil
}
