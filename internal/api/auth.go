package api

import (
	"context"

	"github.com/kennyp2233/autrack-go/internal/models"
	"github.com/kennyp2233/autrack-go/internal/session"
)

// AuthService handles registration, login and password recovery.
// Login and Register store the returned bearer token in the session;
// Logout clears it. Nothing else touches the token.
type AuthService struct {
	client  *Client
	session *session.Session
}

type loginRequest struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

type registerRequest struct {
	Correo         string `json:"correo"`
	NombreCompleto string `json:"nombre_completo"`
	Contrasena     string `json:"contrasena"`
}

type forgotPasswordRequest struct {
	Correo string `json:"correo"`
}

type resetPasswordRequest struct {
	Token      string `json:"token"`
	Contrasena string `json:"contrasena"`
}

type authResponse struct {
	Token   string    `json:"token"`
	Usuario *userWire `json:"usuario"`
}

// RegisterInput is the UI-shaped payload for creating an account.
type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

// Login authenticates and returns the mapped user. The token from the
// response, when present, becomes the session's current token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp authResponse
	err := s.client.do(ctx, "POST", "/auth/login", loginRequest{
		Correo:     email,
		Contrasena: password,
	}, &resp, false)
	if err != nil {
		return nil, err
	}

	if resp.Token != "" {
		s.session.SetToken(resp.Token)
	}
	if resp.Usuario == nil {
		return nil, nil
	}
	user := userFromWire(*resp.Usuario)
	return &user, nil
}

// Register creates an account and, like Login, adopts the returned token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	var resp authResponse
	err := s.client.do(ctx, "POST", "/auth/register", registerRequest{
		Correo:         input.Email,
		NombreCompleto: input.FullName,
		Contrasena:     input.Password,
	}, &resp, false)
	if err != nil {
		return nil, err
	}

	if resp.Token != "" {
		s.session.SetToken(resp.Token)
	}
	if resp.Usuario == nil {
		return nil, nil
	}
	user := userFromWire(*resp.Usuario)
	return &user, nil
}

// ForgotPassword asks the backend to start a password reset for the email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.client.do(ctx, "POST", "/auth/forgot-password", forgotPasswordRequest{Correo: email}, nil, false)
}

// ResetPassword completes a reset using the token from the recovery email.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.client.do(ctx, "POST", "/auth/reset-password", resetPasswordRequest{
		Token:      token,
		Contrasena: newPassword,
	}, nil, false)
}

// Logout drops the session token. Purely client-side; the backend keeps no
// session state to invalidate.
func (s *AuthService) Logout() {
	s.session.Clear()
}
