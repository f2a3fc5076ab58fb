// Package session holds the bearer token for the current API session.
//
// The original app kept the token in a module-level variable; here it is an
// explicit object injected into the API client so tests can run isolated
// sessions side by side. Semantics are unchanged: a single current token,
// set on login/register, cleared on logout, no expiry or refresh handling.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is a process-wide mutable slot for the current bearer token.
// The zero value is a session with no token. Safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// SetToken replaces the current token. An empty string clears it.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the current token, or "" if none is set.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Clear removes the current token.
func (s *Session) Clear() {
	s.SetToken("")
}

// AuthHeaders returns the headers every API request carries:
// Content-Type always, Authorization only while a token is set.
func (s *Session) AuthHeaders() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if t := s.Token(); t != "" {
		headers["Authorization"] = "Bearer " + t
	}
	return headers
}

// Claims is the subset of JWT claims surfaced for diagnostics.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt *time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Claims decodes the current token's payload without verifying its
// signature. It is informational only (CLI whoami output); the token is
// used as-is until the backend rejects it, never validated locally.
func (s *Session) Claims() (*Claims, bool) {
	t := s.Token()
	if t == "" {
		return nil, false
	}

	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t, claims); err != nil {
		return nil, false
	}

	out := &Claims{
		Subject: claims.Subject,
		Email:   claims.Email,
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	return out, true
}
