// Package api provides the HTTP client for the Autrack backend.
//
// The backend speaks a Spanish snake_case wire schema; every service in this
// package maps it to and from the English camelCase models the rest of the
// application consumes. Field dictionaries are explicit and per endpoint —
// the same logical field does not always carry the same wire name (vehicle
// mileage is kilometraje_actual on /vehicles but kilometraje elsewhere), so
// a generic case converter would silently diverge from the contract.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kennyp2233/autrack-go/internal/logger"
	"github.com/kennyp2233/autrack-go/internal/session"
)

// GenericErrorMessage is returned when the backend fails without a
// parseable {"message": ...} body.
const GenericErrorMessage = "The request could not be completed"

// Error is the single error kind surfaced by the client. Callers only get a
// message; the backend does not expose structured codes and the original app
// never distinguished network, HTTP and decode failures.
type Error struct {
	Message  string
	Endpoint string
}

func (e *Error) Error() string { return e.Message }

// Client communicates with the Autrack REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session

	Auth        *AuthService
	Users       *UserService
	Vehicles    *VehicleService
	Maintenance *MaintenanceService
}

// New creates a client for the given base URL (e.g. "https://host/api/v1").
// The session carries the bearer token; pass a fresh one for anonymous use.
func New(baseURL string, sess *session.Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		session:    sess,
	}
	c.Auth = &AuthService{client: c, session: sess}
	c.Users = &UserService{client: c}
	c.Vehicles = &VehicleService{client: c}
	c.Maintenance = &MaintenanceService{client: c}
	return c
}

// Session returns the session this client authenticates with.
func (c *Client) Session() *session.Session { return c.session }

// do performs one API request. body is marshaled to JSON when non-nil; the
// response is decoded into out unless the backend answers 204 No Content, in
// which case out is left at its zero value. requiresAuth controls whether the
// bearer token (if any) is attached.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any, requiresAuth bool) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return c.fail(endpoint, fmt.Errorf("encoding request body: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	}
	if err != nil {
		return c.fail(endpoint, err)
	}

	if requiresAuth {
		for name, value := range c.session.AuthHeaders() {
			req.Header.Set(name, value)
		}
	} else {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := GenericErrorMessage
		var errBody struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Message != "" {
			message = errBody.Message
		}
		logger.Get().Errorw("api request failed",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"message", message,
		)
		return &Error{Message: message, Endpoint: endpoint}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(endpoint, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// fail logs the raw error against its endpoint and wraps it in the single
// message-bearing error type callers see.
func (c *Client) fail(endpoint string, err error) error {
	logger.Get().Errorw("api request failed", "endpoint", endpoint, "error", err)
	return &Error{Message: err.Error(), Endpoint: endpoint}
}
