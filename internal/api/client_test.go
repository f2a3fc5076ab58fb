package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kennyp2233/autrack-go/internal/session"
)

func newTestClient(server *httptest.Server) (*Client, *session.Session) {
	sess := session.New()
	return New(server.URL+"/api/v1", sess, server.Client()), sess
}

func TestDo_AuthHeader(t *testing.T) {
	t.Run("attached_when_token_set", func(t *testing.T) {
		var gotAuth, gotContentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		c, sess := newTestClient(server)
		sess.SetToken("abc")

		if err := c.do(context.Background(), "GET", "/users/profile", nil, nil, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAuth != "Bearer abc" {
			t.Errorf("expected 'Bearer abc', got %q", gotAuth)
		}
		if gotContentType != "application/json" {
			t.Errorf("expected application/json content type, got %q", gotContentType)
		}
	})

	t.Run("omitted_without_token", func(t *testing.T) {
		var gotAuth, gotContentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		c, _ := newTestClient(server)
		if err := c.do(context.Background(), "GET", "/vehicles", nil, nil, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAuth != "" {
			t.Errorf("expected no Authorization header, got %q", gotAuth)
		}
		if gotContentType != "application/json" {
			t.Errorf("expected application/json content type, got %q", gotContentType)
		}
	})

	t.Run("omitted_for_public_endpoints", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		c, sess := newTestClient(server)
		sess.SetToken("abc")

		if err := c.do(context.Background(), "POST", "/auth/login", nil, nil, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAuth != "" {
			t.Errorf("expected no Authorization header on public call, got %q", gotAuth)
		}
	})
}

func TestDo_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c, _ := newTestClient(server)

	var out struct {
		Anything string `json:"anything"`
	}
	if err := c.do(context.Background(), "DELETE", "/maintenance/1", nil, &out, true); err != nil {
		t.Fatalf("expected 204 to resolve cleanly, got %v", err)
	}
	if out.Anything != "" {
		t.Errorf("expected zero-valued out on 204, got %+v", out)
	}
}

func TestDo_ErrorBody(t *testing.T) {
	t.Run("message_from_body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"La placa ya existe"}`))
		}))
		defer server.Close()

		c, _ := newTestClient(server)
		err := c.do(context.Background(), "POST", "/vehicles", map[string]any{}, nil, true)
		if err == nil {
			t.Fatal("expected error on 409")
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *api.Error, got %T", err)
		}
		if apiErr.Message != "La placa ya existe" {
			t.Errorf("expected server message, got %q", apiErr.Message)
		}
		if apiErr.Endpoint != "/vehicles" {
			t.Errorf("expected endpoint /vehicles, got %q", apiErr.Endpoint)
		}
	})

	t.Run("fallback_on_unparseable_body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("<html>502 Bad Gateway</html>"))
		}))
		defer server.Close()

		c, _ := newTestClient(server)
		err := c.do(context.Background(), "GET", "/vehicles", nil, nil, true)

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *api.Error, got %T: %v", err, err)
		}
		if apiErr.Message != GenericErrorMessage {
			t.Errorf("expected generic fallback message, got %q", apiErr.Message)
		}
	})

	t.Run("fallback_on_empty_message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"no message field"}`))
		}))
		defer server.Close()

		c, _ := newTestClient(server)
		err := c.do(context.Background(), "GET", "/vehicles", nil, nil, true)

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *api.Error, got %T: %v", err, err)
		}
		if apiErr.Message != GenericErrorMessage {
			t.Errorf("expected generic fallback message, got %q", apiErr.Message)
		}
	})
}

func TestDo_DecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	c, _ := newTestClient(server)

	var out map[string]any
	err := c.do(context.Background(), "GET", "/users/profile", nil, &out, true)

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error on decode failure, got %T: %v", err, err)
	}
}
