package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
	"github.com/med-hamady/Archify-Project-sub001/internal/core/ports"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL, 2*time.Second, zerolog.Nop())
}

func TestClient_Login_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %s", ct)
		}
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Email != "alice@example.com" || req.Password != "s3cret" {
			t.Fatalf("unexpected body: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":         map[string]any{"id": "u1", "email": req.Email, "role": "STUDENT"},
			"accessToken":  "acc1",
			"refreshToken": "ref1",
		})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv).Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.ID != "u1" || resp.AccessToken != "acc1" || resp.RefreshToken != "ref1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClient_Login_ErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrInvalidCredentials},
		{http.StatusLocked, domain.ErrAccountLocked},
	}
	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "denied"})
		}))

		_, err := newTestClient(srv).Login(context.Background(), "a@b.c", "pw")
		if !errors.Is(err, c.want) {
			t.Fatalf("status %d: expected %v, got %v", c.status, c.want, err)
		}
		srv.Close()
	}
}

func TestClient_Register_ConflictMapsToEmailTaken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Register(context.Background(), ports.RegisterInput{
		Email: "bob@example.com", Password: "longenough", Name: "Bob", Semester: "S5",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestClient_Verify_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/auth/verify" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer acc1" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"id": "u1"},
			"valid": true,
		})
	}))
	defer srv.Close()

	res, err := newTestClient(srv).Verify(context.Background(), "acc1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Valid || res.User.ID != "u1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClient_Verify_RejectionMapsToTokenInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Verify(context.Background(), "dead-token")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestClient_Refresh_SendsRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.RefreshToken != "ref1" {
			t.Fatalf("unexpected refresh token: %q", req.RefreshToken)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":         map[string]any{"id": "u1"},
			"accessToken":  "acc2",
			"refreshToken": "ref2",
		})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv).Refresh(context.Background(), "ref1")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if resp.AccessToken != "acc2" || resp.RefreshToken != "ref2" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClient_TransportErrorMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := newTestClient(srv)
	if _, err := c.Verify(context.Background(), "acc1"); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := c.Login(context.Background(), "a@b.c", "pw"); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClient_SubscriptionStatus_ParsesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/subscription" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"subscription": map[string]any{
				"hasActive":          true,
				"type":               "FULL_ACCESS",
				"canAccessQuiz":      true,
				"canAccessDocuments": true,
			},
		})
	}))
	defer srv.Close()

	status, err := newTestClient(srv).SubscriptionStatus(context.Background(), "acc1")
	if err != nil {
		t.Fatalf("SubscriptionStatus: %v", err)
	}
	if !status.HasActive || status.Type != domain.SubscriptionFullAccess || !status.CanAccessQuiz {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestClient_ChangePassword_WrongCurrentPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/auth/password" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := newTestClient(srv).ChangePassword(context.Background(), "acc1", "wrong-pass", "new-pass-123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestClient_Logout_SurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// The client reports the failure; swallowing it is the session service's
	// decision, not the transport's.
	if err := newTestClient(srv).Logout(context.Background(), "acc1"); err == nil {
		t.Fatalf("expected an error from a failed logout notification")
	}
}
