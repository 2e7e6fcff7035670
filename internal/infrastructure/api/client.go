// Package api implements ports.AuthAPI against the Archify REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
	"github.com/med-hamady/Archify-Project-sub001/internal/core/ports"
)

// Client talks JSON over HTTP to the auth backend. Transport failures map to
// domain.ErrUnavailable; explicit rejections map to the matching domain
// sentinel per endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a Client rooted at baseURL (no trailing slash).
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type subscriptionEnvelope struct {
	Success      bool                       `json:"success"`
	Subscription *domain.SubscriptionStatus `json:"subscription"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*ports.AuthResponse, error) {
	var resp ports.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, mapStatus(err, map[int]error{
			http.StatusUnauthorized: domain.ErrInvalidCredentials,
			http.StatusLocked:       domain.ErrAccountLocked,
		})
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResponse, error) {
	var resp ports.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", "", input, &resp)
	if err != nil {
		return nil, mapStatus(err, map[int]error{
			http.StatusConflict: domain.ErrEmailTaken,
		})
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", accessToken, struct{}{}, nil)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResponse, error) {
	var resp ports.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/refresh", "", refreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return nil, mapStatus(err, map[int]error{
			http.StatusUnauthorized: domain.ErrTokenInvalid,
			http.StatusForbidden:    domain.ErrTokenInvalid,
		})
	}
	return &resp, nil
}

func (c *Client) Verify(ctx context.Context, accessToken string) (*ports.VerifyResult, error) {
	var resp ports.VerifyResult
	err := c.do(ctx, http.MethodGet, "/auth/verify", accessToken, nil, &resp)
	if err != nil {
		return nil, mapStatus(err, map[int]error{
			http.StatusUnauthorized: domain.ErrTokenInvalid,
			http.StatusForbidden:    domain.ErrTokenInvalid,
		})
	}
	return &resp, nil
}

func (c *Client) UpdateProfile(ctx context.Context, accessToken string, input ports.ProfileUpdateInput) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodPut, "/auth/profile", accessToken, input, &user)
	if err != nil {
		return nil, mapStatus(err, map[int]error{
			http.StatusUnauthorized: domain.ErrTokenInvalid,
		})
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error {
	err := c.do(ctx, http.MethodPut, "/auth/password", accessToken,
		passwordChangeRequest{CurrentPassword: currentPassword, NewPassword: newPassword}, nil)
	return mapStatus(err, map[int]error{
		// 401 here means the current password did not match, not a dead token.
		http.StatusUnauthorized: domain.ErrInvalidCredentials,
	})
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", "", forgotPasswordRequest{Email: email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	err := c.do(ctx, http.MethodPost, "/auth/reset-password", "",
		resetPasswordRequest{Token: token, NewPassword: newPassword}, nil)
	return mapStatus(err, map[int]error{
		http.StatusUnauthorized: domain.ErrTokenInvalid,
		http.StatusBadRequest:   domain.ErrTokenInvalid,
	})
}

func (c *Client) SubscriptionStatus(ctx context.Context, accessToken string) (*domain.SubscriptionStatus, error) {
	var envelope subscriptionEnvelope
	err := c.do(ctx, http.MethodGet, "/profile/subscription", accessToken, nil, &envelope)
	if err != nil {
		return nil, mapStatus(err, map[int]error{
			http.StatusUnauthorized: domain.ErrTokenInvalid,
		})
	}
	if envelope.Subscription == nil {
		return &domain.SubscriptionStatus{}, nil
	}
	return envelope.Subscription, nil
}

// statusError carries a non-2xx response so callers can map codes to domain
// sentinels per endpoint.
type statusError struct {
	Code    int
	Message string
}

func (e *statusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: server returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api: server returned %d", e.Code)
}

// mapStatus rewrites a statusError into the domain sentinel registered for
// its code. Transport errors and unmapped codes pass through unchanged.
func mapStatus(err error, codes map[int]error) error {
	if err == nil {
		return nil
	}
	var se *statusError
	if errors.As(err, &se) {
		if mapped, ok := codes[se.Code]; ok {
			return fmt.Errorf("%w: %s", mapped, se.Error())
		}
	}
	return err
}

// do executes one JSON round-trip. A nil in sends no body; a nil out discards
// the response body.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request transport failure")
		return fmt.Errorf("api: %s %s: %w (%v)", method, path, domain.ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&envelope)
		return &statusError{Code: res.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
