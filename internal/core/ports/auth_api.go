package ports

import (
	"context"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
)

// AuthResponse is the credential envelope returned by login, register and
// refresh.
type AuthResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// VerifyResult is returned by the token verification endpoint.
type VerifyResult struct {
	User  *domain.User `json:"user"`
	Valid bool         `json:"valid"`
}

// ProfileUpdateInput carries the mutable profile fields for PUT /auth/profile.
type ProfileUpdateInput struct {
	Name       string `json:"name,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	University string `json:"university,omitempty"`
	Department string `json:"department,omitempty"`
	Year       int    `json:"year,omitempty"`
}

// AuthAPI is the client-side view of the authentication backend. Implementations
// map transport failures to domain.ErrUnavailable and explicit rejections to
// the matching domain sentinel so callers can tell the two apart.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	// Logout notifies the server that the session ends. Best effort only.
	Logout(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Verify(ctx context.Context, accessToken string) (*VerifyResult, error)
	UpdateProfile(ctx context.Context, accessToken string, input ProfileUpdateInput) (*domain.User, error)
	ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	SubscriptionStatus(ctx context.Context, accessToken string) (*domain.SubscriptionStatus, error)
}
