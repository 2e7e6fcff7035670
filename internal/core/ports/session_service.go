package ports

import (
	"context"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
)

// LoginInput carries user-supplied credentials. Validated before any network
// call is made.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"     validate:"required"`
	Semester string `json:"semester" validate:"required"`
}

// PasswordChangeInput carries both passwords for PUT /auth/password.
type PasswordChangeInput struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,min=8"`
}

// SessionService drives the credential lifecycle: it is the only component
// that calls the auth backend and the only one that mutates the SessionStore.
type SessionService interface {
	// Bootstrap restores the persisted session and, when one exists,
	// re-verifies it against the backend. Transport failures keep the
	// restored session; an explicit token rejection ends it.
	Bootstrap(ctx context.Context) (*domain.User, error)

	Login(ctx context.Context, input LoginInput) (*domain.User, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Refresh exchanges the refresh token for a fresh credential pair.
	// Concurrent callers share one in-flight exchange. Any failure ends the
	// session.
	Refresh(ctx context.Context) (*domain.User, error)

	// Verify validates the current access token. It never refreshes on its
	// own; callers decide between Refresh and Logout based on the error.
	Verify(ctx context.Context) (*domain.User, error)

	// Logout never fails from the caller's perspective: the server
	// notification is best effort and local state is always cleared.
	Logout(ctx context.Context)

	UpdateProfile(ctx context.Context, input ProfileUpdateInput) (*domain.User, error)
	ChangePassword(ctx context.Context, input PasswordChangeInput) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
