package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
	"github.com/med-hamady/Archify-Project-sub001/internal/core/ports"
	"github.com/med-hamady/Archify-Project-sub001/internal/metrics"
)

// SessionService implements ports.SessionService. It is the only writer of
// the SessionStore and the only caller of the auth backend.
//
// The session as a whole has two states, Anonymous and Authenticated. During
// an in-flight refresh the previous snapshot stays visible, so consumers never
// observe an intermediate "pending" state.
type SessionService struct {
	store    ports.SessionStore
	api      ports.AuthAPI
	validate *inputValidator
	log      zerolog.Logger

	// flights collapses concurrent refresh/verify triggers into one
	// outstanding request each; all callers share its result.
	flights singleflight.Group

	// epoch identifies the current session generation. It advances on every
	// login, register, and logout. Refresh/verify capture it before their
	// network call and discard results when it moved in the meantime.
	mu    sync.Mutex
	epoch uint64
}

// NewSessionService wires the service to its store and backend client.
func NewSessionService(store ports.SessionStore, api ports.AuthAPI, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:    store,
		api:      api,
		validate: newInputValidator(),
		log:      log,
	}
}

// Bootstrap restores the persisted session and re-verifies it. An explicit
// token rejection falls back to a refresh (which ends the session on
// failure); transport failures keep the restored session so a network blip
// never logs the user out.
func (s *SessionService) Bootstrap(ctx context.Context) (*domain.User, error) {
	user, err := s.store.Restore()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	fresh, err := s.Verify(ctx)
	switch {
	case err == nil:
		return fresh, nil
	case errors.Is(err, domain.ErrTokenInvalid):
		s.log.Info().Msg("persisted access token rejected, attempting refresh")
		if fresh, err = s.Refresh(ctx); err != nil {
			// Refresh already cleared the session. Silent re-login prompt.
			return nil, nil
		}
		return fresh, nil
	default:
		s.log.Warn().Err(err).Msg("startup verification unavailable, keeping restored session")
		return user, nil
	}
}

func (s *SessionService) Login(ctx context.Context, input ports.LoginInput) (*domain.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	resp, err := s.api.Login(ctx, input.Email, input.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("login", resultLabel(err)).Inc()
		return nil, err
	}
	if err := s.openSession(resp); err != nil {
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("login", metrics.ResultOK).Inc()
	s.log.Info().Str("user_id", resp.User.ID).Msg("login succeeded")
	return resp.User, nil
}

func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	resp, err := s.api.Register(ctx, input)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("register", resultLabel(err)).Inc()
		return nil, err
	}
	if err := s.openSession(resp); err != nil {
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("register", metrics.ResultOK).Inc()
	s.log.Info().Str("user_id", resp.User.ID).Msg("registration succeeded")
	return resp.User, nil
}

// Refresh exchanges the refresh token for a new credential pair. Concurrent
// callers await the same in-flight exchange. Any failure ends the session;
// there is no partial-refresh state.
func (s *SessionService) Refresh(ctx context.Context) (*domain.User, error) {
	v, err, _ := s.flights.Do("refresh", func() (any, error) {
		// Epoch first, session second: a logout interleaving after both
		// reads fails the epoch check, one interleaving between them
		// leaves no session to exchange. The reverse order would let a
		// logout slip in unseen and the stale result be applied.
		before := s.currentEpoch()
		sess := s.store.Session()
		if sess == nil {
			return nil, domain.ErrNoSession
		}

		// The exchange is shared between callers, so it must not die with
		// whichever caller happens to be cancelled first.
		resp, err := s.api.Refresh(context.WithoutCancel(ctx), sess.RefreshToken)
		if err != nil {
			metrics.RefreshesTotal.WithLabelValues(resultLabel(err)).Inc()
			s.log.Warn().Err(err).Msg("token refresh failed, ending session")
			s.Logout(ctx)
			return nil, err
		}

		session := &domain.Session{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			User:         resp.User,
			PersistedAt:  time.Now().UTC(),
		}
		if err := s.applyIfCurrent(before, session); err != nil {
			metrics.RefreshesTotal.WithLabelValues(metrics.ResultDiscarded).Inc()
			return nil, err
		}
		metrics.RefreshesTotal.WithLabelValues(metrics.ResultOK).Inc()
		return resp.User, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.User), nil
}

// Verify validates the current access token and replaces the stored User with
// the freshest record. It never refreshes or logs out on its own: a transport
// failure and an explicit rejection need different handling, and that call is
// the caller's.
func (s *SessionService) Verify(ctx context.Context) (*domain.User, error) {
	v, err, _ := s.flights.Do("verify", func() (any, error) {
		before := s.currentEpoch()
		sess := s.store.Session()
		if sess == nil {
			return nil, domain.ErrNoSession
		}

		res, err := s.api.Verify(context.WithoutCancel(ctx), sess.AccessToken)
		if err != nil {
			metrics.VerificationsTotal.WithLabelValues(resultLabel(err)).Inc()
			return nil, err
		}
		if !res.Valid {
			metrics.VerificationsTotal.WithLabelValues(metrics.ResultDenied).Inc()
			return nil, domain.ErrTokenInvalid
		}

		session := &domain.Session{
			AccessToken:  sess.AccessToken,
			RefreshToken: sess.RefreshToken,
			User:         res.User,
			PersistedAt:  time.Now().UTC(),
		}
		if err := s.applyIfCurrent(before, session); err != nil {
			metrics.VerificationsTotal.WithLabelValues(metrics.ResultDiscarded).Inc()
			return nil, err
		}
		metrics.VerificationsTotal.WithLabelValues(metrics.ResultOK).Inc()
		return res.User, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.User), nil
}

// Logout notifies the server best-effort and clears local state
// unconditionally. It never fails from the caller's perspective.
func (s *SessionService) Logout(ctx context.Context) {
	if sess := s.store.Session(); sess != nil {
		if err := s.api.Logout(ctx, sess.AccessToken); err != nil {
			s.log.Debug().Err(err).Msg("server logout notification failed")
		}
	}

	s.mu.Lock()
	s.epoch++
	err := s.store.Clear()
	s.mu.Unlock()
	if err != nil {
		s.log.Warn().Err(err).Msg("clearing persisted session failed")
	}
}

// UpdateProfile sends the changed fields and replaces the stored User
// wholesale with the server's response.
func (s *SessionService) UpdateProfile(ctx context.Context, input ports.ProfileUpdateInput) (*domain.User, error) {
	before := s.currentEpoch()
	sess := s.store.Session()
	if sess == nil {
		return nil, domain.ErrNoSession
	}

	user, err := s.api.UpdateProfile(ctx, sess.AccessToken, input)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		User:         user,
		PersistedAt:  time.Now().UTC(),
	}
	if err := s.applyIfCurrent(before, session); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *SessionService) ChangePassword(ctx context.Context, input ports.PasswordChangeInput) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	sess := s.store.Session()
	if sess == nil {
		return domain.ErrNoSession
	}
	return s.api.ChangePassword(ctx, sess.AccessToken, input.CurrentPassword, input.NewPassword)
}

func (s *SessionService) ForgotPassword(ctx context.Context, email string) error {
	if err := s.validate.v.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: email must be a valid email", domain.ErrInvalidCredentials)
	}
	return s.api.ForgotPassword(ctx, email)
}

func (s *SessionService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || len(newPassword) < 8 {
		return fmt.Errorf("%w: reset token and a password of at least 8 characters are required", domain.ErrInvalidCredentials)
	}
	return s.api.ResetPassword(ctx, token, newPassword)
}

// openSession starts a new session generation and persists it. Results of
// refresh/verify flights captured before this point no longer apply.
func (s *SessionService) openSession(resp *ports.AuthResponse) error {
	session := &domain.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
		PersistedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	return s.store.Set(session)
}

// applyIfCurrent persists the session only when the epoch captured before the
// network call still matches, so a logout that raced the request wins.
func (s *SessionService) applyIfCurrent(before uint64, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != before {
		return domain.ErrSessionClosed
	}
	return s.store.Set(session)
}

func (s *SessionService) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// resultLabel buckets an operation error for metrics.
func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAccountLocked),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrTokenInvalid):
		return metrics.ResultDenied
	default:
		return metrics.ResultUnavailable
	}
}
