package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
	"github.com/med-hamady/Archify-Project-sub001/internal/core/ports"
)

// ActivityMonitor decides when the session should be re-verified without a
// route transition asking for it: on a periodic schedule well before token
// expiry, when the application regains focus, and on the first interaction
// after a long idle gap. Every trigger is best effort: failures are logged
// and swallowed, and coalescing of overlapping triggers comes from the
// session service's shared in-flight calls.
type ActivityMonitor struct {
	sessions ports.SessionService
	store    ports.SessionStore

	refreshFallback time.Duration
	idleThreshold   time.Duration
	now             func() time.Time
	log             zerolog.Logger

	mu           sync.Mutex
	lastActivity time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewActivityMonitor builds a monitor. refreshFallback is the periodic
// renewal interval used when the access token's lifetime cannot be read from
// its claims; idleThreshold is the interaction gap that triggers a
// re-verification.
func NewActivityMonitor(sessions ports.SessionService, store ports.SessionStore, refreshFallback, idleThreshold time.Duration, log zerolog.Logger) *ActivityMonitor {
	if refreshFallback <= 0 {
		refreshFallback = 144 * time.Hour
	}
	if idleThreshold <= 0 {
		idleThreshold = time.Hour
	}
	return &ActivityMonitor{
		sessions:        sessions,
		store:           store,
		refreshFallback: refreshFallback,
		idleThreshold:   idleThreshold,
		now:             time.Now,
		log:             log,
	}
}

// Start launches the periodic renewal goroutine. It runs until Stop or until
// ctx is cancelled.
func (m *ActivityMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.run(ctx, m.done)
}

// Stop cancels the periodic renewal goroutine and waits for it to exit.
func (m *ActivityMonitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *ActivityMonitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		timer := time.NewTimer(m.nextRenewal())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if m.store.Current() == nil {
				continue
			}
			if _, err := m.sessions.Refresh(ctx); err != nil {
				m.log.Warn().Err(err).Msg("scheduled token renewal failed")
			}
		}
	}
}

// nextRenewal derives the wait until the next periodic refresh from the
// current access token, falling back to the configured interval for opaque
// tokens or while anonymous.
func (m *ActivityMonitor) nextRenewal() time.Duration {
	sess := m.store.Session()
	if sess == nil {
		return m.refreshFallback
	}
	return renewalInterval(sess.AccessToken, m.refreshFallback)
}

// OnFocus re-verifies the session when the application regains foreground
// focus.
func (m *ActivityMonitor) OnFocus(ctx context.Context) {
	m.reverify(ctx, "focus")
}

// OnActivity records a user interaction (pointer, keyboard, scroll, touch).
// When the gap since the previous interaction exceeds the idle threshold, the
// session is re-verified before it is trusted again.
func (m *ActivityMonitor) OnActivity(ctx context.Context) {
	now := m.now()

	m.mu.Lock()
	last := m.lastActivity
	m.lastActivity = now
	m.mu.Unlock()

	if last.IsZero() || now.Sub(last) <= m.idleThreshold {
		return
	}
	m.reverify(ctx, "idle")
}

// reverify runs verify and falls back to refresh only on an explicit token
// rejection. Transport failures keep the session; the next trigger retries.
func (m *ActivityMonitor) reverify(ctx context.Context, trigger string) {
	if m.store.Current() == nil {
		return
	}

	_, err := m.sessions.Verify(ctx)
	switch {
	case err == nil:
		return
	case errors.Is(err, domain.ErrTokenInvalid):
		m.log.Info().Str("trigger", trigger).Msg("access token rejected, refreshing")
		if _, err := m.sessions.Refresh(ctx); err != nil {
			m.log.Warn().Str("trigger", trigger).Err(err).Msg("refresh after rejected verification failed")
		}
	default:
		m.log.Warn().Str("trigger", trigger).Err(err).Msg("re-verification unavailable, will retry on next trigger")
	}
}
