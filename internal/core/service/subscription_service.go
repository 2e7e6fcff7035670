package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
	"github.com/med-hamady/Archify-Project-sub001/internal/core/ports"
)

// SubscriptionService caches the detailed entitlement record served by
// GET /profile/subscription. Content pages consult the cached record; the
// route-level premium gate stays on the User snapshot.
//
// The cache is dropped whenever the session ends, via the store subscription
// taken at construction.
type SubscriptionService struct {
	api   ports.AuthAPI
	store ports.SessionStore
	log   zerolog.Logger

	mu     sync.RWMutex
	status *domain.SubscriptionStatus
}

func NewSubscriptionService(api ports.AuthAPI, store ports.SessionStore, log zerolog.Logger) *SubscriptionService {
	s := &SubscriptionService{api: api, store: store, log: log}
	store.Subscribe(func(user *domain.User) {
		if user == nil {
			s.ClearCache()
		}
	})
	return s
}

// Check fetches the entitlement record from the backend and caches it.
func (s *SubscriptionService) Check(ctx context.Context) (*domain.SubscriptionStatus, error) {
	sess := s.store.Session()
	if sess == nil {
		return nil, domain.ErrNoSession
	}

	status, err := s.api.SubscriptionStatus(ctx, sess.AccessToken)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	return status, nil
}

// Status returns the cached record, nil when no check has run yet.
func (s *SubscriptionService) Status() *domain.SubscriptionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// CanAccessQuiz reports the cached quiz entitlement; false with a cold cache.
func (s *SubscriptionService) CanAccessQuiz() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status != nil && s.status.CanAccessQuiz
}

// CanAccessDocuments reports the cached document entitlement; false with a
// cold cache.
func (s *SubscriptionService) CanAccessDocuments() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status != nil && s.status.CanAccessDocuments
}

// ClearCache drops the cached record.
func (s *SubscriptionService) ClearCache() {
	s.mu.Lock()
	s.status = nil
	s.mu.Unlock()
}
