package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
)

func TestSubscriptionService_CheckCachesStatus(t *testing.T) {
	api := &stubAuthAPI{
		subscriptionFn: func(_ context.Context, accessToken string) (*domain.SubscriptionStatus, error) {
			if accessToken != "access-u1" {
				t.Fatalf("unexpected access token: %s", accessToken)
			}
			return &domain.SubscriptionStatus{
				HasActive:          true,
				Type:               domain.SubscriptionQuizOnly,
				CanAccessQuiz:      true,
				CanAccessDocuments: false,
			}, nil
		},
	}
	store := newMemStore()
	seedSession(store, "u1")
	svc := NewSubscriptionService(api, store, zerolog.Nop())

	if svc.Status() != nil || svc.CanAccessQuiz() {
		t.Fatalf("cold cache should report nothing")
	}

	status, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !status.HasActive || status.Type != domain.SubscriptionQuizOnly {
		t.Fatalf("unexpected status: %+v", status)
	}
	if !svc.CanAccessQuiz() || svc.CanAccessDocuments() {
		t.Fatalf("cached entitlements out of sync: %+v", svc.Status())
	}
}

func TestSubscriptionService_CheckRequiresSession(t *testing.T) {
	svc := NewSubscriptionService(&stubAuthAPI{}, newMemStore(), zerolog.Nop())
	if _, err := svc.Check(context.Background()); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSubscriptionService_SessionEndDropsCache(t *testing.T) {
	api := &stubAuthAPI{
		subscriptionFn: func(context.Context, string) (*domain.SubscriptionStatus, error) {
			return &domain.SubscriptionStatus{HasActive: true, CanAccessQuiz: true}, nil
		},
	}
	store := newMemStore()
	seedSession(store, "u1")
	svc := NewSubscriptionService(api, store, zerolog.Nop())

	if _, err := svc.Check(context.Background()); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !svc.CanAccessQuiz() {
		t.Fatalf("cache should be warm")
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if svc.Status() != nil || svc.CanAccessQuiz() {
		t.Fatalf("ending the session must drop the entitlement cache")
	}
}
