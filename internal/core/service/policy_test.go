package service

import (
	"testing"
	"time"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
)

func policyWith(user *domain.User) *PolicyEvaluator {
	store := newMemStore()
	if user != nil {
		store.session = &domain.Session{AccessToken: "a", RefreshToken: "r", User: user}
	}
	return NewPolicyEvaluator(store)
}

func TestPolicyEvaluator_Anonymous(t *testing.T) {
	p := policyWith(nil)
	if p.IsAuthenticated() || p.IsAdmin() || p.IsPremium() || p.CanAccessPremiumRoute() {
		t.Fatalf("anonymous user must fail every predicate")
	}
	if p.HasRole(domain.RoleStudent, domain.RoleAdmin, domain.RoleSuperAdmin) {
		t.Fatalf("anonymous user holds no role")
	}
}

func TestPolicyEvaluator_IsAuthenticatedTracksSnapshot(t *testing.T) {
	store := newMemStore()
	p := NewPolicyEvaluator(store)

	if p.IsAuthenticated() != (store.Current() != nil) {
		t.Fatalf("predicate out of sync with snapshot")
	}
	seedSession(store, "u1")
	if p.IsAuthenticated() != (store.Current() != nil) {
		t.Fatalf("predicate out of sync with snapshot after login")
	}
}

func TestPolicyEvaluator_RoleCaseInsensitive(t *testing.T) {
	for _, raw := range []string{"ADMIN", "admin", "SuperAdmin"} {
		p := policyWith(&domain.User{ID: "u1", Role: raw})
		if !p.IsAdmin() {
			t.Fatalf("role %q should evaluate as admin", raw)
		}
		if !p.HasRole(domain.RoleAdmin, domain.RoleSuperAdmin) {
			t.Fatalf("role %q should match the admin set", raw)
		}
	}

	student := policyWith(&domain.User{ID: "u2", Role: "student"})
	if student.IsAdmin() {
		t.Fatalf("student is not admin")
	}
	if !student.HasRole(domain.RoleStudent) {
		t.Fatalf("student should match the student set")
	}
}

func TestPolicyEvaluator_PremiumIndependentOfRole(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)

	adminNoSub := policyWith(&domain.User{ID: "u1", Role: "superadmin"})
	if adminNoSub.CanAccessPremiumRoute() {
		t.Fatalf("an admin without a subscription record is not premium")
	}

	inactive := policyWith(&domain.User{ID: "u2", Role: "student",
		Subscription: &domain.Subscription{IsActive: false, ExpiresAt: &future}})
	if inactive.IsPremium() {
		t.Fatalf("inactive subscription with future expiry is not premium")
	}

	premiumStudent := policyWith(&domain.User{ID: "u3", Role: "student",
		Subscription: &domain.Subscription{Type: domain.SubscriptionPremium, IsActive: true}})
	if !premiumStudent.CanAccessPremiumRoute() {
		t.Fatalf("active subscription should open the premium gate")
	}
}
