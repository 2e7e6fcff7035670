package service

import (
	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
	"github.com/med-hamady/Archify-Project-sub001/internal/core/ports"
)

// PolicyEvaluator answers authorization questions over the current User
// snapshot. Every predicate is a cheap synchronous read with no I/O; guards
// and UI surfaces call them on every evaluation. Nothing is cached beyond the
// snapshot itself, so answers can never outlive the User they derive from.
type PolicyEvaluator struct {
	store ports.SessionStore
}

func NewPolicyEvaluator(store ports.SessionStore) *PolicyEvaluator {
	return &PolicyEvaluator{store: store}
}

// IsAuthenticated reports whether a session exists.
func (p *PolicyEvaluator) IsAuthenticated() bool {
	return p.store.Current() != nil
}

// IsAdmin reports whether the current user holds the admin or superadmin
// role, compared case-insensitively.
func (p *PolicyEvaluator) IsAdmin() bool {
	return p.store.Current().IsAdmin()
}

// HasRole reports whether the current user's role is one of candidates.
// Anonymous users hold no role.
func (p *PolicyEvaluator) HasRole(candidates ...domain.Role) bool {
	return p.store.Current().HasRole(candidates...)
}

// IsPremium reports whether the current user's subscription is active. The
// advisory expiry date never grants or revokes access on its own.
func (p *PolicyEvaluator) IsPremium() bool {
	return p.store.Current().IsPremium()
}

// CanAccessPremiumRoute gates premium content. The subscription axis is
// independent of role: an admin without an active subscription is not premium.
func (p *PolicyEvaluator) CanAccessPremiumRoute() bool {
	return p.IsPremium()
}
