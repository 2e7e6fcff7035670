// Package guard evaluates navigation predicates before a protected route is
// entered. Guards are stateless: they consult the policy evaluator and return
// a Decision, never navigate or mutate state themselves. A chain
// short-circuits on the first denial.
package guard

import (
	"net/url"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
	"github.com/med-hamady/Archify-Project-sub001/internal/core/service"
	"github.com/med-hamady/Archify-Project-sub001/internal/metrics"
)

// Redirect targets for denied navigations.
const (
	LoginPath        = "/auth"
	HomePath         = "/"
	SubscriptionPath = "/subscription"
)

// ReturnURLParam carries the originally requested path on the subscription
// redirect, so the user lands back on the intended page after subscribing.
const ReturnURLParam = "returnUrl"

// Decision is the outcome of evaluating one guard (or a chain) against a
// requested path.
type Decision struct {
	Allowed bool
	// Target and Query describe the single redirect issued on denial.
	Target string
	Query  url.Values
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(target string, query url.Values) Decision {
	return Decision{Target: target, Query: query}
}

// Guard is a predicate evaluated before entering a protected route.
type Guard interface {
	Evaluate(requestedPath string) Decision
}

// Chain evaluates guards in declaration order and stops at the first denial.
type Chain []Guard

func (c Chain) Evaluate(requestedPath string) Decision {
	for _, g := range c {
		if d := g.Evaluate(requestedPath); !d.Allowed {
			return d
		}
	}
	return allow()
}

// AuthGuard denies anonymous users and sends them to the login surface. It
// does not consult role or subscription.
type AuthGuard struct {
	policy *service.PolicyEvaluator
}

func NewAuthGuard(policy *service.PolicyEvaluator) *AuthGuard {
	return &AuthGuard{policy: policy}
}

func (g *AuthGuard) Evaluate(string) Decision {
	if g.policy.IsAuthenticated() {
		return allow()
	}
	metrics.GuardDenialsTotal.WithLabelValues("auth").Inc()
	return redirect(LoginPath, nil)
}

// RoleGuard denies users whose role is outside the allowed set and sends them
// home. It assumes AuthGuard already ran: composed without one, an anonymous
// user is still denied but lands on home rather than login. Route
// declarations must order AuthGuard first.
type RoleGuard struct {
	policy  *service.PolicyEvaluator
	allowed []domain.Role
}

func NewRoleGuard(policy *service.PolicyEvaluator, allowed ...domain.Role) *RoleGuard {
	return &RoleGuard{policy: policy, allowed: allowed}
}

func (g *RoleGuard) Evaluate(string) Decision {
	if g.policy.HasRole(g.allowed...) {
		return allow()
	}
	metrics.GuardDenialsTotal.WithLabelValues("role").Inc()
	return redirect(HomePath, nil)
}

// SubscriptionGuard denies users without an active premium subscription and
// sends them to the upsell surface, preserving the requested path so they
// return there after subscribing.
type SubscriptionGuard struct {
	policy *service.PolicyEvaluator
}

func NewSubscriptionGuard(policy *service.PolicyEvaluator) *SubscriptionGuard {
	return &SubscriptionGuard{policy: policy}
}

func (g *SubscriptionGuard) Evaluate(requestedPath string) Decision {
	if g.policy.CanAccessPremiumRoute() {
		return allow()
	}
	metrics.GuardDenialsTotal.WithLabelValues("subscription").Inc()
	return redirect(SubscriptionPath, url.Values{ReturnURLParam: {requestedPath}})
}
