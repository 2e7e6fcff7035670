package domain

import "time"

// SubscriptionType identifies what a paid plan unlocks.
type SubscriptionType string

const (
	SubscriptionPremium    SubscriptionType = "PREMIUM"
	SubscriptionQuizOnly   SubscriptionType = "QUIZ_ONLY"
	SubscriptionDocsOnly   SubscriptionType = "DOCUMENTS_ONLY"
	SubscriptionFullAccess SubscriptionType = "FULL_ACCESS"
)

// Subscription is the premium record embedded in a User snapshot.
// IsActive is authoritative; ExpiresAt is advisory and may lag server truth.
type Subscription struct {
	Type      SubscriptionType `json:"type"`
	ExpiresAt *time.Time       `json:"expiresAt"`
	IsActive  bool             `json:"isActive"`
}

// Expired reports whether the advisory expiry date has passed. A missing
// expiry never counts as expired.
func (s *Subscription) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt == nil {
		return false
	}
	return now.After(*s.ExpiresAt)
}

// SubscriptionStatus is the detailed entitlement record served by
// GET /profile/subscription, consumed by the content-gating paths.
type SubscriptionStatus struct {
	HasActive          bool             `json:"hasActive"`
	Type               SubscriptionType `json:"type,omitempty"`
	CanAccessQuiz      bool             `json:"canAccessQuiz"`
	CanAccessDocuments bool             `json:"canAccessDocuments"`
	ExpiresAt          string           `json:"expiresAt,omitempty"`
	Message            string           `json:"message,omitempty"`
}
