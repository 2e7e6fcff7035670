package domain

import (
	"strings"
	"time"
)

// Role is the coarse permission tier of a user, distinct from subscription
// status. Source data may arrive upper- or lower-cased; always convert through
// NormalizeRole before comparing.
type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// NormalizeRole converts a raw role string to its canonical lower-case Role.
// The second return value is false for unknown roles.
func NormalizeRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	}
	return "", false
}

// Profile holds optional descriptive fields attached to a user.
type Profile struct {
	Avatar     string `json:"avatar,omitempty"`
	University string `json:"university,omitempty"`
	Department string `json:"department,omitempty"`
	Year       int    `json:"year,omitempty"`
}

// User models the authenticated actor as returned by the auth backend.
type User struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	Role         string        `json:"role"`
	Subscription *Subscription `json:"subscription,omitempty"`
	Profile      *Profile      `json:"profile,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	LastLoginAt  *time.Time    `json:"lastLoginAt,omitempty"`
}

// NormalizedRole returns the canonical role of the user, or "" when the
// backend sent an unknown role string.
func (u *User) NormalizedRole() Role {
	if u == nil {
		return ""
	}
	role, ok := NormalizeRole(u.Role)
	if !ok {
		return ""
	}
	return role
}

// IsAdmin reports whether the user holds the admin or superadmin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin, RoleSuperAdmin)
}

// HasRole reports whether the user's normalized role is one of candidates.
func (u *User) HasRole(candidates ...Role) bool {
	role := u.NormalizedRole()
	if role == "" {
		return false
	}
	for _, c := range candidates {
		if role == c {
			return true
		}
	}
	return false
}

// IsPremium reports whether the user holds an active premium subscription.
// Subscription.IsActive is the authoritative flag; ExpiresAt alone never
// grants access.
func (u *User) IsPremium() bool {
	return u != nil && u.Subscription != nil && u.Subscription.IsActive
}
