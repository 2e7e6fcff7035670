package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// renewalInterval derives how long to wait before the next periodic token
// renewal: 85% of the access token's lifetime, read from its exp/iat claims
// without signature verification (the client never holds the signing key).
// Opaque or claim-less tokens fall back to the configured interval.
func renewalInterval(accessToken string, fallback time.Duration) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return fallback
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}

	lifetime := time.Until(exp.Time)
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		lifetime = exp.Sub(iat.Time)
	}
	if lifetime <= 0 {
		return fallback
	}
	return lifetime * 85 / 100
}
