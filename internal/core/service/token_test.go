package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestRenewalInterval_SevenDayToken(t *testing.T) {
	now := time.Now()
	token := signedToken(t, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(7 * 24 * time.Hour).Unix(),
	})

	got := renewalInterval(token, 42*time.Hour)
	want := 7 * 24 * time.Hour * 85 / 100 // ≈ 6 days
	if got != want {
		t.Fatalf("renewalInterval = %v, want %v", got, want)
	}
}

func TestRenewalInterval_NoIssuedAtUsesRemainingLifetime(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"exp": time.Now().Add(10 * time.Hour).Unix(),
	})

	got := renewalInterval(token, 42*time.Hour)
	if got < 8*time.Hour || got > 9*time.Hour {
		t.Fatalf("renewalInterval = %v, want ~8.5h", got)
	}
}

func TestRenewalInterval_Fallbacks(t *testing.T) {
	fallback := 42 * time.Hour
	now := time.Now()

	cases := map[string]string{
		"opaque token": "not-a-jwt",
		"no exp claim": signedToken(t, jwt.MapClaims{"sub": "u1"}),
		"expired and issued in reverse": signedToken(t, jwt.MapClaims{
			"iat": now.Unix(),
			"exp": now.Add(-time.Hour).Unix(),
		}),
	}
	for name, token := range cases {
		if got := renewalInterval(token, fallback); got != fallback {
			t.Fatalf("%s: renewalInterval = %v, want fallback %v", name, got, fallback)
		}
	}
}
