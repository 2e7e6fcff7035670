package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountLocked = errors.New("account locked")
var ErrEmailTaken = errors.New("email already registered")
var ErrTokenInvalid = errors.New("token rejected by server")
var ErrUnavailable = errors.New("auth backend unavailable")
var ErrNoSession = errors.New("no active session")
var ErrSessionClosed = errors.New("session closed while request in flight")

// Session pairs a User snapshot with its credential pair. Exactly one Session
// exists at a time; the session store is its only writer.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	User         *User     `json:"user"`
	PersistedAt  time.Time `json:"persistedAt"`
}

// Valid reports whether the session carries both credentials and a user.
// A partial session is corrupt and must be discarded, never repaired.
func (s *Session) Valid() bool {
	return s != nil && s.User != nil && s.AccessToken != "" && s.RefreshToken != ""
}
