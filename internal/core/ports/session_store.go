package ports

import (
	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
)

// SessionStore owns the single durable session: the current User snapshot and
// its credential pair. It is the only writer of the persisted keys. It holds
// no network or timing logic.
type SessionStore interface {
	// Restore loads the persisted session at startup. A persisted user
	// without a complete token pair is corrupt legacy state: it is discarded
	// and Restore returns nil.
	Restore() (*domain.User, error)

	// Set atomically persists the session (user + both tokens) and then swaps
	// the in-memory snapshot. Subscribers observe the new snapshot.
	Set(session *domain.Session) error

	// Clear removes all persisted keys and resets the snapshot to nil.
	Clear() error

	// Current returns the in-memory User snapshot, nil when anonymous.
	// It never touches durable storage.
	Current() *domain.User

	// Session returns the full in-memory session, nil when anonymous.
	Session() *domain.Session

	// Subscribe registers fn to be called after every snapshot change with
	// the new User (nil on clear). The returned func unsubscribes.
	Subscribe(fn func(*domain.User)) (unsubscribe func())
}
