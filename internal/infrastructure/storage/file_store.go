// Package storage persists the session under a state directory as three
// independent keys, mirroring the platform's durable-storage layout: the
// serialized user, the access token, and the refresh token. All three are
// written and cleared together.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/med-hamady/Archify-Project-sub001/internal/core/domain"
	"github.com/med-hamady/Archify-Project-sub001/internal/metrics"
)

const (
	userKey         = "archify_user.json"
	accessTokenKey  = "archify_access_token"
	refreshTokenKey = "archify_refresh_token"
)

var ErrIncompleteSession = errors.New("storage: refusing to persist incomplete session")

// FileStore is the durable SessionStore implementation. It owns the three
// persisted keys exclusively; no other component writes the state directory.
type FileStore struct {
	dir string
	log zerolog.Logger

	mu      sync.RWMutex
	session *domain.Session
	subs    map[int]func(*domain.User)
	nextSub int
}

// NewFileStore creates the state directory if needed and returns an empty
// store. Call Restore to load any persisted session.
func NewFileStore(dir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create state dir: %w", err)
	}
	return &FileStore{
		dir:  dir,
		log:  log,
		subs: make(map[int]func(*domain.User)),
	}, nil
}

// Restore loads the persisted session. A user without a complete token pair
// is corrupt legacy state: all keys are removed and Restore returns nil.
func (s *FileStore) Restore() (*domain.User, error) {
	userRaw, err := s.read(userKey)
	if err != nil {
		return nil, err
	}
	access, err := s.read(accessTokenKey)
	if err != nil {
		return nil, err
	}
	refresh, err := s.read(refreshTokenKey)
	if err != nil {
		return nil, err
	}

	if userRaw == nil {
		if access != nil || refresh != nil {
			// Credentials without a user are as corrupt as the reverse.
			s.log.Warn().Str("dir", s.dir).Msg("discarding orphaned token files")
			metrics.RestoresTotal.WithLabelValues("corrupt").Inc()
			if err := s.removeAll(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		metrics.RestoresTotal.WithLabelValues("empty").Inc()
		return nil, nil
	}

	var user domain.User
	if unmarshalErr := json.Unmarshal(userRaw, &user); unmarshalErr != nil || access == nil || refresh == nil {
		s.log.Warn().Str("dir", s.dir).Msg("discarding corrupt persisted session")
		metrics.RestoresTotal.WithLabelValues("corrupt").Inc()
		if err := s.removeAll(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	session := &domain.Session{
		AccessToken:  strings.TrimSpace(string(access)),
		RefreshToken: strings.TrimSpace(string(refresh)),
		User:         &user,
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	metrics.RestoresTotal.WithLabelValues("ok").Inc()
	return &user, nil
}

// Set persists the session and then swaps the in-memory snapshot. Readers
// either see the previous session or the new one, never a mix.
func (s *FileStore) Set(session *domain.Session) error {
	if !session.Valid() {
		return ErrIncompleteSession
	}
	// Stamp a copy; the caller's session stays untouched.
	if session.PersistedAt.IsZero() {
		stamped := *session
		stamped.PersistedAt = time.Now().UTC()
		session = &stamped
	}

	userRaw, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("storage: marshal user: %w", err)
	}
	if err := s.write(userKey, userRaw); err != nil {
		return err
	}
	if err := s.write(accessTokenKey, []byte(session.AccessToken)); err != nil {
		return err
	}
	if err := s.write(refreshTokenKey, []byte(session.RefreshToken)); err != nil {
		return err
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.notify(session.User)
	return nil
}

// Clear removes all persisted keys and resets the snapshot.
func (s *FileStore) Clear() error {
	if err := s.removeAll(); err != nil {
		return err
	}

	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	s.notify(nil)
	return nil
}

// Current returns the in-memory User snapshot, nil when anonymous.
func (s *FileStore) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	return s.session.User
}

// Session returns the full in-memory session, nil when anonymous.
func (s *FileStore) Session() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Subscribe registers fn for snapshot-change notifications. The returned
// func removes the subscription.
func (s *FileStore) Subscribe(fn func(*domain.User)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify invokes subscribers outside the store lock so that callbacks may
// call back into the store.
func (s *FileStore) notify(user *domain.User) {
	s.mu.RLock()
	fns := make([]func(*domain.User), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(user)
	}
}

// read returns the key's contents, or nil when the key does not exist.
func (s *FileStore) read(key string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return raw, nil
}

// write replaces the key's contents via a temp file and rename so that a
// crash mid-write never leaves a truncated key behind.
func (s *FileStore) write(key string, data []byte) error {
	path := filepath.Join(s.dir, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) removeAll() error {
	for _, key := range []string{userKey, accessTokenKey, refreshTokenKey} {
		if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage: remove %s: %w", key, err)
		}
	}
	return nil
}
