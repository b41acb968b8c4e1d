// Package session persists the access token, the temporary signup token,
// and the cached user profile, and broadcasts changes to subscribers.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nhle/release-planner/internal/credential"
	"github.com/nhle/release-planner/internal/model"
)

// Storage keys. Presence of KeyAccessToken is the authentication signal.
const (
	KeyAccessToken = "accessToken"
	KeyTempToken   = "tempToken"
	KeyUserInfo    = "userInfo"
)

// TokenKind selects which token SetToken writes.
type TokenKind int

const (
	AccessToken TokenKind = iota
	TempToken
)

func (k TokenKind) key() string {
	if k == TempToken {
		return KeyTempToken
	}
	return KeyAccessToken
}

// EventKind identifies what changed.
type EventKind int

const (
	// AuthChanged fires when a token is written or the session is cleared.
	AuthChanged EventKind = iota
	// ProfileChanged fires when the cached profile is written.
	ProfileChanged
)

// Event is delivered to subscribers after a change.
type Event struct {
	Kind          EventKind
	Authenticated bool
}

// Store is the session/token store. The zero value is not usable; call New.
type Store struct {
	storage credential.Storage

	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// New returns a Store persisting into storage.
func New(storage credential.Storage) *Store {
	return &Store{
		storage: storage,
		subs:    make(map[int]func(Event)),
	}
}

// Token returns the access token if present, else the temp token.
func (s *Store) Token() (string, bool) {
	if v := s.get(KeyAccessToken); v != "" {
		return v, true
	}
	if v := s.get(KeyTempToken); v != "" {
		return v, true
	}
	return "", false
}

// TempToken returns the temporary signup token, if any.
func (s *Store) TempToken() (string, bool) {
	v := s.get(KeyTempToken)
	return v, v != ""
}

// IsAuthenticated reports whether an access token is stored. A temp token
// alone does not count.
func (s *Store) IsAuthenticated() bool {
	return s.get(KeyAccessToken) != ""
}

// SetToken persists a token of the given kind, replacing any previous value.
func (s *Store) SetToken(kind TokenKind, value string) error {
	if err := s.storage.Set(kind.key(), value); err != nil {
		return fmt.Errorf("saving %s: %w", kind.key(), err)
	}
	s.publish(AuthChanged)
	return nil
}

// RemoveToken deletes a single token kind.
func (s *Store) RemoveToken(kind TokenKind) error {
	if err := s.storage.Delete(kind.key()); err != nil {
		return fmt.Errorf("removing %s: %w", kind.key(), err)
	}
	s.publish(AuthChanged)
	return nil
}

// SetProfile persists the cached profile as one JSON record.
func (s *Store) SetProfile(p model.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := s.storage.Set(KeyUserInfo, string(data)); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	s.publish(ProfileChanged)
	return nil
}

// Profile returns the cached profile. ok is false when none is stored.
func (s *Store) Profile() (model.Profile, bool, error) {
	raw, err := s.storage.Get(KeyUserInfo)
	if errors.Is(err, credential.ErrNotFound) {
		return model.Profile{}, false, nil
	}
	if err != nil {
		return model.Profile{}, false, fmt.Errorf("loading profile: %w", err)
	}

	var p model.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return model.Profile{}, false, fmt.Errorf("decoding profile: %w", err)
	}
	return p, true, nil
}

// Clear removes the access token, the temp token, and the profile, then
// notifies subscribers. Every key is attempted even if one fails.
func (s *Store) Clear() error {
	var errs []error
	for _, key := range []string{KeyAccessToken, KeyTempToken, KeyUserInfo} {
		if err := s.storage.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	s.publish(AuthChanged)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// StoredKeys lists the keys currently held by the backing storage. It
// returns nil when the storage cannot enumerate its keys.
func (s *Store) StoredKeys() ([]string, error) {
	lister, ok := s.storage.(credential.Lister)
	if !ok {
		return nil, nil
	}
	return lister.Keys()
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// publish calls every subscriber outside the lock so handlers may read the
// store or unsubscribe.
func (s *Store) publish(kind EventKind) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	ev := Event{Kind: kind, Authenticated: s.IsAuthenticated()}
	for _, fn := range fns {
		fn(ev)
	}
}

// get returns the stored value or "" when absent or unreadable.
func (s *Store) get(key string) string {
	v, err := s.storage.Get(key)
	if err != nil {
		return ""
	}
	return v
}

// Claims is the unverified content of the access token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims decodes the access token without verifying its signature. The
// result is display data only.
func (s *Store) Claims() (Claims, error) {
	token := s.get(KeyAccessToken)
	if token == "" {
		return Claims{}, errors.New("not logged in")
	}

	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, fmt.Errorf("decoding access token: %w", err)
	}

	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}
