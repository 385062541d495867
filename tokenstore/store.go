// Package tokenstore owns the credential pair and the active shop id. It is
// the single place session credentials live: the transport reads them on every
// request and overwrites them after a refresh, the session controller writes
// them on login and clears them on logout.
package tokenstore

import (
	"sync"

	"github.com/rs/zerolog"
)

// Tokens is the snapshot Tokens() returns. Token values are opaque strings.
type Tokens struct {
	AccessToken   string
	RefreshToken  string
	CurrentShopID string
}

// Store holds the session credentials in memory and writes them through to a
// Storage backend. When the backend fails the store degrades to memory-only
// persistence rather than surfacing the error; credentials are then lost
// across restarts but the running session keeps working.
type Store struct {
	mu       sync.RWMutex
	storage  Storage
	log      zerolog.Logger
	access   string
	refresh  string
	shopID   string
	redirect string
	hydrated bool
}

type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a Store over the given storage backend. Values are rehydrated
// lazily on first read, not at construction.
func New(storage Storage, options ...Option) *Store {
	s := &Store{
		storage: storage,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// SetTokens overwrites both halves of the credential pair. The refresh token
// is replaced atomically with the access token so a half-rotated pair is
// never observable.
func (s *Store) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrate()
	s.access = access
	s.refresh = refresh
	s.persist(KeyAccessToken, access)
	s.persist(KeyRefreshToken, refresh)
}

// SetShopID overwrites the active shop id.
func (s *Store) SetShopID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrate()
	s.shopID = id
	s.persist(KeyCurrentShopID, id)
}

// SetRedirectPath remembers the path the user was on before an auth failure,
// so a subsequent login can restore it.
func (s *Store) SetRedirectPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrate()
	s.redirect = path
	s.persist(KeyRedirectPath, path)
}

// ConsumeRedirectPath returns the remembered path and forgets it.
func (s *Store) ConsumeRedirectPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrate()
	path := s.redirect
	s.redirect = ""
	s.remove(KeyRedirectPath)
	return path
}

// Tokens returns the current credential snapshot, rehydrating from storage
// once if memory is empty (e.g. after a restart).
func (s *Store) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrate()
	return Tokens{
		AccessToken:   s.access,
		RefreshToken:  s.refresh,
		CurrentShopID: s.shopID,
	}
}

// Clear removes every session value from memory and storage, legacy key
// variants included.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = ""
	s.refresh = ""
	s.shopID = ""
	s.redirect = ""
	s.hydrated = true
	for _, key := range allKeys {
		s.remove(key)
	}
}

// hydrate loads persisted values into memory exactly once. Callers must hold
// the write lock.
func (s *Store) hydrate() {
	if s.hydrated {
		return
	}
	s.hydrated = true
	if s.storage == nil {
		return
	}
	s.access = s.read(KeyAccessToken)
	s.refresh = s.read(KeyRefreshToken)
	s.shopID = s.read(KeyCurrentShopID)
	s.redirect = s.read(KeyRedirectPath)
}

func (s *Store) read(key string) string {
	value, err := s.storage.Get(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("token storage read failed, continuing without persisted value")
		return ""
	}
	return value
}

func (s *Store) persist(key, value string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Set(key, value); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("token storage write failed, session is memory-only")
	}
}

func (s *Store) remove(key string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("token storage delete failed")
	}
}
