package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrKeyNotFound is returned when a key was never stored (or already reaped).
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyExpired is returned when a key is still in the table but past its
	// expiry. Callers should treat it like ErrKeyNotFound; it exists so logs can
	// tell the two apart.
	ErrKeyExpired = errors.New("key expired")
)

// entry stores a serialized value and its absolute expiration timestamp.
type entry struct {
	serialized []byte
	expiresAt  time.Time // zero means no expiration
}

// Item is the read-side view of an entry. TTL is the remaining time to live;
// nil means the entry never expires.
type Item struct {
	Value any
	TTL   *time.Duration
}

// Options controls construction of a Store.
type Options struct {
	// Logger receives warnings on serialization failures. Defaults to slog.Default().
	Logger *slog.Logger

	// OnEvict, if set, is called by the reaper with the keys it removed.
	// It is invoked outside the table lock.
	OnEvict func(keys []string)
}

// Store is a mutex-guarded map of keys to expiring entries. All operations are
// serialized through one RWMutex shared with the reaper; expiry is enforced
// lazily on every read, so the reaper is only a space-reclamation concern.
//
// A Store is created once by the process entry point and handed to the HTTP
// handlers and the reaper as a shared reference. Tests construct their own.
type Store struct {
	mu      sync.RWMutex
	items   map[string]entry
	log     *slog.Logger
	onEvict func(keys []string)
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// New constructs an empty Store.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		items:   make(map[string]entry),
		log:     logger,
		onEvict: opts.OnEvict,
	}
}

// Put serializes value and unconditionally replaces the entry at key (upsert;
// the prior entry's expiry state is irrelevant). ttl <= 0 means the entry never
// expires. On serialization failure the table is left untouched.
func (s *Store) Put(key string, value any, ttl time.Duration) error {
	serialized, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("value not serializable", "key", key, "error", err)
		return fmt.Errorf("serialize value for key %q: %w", key, err)
	}

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = entry{serialized: serialized, expiresAt: exp}
	return nil
}

// Get returns the deserialized value and remaining TTL for key. Expired entries
// are never returned, even before the reaper has removed them.
func (s *Store) Get(key string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[key]
	if !ok {
		return Item{}, ErrKeyNotFound
	}
	ttl, live := remaining(e, now())
	if !live {
		return Item{}, ErrKeyExpired
	}

	var value any
	if err := json.Unmarshal(e.serialized, &value); err != nil {
		// Stored bytes came from json.Marshal, so this indicates internal
		// inconsistency rather than caller error.
		s.log.Error("stored value not deserializable", "key", key, "error", err)
		return Item{}, fmt.Errorf("deserialize value for key %q: %w", key, err)
	}
	return Item{Value: value, TTL: ttl}, nil
}

// GetAll returns a snapshot of every live entry. Entries past their expiry are
// filtered out regardless of reaper cadence; entries that fail to deserialize
// are skipped with a warning.
func (s *Store) GetAll() map[string]Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts := now()
	out := make(map[string]Item, len(s.items))
	for key, e := range s.items {
		ttl, live := remaining(e, ts)
		if !live {
			continue
		}
		var value any
		if err := json.Unmarshal(e.serialized, &value); err != nil {
			s.log.Warn("skipping undecodable entry", "key", key, "error", err)
			continue
		}
		out[key] = Item{Value: value, TTL: ttl}
	}
	return out
}

// GetTTL returns the remaining TTL for key without touching the value. A nil
// duration means the entry never expires. Expired-but-unreaped keys report
// ErrKeyNotFound.
func (s *Store) GetTTL(key string) (*time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	ttl, live := remaining(e, now())
	if !live {
		return nil, ErrKeyNotFound
	}
	return ttl, nil
}

// Delete removes the entry at key and reports whether anything was removed.
// An expired-but-unreaped entry still counts as removed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return ok
}

// Len returns the physical number of entries in the table, including expired
// entries the reaper has not removed yet.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// remaining reports the time left before e expires, or nil for permanent
// entries, and whether the entry is still live at ts.
func remaining(e entry, ts time.Time) (*time.Duration, bool) {
	if e.expiresAt.IsZero() {
		return nil, true
	}
	left := e.expiresAt.Sub(ts)
	if left <= 0 {
		return nil, false
	}
	return &left, true
}
