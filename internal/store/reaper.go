package store

import (
	"sync"
	"time"
)

// DefaultMaxInterval is the reaper's fallback sleep when no entry carries an
// expiry, and the upper bound on any single sleep.
const DefaultMaxInterval = time.Second

// StartReaper starts a background goroutine that evicts expired entries. Each
// cycle sleeps until the earliest pending expiry, clamped to [0, maxInterval],
// then removes everything past its expiry. Lazy filtering at read time is
// authoritative, so reaper cadence only affects how promptly dead entries are
// reclaimed.
//
// It returns a stop function that halts the goroutine; stop is idempotent.
func (s *Store) StartReaper(maxInterval time.Duration) (stop func()) {
	if maxInterval <= 0 {
		maxInterval = DefaultMaxInterval
	}

	done := make(chan struct{})
	var once sync.Once

	go func() {
		timer := time.NewTimer(s.sleepFor(maxInterval))
		defer timer.Stop()

		for {
			select {
			case <-timer.C:
				evicted := s.reap()
				if len(evicted) > 0 {
					s.log.Debug("reaped expired keys", "count", len(evicted))
					if s.onEvict != nil {
						s.onEvict(evicted)
					}
				}
				timer.Reset(s.sleepFor(maxInterval))
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(done)
		})
	}
}

// sleepFor computes how long the reaper should sleep before the next sweep:
// the time until the earliest pending expiry, clamped to [0, maxInterval], or
// maxInterval when nothing expires.
func (s *Store) sleepFor(maxInterval time.Duration) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sleep := maxInterval
	ts := now()
	for _, e := range s.items {
		if e.expiresAt.IsZero() {
			continue
		}
		until := e.expiresAt.Sub(ts)
		if until < sleep {
			sleep = until
		}
	}
	if sleep < 0 {
		return 0
	}
	return sleep
}

// reap removes every entry past its expiry and returns the removed keys.
func (s *Store) reap() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := now()
	var evicted []string
	for key, e := range s.items {
		if !e.expiresAt.IsZero() && !e.expiresAt.After(ts) {
			delete(s.items, key)
			evicted = append(evicted, key)
		}
	}
	return evicted
}
