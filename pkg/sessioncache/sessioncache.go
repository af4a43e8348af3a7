// Package sessioncache is a process-local expiring key/value store. The
// platform authorization flow uses it to hand discovered ad-account payloads
// between redirect steps before a connection row exists.
//
// Entries live in process memory only: they do not survive a restart and are
// not shared between replicas. Multi-instance deployments need an external
// store behind the same interface.
package sessioncache

import (
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
const keyLength = 21

type entry struct {
	payload   any
	expiresAt time.Time
}

// Store is a TTL-evicting map with a background janitor.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// New creates a Store whose entries expire after ttl. The janitor sweeps at
// the given interval until Close is called.
func New(ttl, sweepInterval time.Duration) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	go s.janitor(sweepInterval)

	return s
}

// Put stores a payload under a freshly generated key and returns the key.
func (s *Store) Put(payload any) (string, error) {
	key, err := gonanoid.Generate(keyAlphabet, keyLength)
	if err != nil {
		return "", err
	}

	s.Set(key, payload)
	return key, nil
}

// Set stores a payload under an explicit key, replacing any previous value.
func (s *Store) Set(key string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		payload:   payload,
		expiresAt: time.Now().Add(s.ttl),
	}
}

// Get returns the payload for key if present and not expired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}

	return e.payload, true
}

// Take returns and removes the payload for key, making handoff one-shot.
func (s *Store) Take(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	delete(s.entries, key)

	if time.Now().After(e.expiresAt) {
		return nil, false
	}

	return e.payload, true
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Close stops the janitor.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Store) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
