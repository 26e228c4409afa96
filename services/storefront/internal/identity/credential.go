package identity

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNoCredential      = errors.New("no credential stored")
	ErrCredentialExpired = errors.New("credential expired")
)

// Credential is what a sign-in leaves behind: the bearer token and the
// profile returned with it.
type Credential struct {
	Token    string   `json:"token"`
	Identity Identity `json:"user"`
}

// CredentialStore keeps credentials by session key.
type CredentialStore interface {
	Save(ctx context.Context, key string, cred Credential) error
	Load(ctx context.Context, key string) (Credential, error)
	Delete(ctx context.Context, key string) error
}

type storedCredential struct {
	cred      Credential
	expiresAt time.Time
}

// MemoryStore is a process-local CredentialStore with a fixed TTL. Start
// sweeps expired entries in the background until Stop.
type MemoryStore struct {
	entries  map[string]storedCredential
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates an in-memory credential store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{
		entries:  make(map[string]storedCredential),
		ttl:      ttl,
		now:      time.Now,
		interval: 10 * time.Minute,
		stop:     make(chan struct{}),
	}
}

func (s *MemoryStore) Start(ctx context.Context) error {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
	return nil
}

func (s *MemoryStore) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, cred Credential) error {
	if key == "" {
		return errors.New("credential key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = storedCredential{
		cred:      Credential{Token: cred.Token, Identity: cred.Identity.clone()},
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, key string) (Credential, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return Credential{}, ErrNoCredential
	}

	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return Credential{}, ErrCredentialExpired
	}

	return Credential{Token: entry.cred.Token, Identity: entry.cred.Identity.clone()}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Sweep drops expired entries and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
