package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/appetiteclub/storefront/services/storefront/internal/catalog"
	"github.com/appetiteclub/storefront/services/storefront/internal/checkout"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is one browser's storefront: its state container and the
// components that drive it.
type Session struct {
	ID        string
	Store     *state.Store
	Catalog   *catalog.Loader
	Checkout  *checkout.Flow
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore keeps sessions in memory with a sliding TTL.
type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	onEvict  func(n int)
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl == 0 {
		ttl = 8 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// OnEvict registers a callback told how many sessions were dropped.
func (s *SessionStore) OnEvict(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = fn
}

func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

func (s *SessionStore) Save(session *Session) error {
	if session == nil {
		return errors.New("session is nil")
	}
	if session.ID == "" {
		return errors.New("session id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now()
	}
	session.ExpiresAt = s.now().Add(s.ttl)
	s.sessions[session.ID] = session
	return nil
}

// Get returns a live session and extends its expiry.
func (s *SessionStore) Get(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := s.now()
	if now.After(session.ExpiresAt) {
		delete(s.sessions, sessionID)
		s.evicted(1)
		return nil, ErrSessionExpired
	}

	session.ExpiresAt = now.Add(s.ttl)
	return session, nil
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		s.evicted(1)
	}
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and reports how many were dropped.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.evicted(removed)
	return removed
}

// evicted must be called with mu held.
func (s *SessionStore) evicted(n int) {
	if n > 0 && s.onEvict != nil {
		s.onEvict(n)
	}
}

// Start runs the periodic sweep until Stop.
func (s *SessionStore) Start(ctx context.Context) error {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
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

func (s *SessionStore) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return nil
}
