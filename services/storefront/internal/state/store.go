package state

import (
	"sync"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/storefront/services/storefront/internal/cart"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
)

// Listener receives the state produced by each dispatch. Listeners run on
// the dispatching goroutine and must not call Dispatch.
type Listener func(AppState)

type subscription struct {
	id       uint64
	listener Listener
}

// Store owns one AppState. Dispatches are serialized; listeners observe
// states in dispatch order.
type Store struct {
	dispatchMu sync.Mutex
	mu         sync.RWMutex
	state      AppState
	subs       []subscription
	nextID     uint64
	logger     aqm.Logger
}

func NewStore(initial AppState, logger aqm.Logger) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Store{
		state:  initial.Clone(),
		logger: logger,
	}
}

// Snapshot returns a point-in-time copy of the state.
func (s *Store) Snapshot() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Dispatch applies a and returns the resulting state.
func (s *Store) Dispatch(a Action) AppState {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state.Clone()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.logger.Debug("state dispatch", "action", a.Name())

	for _, sub := range subs {
		sub.listener(next.Clone())
	}

	return next
}

// Subscribe registers l and returns a func that removes it. Calling the
// returned func more than once is harmless.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, listener: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// AddItem appends a new cart line for item and returns its id.
func (s *Store) AddItem(item menu.Item) string {
	action := AddItem(item)
	s.Dispatch(action)
	return action.LineID
}

// AdjustLine changes a line's quantity by delta.
func (s *Store) AdjustLine(lineID string, delta int) {
	s.Dispatch(LineAdjusted{LineID: lineID, Delta: delta})
}

func (s *Store) ClearCart() {
	s.Dispatch(CartCleared{})
}

// Totals derives the cart totals from the current state.
func (s *Store) Totals() cart.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Cart.Totals()
}
