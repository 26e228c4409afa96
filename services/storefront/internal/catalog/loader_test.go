package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
	"github.com/appetiteclub/storefront/services/storefront/internal/menu"
	"github.com/appetiteclub/storefront/services/storefront/internal/state"
)

type messageError struct{ msg string }

func (e *messageError) Error() string       { return "status 503: " + e.msg }
func (e *messageError) UserMessage() string { return e.msg }

// MockFetcher answers per location, optionally waiting on a gate first.
type MockFetcher struct {
	mu      sync.Mutex
	items   map[string][]menu.Item
	errs    map[string]error
	gates   map[string]chan struct{}
	started map[string]chan struct{}
	calls   []string
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		items:   make(map[string][]menu.Item),
		errs:    make(map[string]error),
		gates:   make(map[string]chan struct{}),
		started: make(map[string]chan struct{}),
	}
}

func (m *MockFetcher) FetchMenu(ctx context.Context, location string) ([]menu.Item, error) {
	m.mu.Lock()
	m.calls = append(m.calls, location)
	gate := m.gates[location]
	started := m.started[location]
	items := m.items[location]
	err := m.errs[location]
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}
	return items, err
}

type recorderStub struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recorderStub) CatalogFetch(location, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, location+":"+outcome)
}

func newStore() *state.Store {
	return state.NewStore(state.Initial(identity.Anonymous()), nil)
}

func dish(id string) menu.Item {
	return menu.Item{ID: id, Name: "Dish " + id, Price: decimal.RequireFromString("9.99"), Category: "Biryani"}
}

func TestLoadSuccess(t *testing.T) {
	store := newStore()
	fetcher := NewMockFetcher()
	fetcher.items["default"] = []menu.Item{dish("1"), dish("2")}
	rec := &recorderStub{}

	loader := NewLoader(store, fetcher, rec, nil)
	if err := loader.Load(context.Background(), ""); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	snap := store.Snapshot()
	if snap.Catalog.Location != "default" {
		t.Errorf("Location = %q, want default", snap.Catalog.Location)
	}
	if snap.Catalog.Loading {
		t.Error("Loading = true after success")
	}
	if len(snap.Catalog.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(snap.Catalog.Items))
	}
	if len(fetcher.calls) != 1 || fetcher.calls[0] != "default" {
		t.Errorf("calls = %v, want [default]", fetcher.calls)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != "default:success" {
		t.Errorf("outcomes = %v", rec.outcomes)
	}
}

func TestLoadFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "backendMessage", err: &messageError{msg: "Location closed"}, wantMsg: "Location closed"},
		{name: "transport", err: errors.New("connection refused"), wantMsg: DefaultErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore()
			fetcher := NewMockFetcher()
			fetcher.items["downtown"] = []menu.Item{dish("1")}

			loader := NewLoader(store, fetcher, nil, nil)
			if err := loader.Load(context.Background(), "downtown"); err != nil {
				t.Fatalf("Load(downtown) error = %v", err)
			}

			fetcher.errs["uptown"] = tt.err
			if err := loader.Load(context.Background(), "uptown"); err == nil {
				t.Fatal("Load(uptown) error = nil, want error")
			}

			snap := store.Snapshot()
			if len(snap.Catalog.Items) != 0 {
				t.Errorf("len(Items) = %d, want 0", len(snap.Catalog.Items))
			}
			if snap.Catalog.Error != tt.wantMsg {
				t.Errorf("Error = %q, want %q", snap.Catalog.Error, tt.wantMsg)
			}
			if snap.Catalog.Loading {
				t.Error("Loading = true after failure")
			}
		})
	}
}

func TestLastRequestedLocationWins(t *testing.T) {
	store := newStore()
	fetcher := NewMockFetcher()
	fetcher.items["downtown"] = []menu.Item{dish("d1"), dish("d2")}
	fetcher.items["uptown"] = []menu.Item{dish("u1")}
	downtownGate := make(chan struct{})
	downtownStarted := make(chan struct{})
	fetcher.gates["downtown"] = downtownGate
	fetcher.started["downtown"] = downtownStarted
	rec := &recorderStub{}

	loader := NewLoader(store, fetcher, rec, nil)

	downtownErr := make(chan error, 1)
	go func() {
		downtownErr <- loader.Load(context.Background(), "downtown")
	}()
	<-downtownStarted

	if err := loader.Load(context.Background(), "uptown"); err != nil {
		t.Fatalf("Load(uptown) error = %v", err)
	}

	close(downtownGate)
	if err := <-downtownErr; !errors.Is(err, ErrSuperseded) {
		t.Errorf("Load(downtown) error = %v, want ErrSuperseded", err)
	}

	snap := store.Snapshot()
	if snap.Catalog.Location != "uptown" {
		t.Errorf("Location = %q, want uptown", snap.Catalog.Location)
	}
	if len(snap.Catalog.Items) != 1 || snap.Catalog.Items[0].ID != "u1" {
		t.Errorf("Items = %+v, want uptown list", snap.Catalog.Items)
	}
	if snap.Catalog.Loading {
		t.Error("Loading = true after uptown completed")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.outcomes) != 2 || rec.outcomes[1] != "downtown:stale" {
		t.Errorf("outcomes = %v, want uptown success then downtown stale", rec.outcomes)
	}
}

func TestStaleFailureIsDropped(t *testing.T) {
	store := newStore()
	fetcher := NewMockFetcher()
	fetcher.errs["downtown"] = errors.New("timeout")
	fetcher.items["uptown"] = []menu.Item{dish("u1")}
	gate := make(chan struct{})
	started := make(chan struct{})
	fetcher.gates["downtown"] = gate
	fetcher.started["downtown"] = started

	loader := NewLoader(store, fetcher, nil, nil)

	done := make(chan error, 1)
	go func() { done <- loader.Load(context.Background(), "downtown") }()
	<-started

	if err := loader.Load(context.Background(), "uptown"); err != nil {
		t.Fatalf("Load(uptown) error = %v", err)
	}
	close(gate)
	<-done

	snap := store.Snapshot()
	if snap.Catalog.Error != "" {
		t.Errorf("Error = %q, want empty", snap.Catalog.Error)
	}
	if len(snap.Catalog.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(snap.Catalog.Items))
	}
}
