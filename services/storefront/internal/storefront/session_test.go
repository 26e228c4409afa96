package storefront

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewSessionStore(t *testing.T) {
	store := NewSessionStore(0)
	if store.TTL() != 8*time.Hour {
		t.Errorf("TTL() = %v, want 8h", store.TTL())
	}

	store = NewSessionStore(30 * time.Minute)
	if store.TTL() != 30*time.Minute {
		t.Errorf("TTL() = %v, want 30m", store.TTL())
	}
}

func TestSessionStoreSave(t *testing.T) {
	store := NewSessionStore(time.Hour)

	tests := []struct {
		name    string
		session *Session
		wantErr bool
	}{
		{name: "validSession", session: &Session{ID: "session-1"}, wantErr: false},
		{name: "nilSession", session: nil, wantErr: true},
		{name: "emptyID", session: &Session{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Save(tt.session)
			if (err != nil) != tt.wantErr {
				t.Errorf("Save() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionStoreGetSlidesExpiry(t *testing.T) {
	store := NewSessionStore(time.Hour)
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if err := store.Save(&Session{ID: "s"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	now = now.Add(50 * time.Minute)
	if _, err := store.Get("s"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	now = now.Add(50 * time.Minute)
	if _, err := store.Get("s"); err != nil {
		t.Errorf("Get() after sliding error = %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := store.Get("s"); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Get() error = %v, want ErrSessionExpired", err)
	}
	if _, err := store.Get("s"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStoreSweepAndEvict(t *testing.T) {
	store := NewSessionStore(time.Minute)
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	evicted := 0
	store.OnEvict(func(n int) { evicted += n })

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Save(&Session{ID: id}); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}
	store.Delete("c")
	store.Delete("missing")

	now = now.Add(2 * time.Minute)
	if removed := store.Sweep(); removed != 2 {
		t.Errorf("Sweep() = %d, want 2", removed)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
	if evicted != 3 {
		t.Errorf("evicted = %d, want 3", evicted)
	}
}

func TestSessionStoreStopTwice(t *testing.T) {
	store := NewSessionStore(time.Minute)
	if err := store.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := store.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := store.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
}
