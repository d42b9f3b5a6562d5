package auth

import (
	"testing"
	"time"
)

func TestSessionStoreExpiry(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := NewSessionStore(time.Hour, clock)

	store.Put("tok", 1, "alice")
	if _, ok := store.Get("tok"); !ok {
		t.Fatal("fresh session should be live")
	}

	now = now.Add(59 * time.Minute)
	if _, ok := store.Get("tok"); !ok {
		t.Fatal("session should survive inside ttl")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get("tok"); ok {
		t.Fatal("session should expire after ttl")
	}
	// Expired entry was dropped on access.
	now = now.Add(-time.Hour)
	if _, ok := store.Get("tok"); ok {
		t.Fatal("expired session must not resurrect")
	}
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	store.Put("tok", 1, "alice")
	store.Delete("tok")
	if _, ok := store.Get("tok"); ok {
		t.Fatal("deleted session should be gone")
	}
}

func TestSessionExpiredIsPure(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	session := Session{ExpiresAt: base}
	if session.Expired(base.Add(-time.Second)) {
		t.Fatal("before expiry should not be expired")
	}
	if !session.Expired(base) {
		t.Fatal("at expiry instant the session is expired")
	}
}
