package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinopark/internal/models"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	sess := models.Session{
		ID:        "sid-1",
		Subject:   "42",
		IssuedAt:  now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Subject != "42" {
		t.Errorf("subject = %q, want 42", got.Subject)
	}
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpiredSessionIsAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := models.Session{
		ID:        "expired",
		Subject:   "42",
		IssuedAt:  time.Now().Add(-25 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := store.Get(ctx, "expired")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired session, got %v", err)
	}

	// the expired entry must not linger
	store.mu.RLock()
	_, ok := store.sessions["expired"]
	store.mu.RUnlock()
	if ok {
		t.Error("expired session still stored after Get")
	}
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := models.Session{ID: "sid-2", Subject: "42", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(ctx, "sid-2"); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "sid-2"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	_, err := store.Get(ctx, "sid-2")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
