package cache

import (
	"fmt"
	"testing"
	"time"
)

// Requirement: a stored nonce is consumable exactly once.
func TestStateStore_Take_ConsumesOnce(t *testing.T) {
	// Arrange
	store := NewStateStore(time.Minute, 10)
	if err := store.Put("nonce-1"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Act & Assert
	if !store.Take("nonce-1") {
		t.Fatal("first Take() = false, want true")
	}
	if store.Take("nonce-1") {
		t.Error("second Take() = true, want false (consumed)")
	}
	if store.Size() != 0 {
		t.Errorf("Size() = %d, want 0", store.Size())
	}
}

// Requirement: an unknown nonce is rejected.
func TestStateStore_Take_Unknown(t *testing.T) {
	store := NewStateStore(time.Minute, 10)

	if store.Take("never-stored") {
		t.Error("Take() = true for a nonce that was never stored")
	}
}

// Requirement: an expired nonce is rejected and removed.
func TestStateStore_Take_Expired(t *testing.T) {
	store := NewStateStore(time.Nanosecond, 10)
	_ = store.Put("nonce-1")

	time.Sleep(time.Millisecond)

	if store.Take("nonce-1") {
		t.Error("Take() = true for an expired nonce")
	}
	if store.Size() != 0 {
		t.Errorf("Size() = %d, want 0 (expired entry removed)", store.Size())
	}
}

// Requirement: the store is bounded; putting past capacity evicts an entry
// instead of growing without limit.
func TestStateStore_Put_BoundedSize(t *testing.T) {
	const maxSize = 5
	store := NewStateStore(time.Minute, maxSize)

	for i := 0; i < maxSize*3; i++ {
		if err := store.Put(fmt.Sprintf("nonce-%d", i)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	if store.Size() > maxSize {
		t.Errorf("Size() = %d, want at most %d", store.Size(), maxSize)
	}
}

// Requirement: zero values fall back to defaults.
func TestStateStore_Defaults(t *testing.T) {
	store := NewStateStore(0, 0)

	if store.ttl != defaultTTL {
		t.Errorf("ttl = %v, want %v", store.ttl, defaultTTL)
	}
	if store.maxSize != defaultMaxSize {
		t.Errorf("maxSize = %d, want %d", store.maxSize, defaultMaxSize)
	}
}
