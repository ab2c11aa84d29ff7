package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quizmaster-service/internal/domain"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	if _, err := store.Create("s1", "Alice", 2, 20); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !mr.Exists("quiz:session:s1") {
		t.Fatalf("expected liveness key to be set")
	}

	if _, err := store.Create("s1", "Other", 2, 20); err != domain.ErrDuplicateSession {
		t.Fatalf("expected duplicate, got %v", err)
	}

	result, err := store.Finalize("s1")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if result.DisplayName != "Alice" || result.MaxScore != 20 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if mr.Exists("quiz:session:s1") {
		t.Fatalf("expected liveness key removed on finalize")
	}
}

func TestSessionStoreRemoveClearsKey(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	if _, err := store.Create("s1", "Alice", 1, 10); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	store.Remove("s1")

	if mr.Exists("quiz:session:s1") {
		t.Fatalf("expected liveness key removed")
	}
	if len(store.List()) != 0 {
		t.Fatalf("expected empty store")
	}
}
