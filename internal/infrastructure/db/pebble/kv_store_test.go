package pebble

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

func openTestStore(t *testing.T, dir string) *KVStore {
	t.Helper()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestKVStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := openTestStore(t, dir)
	if err := s.Set(ctx, "session:cli", []byte(`{"token":"t"}`), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s = openTestStore(t, dir)
	defer s.Close()
	got, err := s.Get(ctx, "session:cli")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"token":"t"}` {
		t.Errorf("unexpected value %q", got)
	}
}

func TestKVStore_DeleteAndExpiry(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, t.TempDir())
	defer s.Close()

	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }

	_ = s.Set(ctx, "session:a", []byte("1"), time.Minute)
	_ = s.Set(ctx, "tenant:a", []byte("2"), 0)

	now = now.Add(2 * time.Minute)
	if _, err := s.Get(ctx, "session:a"); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Errorf("expected expired key to be gone, got %v", err)
	}
	if _, err := s.Get(ctx, "tenant:a"); err != nil {
		t.Errorf("key without ttl must not expire: %v", err)
	}

	if err := s.Delete(ctx, "session:a", "tenant:a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "tenant:a"); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}
