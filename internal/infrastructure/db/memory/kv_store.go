// Package memory is a process-local record store, used when the dashboard
// runs without Redis or MongoDB.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

type item struct {
	value   []byte
	expires time.Time
}

// KVStore implements ports.KeyValueStore over a map.
type KVStore struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

func NewKVStore() *KVStore {
	return &KVStore{items: make(map[string]item), now: time.Now}
}

func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || (!it.expires.IsZero() && !s.now().Before(it.expires)) {
		return nil, ports.ErrKeyNotFound
	}
	return append([]byte(nil), it.value...), nil
}

func (s *KVStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	it := item{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
	return nil
}

func (s *KVStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.items, k)
	}
	s.mu.Unlock()
	return nil
}

func (s *KVStore) Ping(context.Context) error { return nil }
