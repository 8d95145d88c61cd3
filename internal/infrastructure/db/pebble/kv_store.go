// Package pebble is the durable on-disk record store used by the CLI, so a
// login survives between invocations.
package pebble

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

// KVStore implements ports.KeyValueStore on PebbleDB. Every write is synced.
type KVStore struct {
	db  *pebble.DB
	now func() time.Time
}

// entry is the stored envelope; Expires is unix nanoseconds, 0 for none.
type entry struct {
	Value   []byte `json:"v"`
	Expires int64  `json:"e,omitempty"`
}

func Open(dir string) (*KVStore, error) {
	opts := &pebble.Options{
		MemTableSize: 4 << 20,
		MaxOpenFiles: 64,
	}
	db, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &KVStore{db: db, now: time.Now}, nil
}

func (s *KVStore) Close() error { return s.db.Close() }

func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	v, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ports.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pebble get %s: %w", key, err)
	}
	defer closer.Close()

	var e entry
	if err := json.Unmarshal(v, &e); err != nil {
		return nil, fmt.Errorf("pebble decode %s: %w", key, err)
	}
	if e.Expires != 0 && s.now().UnixNano() >= e.Expires {
		return nil, ports.ErrKeyNotFound
	}
	return e.Value, nil
}

func (s *KVStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{Value: value}
	if ttl > 0 {
		e.Expires = s.now().Add(ttl).UnixNano()
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("pebble encode %s: %w", key, err)
	}
	if err := s.db.Set([]byte(key), raw, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set %s: %w", key, err)
	}
	return nil
}

// Delete removes every key in one atomic batch.
func (s *KVStore) Delete(_ context.Context, keys ...string) error {
	b := s.db.NewBatch()
	defer b.Close()
	for _, k := range keys {
		if err := b.Delete([]byte(k), nil); err != nil {
			return fmt.Errorf("pebble delete %s: %w", k, err)
		}
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("pebble commit: %w", err)
	}
	return nil
}

// Ping reports whether the store is still open.
func (s *KVStore) Ping(context.Context) error {
	it, err := s.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("pebble ping: %w", err)
	}
	return it.Close()
}
