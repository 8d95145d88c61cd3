package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

// Config selects the Redis instance and the key namespace of the store.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// Timeout bounds dialing and each command. Zero means dialTimeout.
	Timeout time.Duration
}

// Open dials Redis and returns a store once the server answers PING.
func Open(ctx context.Context, cfg Config) (*KVStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = dialTimeout
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	store := NewKVStore(client, cfg.Prefix)
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", cfg.Addr, err)
	}
	return store, nil
}

// Close releases the connection pool.
func (s *KVStore) Close() error { return s.client.Close() }
