// Package db selects and opens the record store named by configuration.
package db

import (
	"context"
	"fmt"

	"github.com/lavanda/laundry-dashboard/internal/core/ports"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/db/memory"
	mongodb "github.com/lavanda/laundry-dashboard/internal/infrastructure/db/mongo"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/db/pebble"
	redisdb "github.com/lavanda/laundry-dashboard/internal/infrastructure/db/redis"
	"github.com/lavanda/laundry-dashboard/internal/pkg/config"
)

// Store is an opened record store and the function that releases it.
type Store struct {
	ports.KeyValueStore
	Close func(ctx context.Context) error
}

func noClose(context.Context) error { return nil }

// Open connects the store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreRedis:
		kv, err := redisdb.Open(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return &Store{
			KeyValueStore: kv,
			Close:         func(context.Context) error { return kv.Close() },
		}, nil

	case config.StoreMongo:
		kv, err := mongodb.Open(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return &Store{KeyValueStore: kv, Close: kv.Close}, nil

	case config.StorePebble:
		kv, err := pebble.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return &Store{
			KeyValueStore: kv,
			Close:         func(context.Context) error { return kv.Close() },
		}, nil

	case config.StoreMemory:
		return &Store{KeyValueStore: memory.NewKVStore(), Close: noClose}, nil
	}
	return nil, fmt.Errorf("open store: unknown driver %q", cfg.Store.Driver)
}
