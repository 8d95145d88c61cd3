package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Config selects the deployment and database holding dashboard state.
type Config struct {
	URI      string
	Database string
	// Timeout bounds server selection and start-up. Zero means connectTimeout.
	Timeout time.Duration
}

// Open connects to MongoDB, checks the primary answers and makes sure the
// expiry index exists before returning the store.
func Open(ctx context.Context, cfg Config) (*KVStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}
	startCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(startCtx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName("laundry-dashboard").
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	store := NewKVStore(client.Database(cfg.Database))
	store.client = client
	if err := store.Ping(startCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo %s unreachable: %w", cfg.Database, err)
	}
	if err := store.EnsureIndexes(startCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return store, nil
}

// Close disconnects the client opened by Open. Stores built with NewKVStore
// leave the client to their owner.
func (s *KVStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
