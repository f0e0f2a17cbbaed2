package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
)

// RedisMirrorRepository keeps a copy of the full snapshot under a single Redis key.
type RedisMirrorRepository struct {
	client *redis.Client
	key    string
}

// NewRedisMirrorRepository constructs a mirror repository.
func NewRedisMirrorRepository(client *redis.Client, key string) *RedisMirrorRepository {
	return &RedisMirrorRepository{client: client, key: key}
}

// Push overwrites the remote snapshot. Entries never expire.
func (r *RedisMirrorRepository) Push(ctx context.Context, snapshot models.Snapshot) error {
	if r.client == nil {
		return appErrors.ErrMirrorDisabled
	}
	payload, err := json.Marshal(snapshot.Clone())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

// Pull returns the raw remote snapshot document.
func (r *RedisMirrorRepository) Pull(ctx context.Context) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrMirrorDisabled
	}
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "remote mirror holds no snapshot")
		}
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return raw, nil
}

// Close releases the underlying Redis connection if present.
func (r *RedisMirrorRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
