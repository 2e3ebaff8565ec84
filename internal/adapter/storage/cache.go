package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RetroMaine/FintechProject/internal/core/domain"
)

const latestTTL = time.Hour

// LatestCache keeps each user's most recent prediction outputs in Redis so
// history reads skip the ledger query on the hot path.
type LatestCache struct {
	client *redis.Client
}

// NewLatestCache connects to Redis and verifies connectivity.
func NewLatestCache(addr string) (*LatestCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &LatestCache{client: client}, nil
}

func latestKey(userID string) string {
	return "latest:" + userID
}

// GetLatest returns the cached outputs, or nil on a miss.
func (c *LatestCache) GetLatest(ctx context.Context, userID string) (*domain.LatestOutputs, error) {
	data, err := c.client.Get(ctx, latestKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var out domain.LatestOutputs
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &out, nil
}

// SetLatest stores the outputs with a bounded TTL.
func (c *LatestCache) SetLatest(ctx context.Context, userID string, out domain.LatestOutputs) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, latestKey(userID), data, latestTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *LatestCache) Close() error {
	return c.client.Close()
}
