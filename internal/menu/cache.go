package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/user941211/delivery-sub004/pkg/logger"
)

type snapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	MenuSnapshotKey(restaurantID string) string
}

// CachedProvider serves snapshots from redis for a short TTL before asking the source.
// Cache failures degrade to the source rather than failing the request.
type CachedProvider struct {
	source Provider
	store  snapshotStore
	ttl    time.Duration
	logg   *logger.Logger
}

// NewCachedProvider wraps source with a redis-backed cache.
func NewCachedProvider(source Provider, store snapshotStore, ttl time.Duration, logg *logger.Logger) (*CachedProvider, error) {
	if source == nil {
		return nil, fmt.Errorf("menu source required")
	}
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &CachedProvider{source: source, store: store, ttl: ttl, logg: logg}, nil
}

func (c *CachedProvider) Snapshot(ctx context.Context, restaurantID uuid.UUID) (*Snapshot, error) {
	key := c.store.MenuSnapshotKey(restaurantID.String())

	if c.ttl > 0 {
		raw, err := c.store.Get(ctx, key)
		switch {
		case err == nil:
			var snap Snapshot
			decodeErr := json.Unmarshal([]byte(raw), &snap)
			if decodeErr == nil {
				return &snap, nil
			}
			c.logg.Warn(c.logg.WithField(ctx, "error", decodeErr.Error()), "menu.cache_decode_failed")
		case errors.Is(err, redis.Nil):
		default:
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "menu.cache_read_failed")
		}
	}

	snap, err := c.source.Snapshot(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 {
		payload, err := json.Marshal(snap)
		if err == nil {
			err = c.store.Set(ctx, key, string(payload), c.ttl)
		}
		if err != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "menu.cache_write_failed")
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot for a restaurant.
func (c *CachedProvider) Invalidate(ctx context.Context, restaurantID uuid.UUID) error {
	return c.store.Del(ctx, c.store.MenuSnapshotKey(restaurantID.String()))
}
