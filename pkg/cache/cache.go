package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines the cache operations the dashboard uses: a read-through
// store for fetch-once payloads (prediction calendar, ticker map) shared
// between dashboard replicas.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}

// GetOrFill reads key into dest; on a miss it calls fill, stores the result
// and decodes it into dest. fill errors pass through untouched so callers
// keep their RemoteError taxonomy.
func GetOrFill(ctx context.Context, c Service, key string, ttl time.Duration, dest interface{}, fill func(ctx context.Context) (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	v, err := fill(ctx)
	if err != nil {
		return err
	}
	_ = c.Set(ctx, key, v, ttl)
	return c.Get(ctx, key, dest)
}
