// Package cache provides the Redis-backed property-summary cache. It is a
// read-model accelerator only: writes are best-effort, entries expire, and
// lifecycle guards never consult it.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"leasebook/internal/rental"
	"leasebook/pkg/domain"
)

// PropertyCache stores rental views keyed by property id.
type PropertyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cache over the given client.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *PropertyCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyCache{client: client, ttl: ttl, logger: logger}
}

func key(id domain.PropertyID) string {
	return "property:view:" + id.String()
}

// Put stores the view. Failures are logged and swallowed.
func (c *PropertyCache) Put(ctx context.Context, view rental.View) {
	payload, err := json.Marshal(view)
	if err != nil {
		c.logger.ErrorContext(ctx, "cache marshal failed", "property", view.ID, "error", err)
		return
	}
	id, err := domain.ParsePropertyID(view.ID)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(id), payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "property", view.ID, "error", err)
	}
}

// Get returns the cached view when present and decodable.
func (c *PropertyCache) Get(ctx context.Context, id domain.PropertyID) (rental.View, bool) {
	payload, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "cache read failed", "property", id.String(), "error", err)
		}
		return rental.View{}, false
	}
	var view rental.View
	if err := json.Unmarshal(payload, &view); err != nil {
		c.logger.WarnContext(ctx, "cache decode failed", "property", id.String(), "error", err)
		return rental.View{}, false
	}
	return view, true
}

// Evict removes the cached view.
func (c *PropertyCache) Evict(ctx context.Context, id domain.PropertyID) {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache evict failed", "property", id.String(), "error", err)
	}
}
