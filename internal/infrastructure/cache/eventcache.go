package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"ticketd/internal/domain/event"
	"ticketd/internal/shared/logger"
)

const (
	eventKeyPrefix     = "ticketd:event:product:"
	eventNullMarkerTTL = 2 * time.Minute
	fieldEventID       = "id"
	fieldEventTitle    = "title"
	fieldEventStart    = "starts_at"
	fieldEventEnd      = "ends_at"
	fieldNullMarker    = "_null"
)

// CachedEventResolver answers event lookups by product from a Redis hash and falls back
// to the wrapped resolver on a miss. Products without an event are remembered briefly
// with a null marker. Redis failures never fail a lookup; they only skip the cache.
type CachedEventResolver struct {
	next   event.Resolver
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewCachedEventResolver(next event.Resolver, client *redis.Client, ttl time.Duration, log logger.Interface) *CachedEventResolver {
	return &CachedEventResolver{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: log.With("component", "cache.event"),
	}
}

func (c *CachedEventResolver) key(productID uint) string {
	return fmt.Sprintf("%s%d", eventKeyPrefix, productID)
}

func (c *CachedEventResolver) GetByProduct(ctx context.Context, productID uint) (*event.Event, error) {
	ev, hit, err := c.get(ctx, productID)
	if err != nil {
		c.logger.Warnw("event cache read failed", "product_id", productID, "error", err)
	} else if hit {
		if ev == nil {
			return nil, event.ErrEventNotFound
		}
		return ev, nil
	}

	ev, err = c.next.GetByProduct(ctx, productID)
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		c.store(ctx, productID, nil)
		return nil, err
	case err != nil:
		return nil, err
	}

	c.store(ctx, productID, ev)
	return ev, nil
}

// Invalidate drops the cached entry, used after a product is attached to an event.
func (c *CachedEventResolver) Invalidate(ctx context.Context, productID uint) error {
	if err := c.client.Del(ctx, c.key(productID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate event cache: %w", err)
	}
	return nil
}

func (c *CachedEventResolver) get(ctx context.Context, productID uint) (*event.Event, bool, error) {
	result, err := c.client.HGetAll(ctx, c.key(productID)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(result) == 0 {
		return nil, false, nil
	}
	if result[fieldNullMarker] == "1" {
		return nil, true, nil
	}

	id, err := strconv.ParseUint(result[fieldEventID], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cached event id: %w", err)
	}
	start, err := strconv.ParseInt(result[fieldEventStart], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cached event start: %w", err)
	}
	end, err := strconv.ParseInt(result[fieldEventEnd], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cached event end: %w", err)
	}

	ev, err := event.ReconstructEvent(uint(id), result[fieldEventTitle], time.UnixMilli(start), time.UnixMilli(end))
	if err != nil {
		return nil, false, err
	}
	return ev, true, nil
}

func (c *CachedEventResolver) store(ctx context.Context, productID uint, ev *event.Event) {
	key := c.key(productID)
	pipe := c.client.Pipeline()

	if ev == nil {
		pipe.HSet(ctx, key, fieldNullMarker, "1")
		pipe.Expire(ctx, key, eventNullMarkerTTL)
	} else {
		pipe.HSet(ctx, key, map[string]interface{}{
			fieldEventID:    ev.ID(),
			fieldEventTitle: ev.Title(),
			fieldEventStart: ev.Start().UnixMilli(),
			fieldEventEnd:   ev.End().UnixMilli(),
		})
		pipe.Expire(ctx, key, c.ttlWithJitter())
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warnw("event cache write failed", "product_id", productID, "error", err)
		return
	}

	c.logger.Debugw("event cached", "product_id", productID, "found", ev != nil)
}

// ttlWithJitter spreads expiry over ttl..1.25*ttl.
func (c *CachedEventResolver) ttlWithJitter() time.Duration {
	jitter := int64(c.ttl / 4)
	if jitter <= 0 {
		return c.ttl
	}
	return c.ttl + time.Duration(rand.Int64N(jitter))
}
