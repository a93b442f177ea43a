package popularity

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Counter reads a room's counter value.
type Counter interface {
	Get(ctx context.Context, roomNumber string) (int64, error)
}

// CachedCounter keeps recent counter reads in Redis so the stats page does
// not hit the external service on every render.  Redis errors fall through
// to the wrapped counter.
type CachedCounter struct {
	next   Counter
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

func NewCachedCounter(next Counter, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedCounter {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedCounter{next: next, rdb: rdb, ttl: ttl, prefix: "srr:pop", log: log}
}

func (c *CachedCounter) key(roomNumber string) string { return c.prefix + ":" + Key(roomNumber) }

func (c *CachedCounter) Get(ctx context.Context, roomNumber string) (int64, error) {
	if c.rdb == nil || c.ttl <= 0 {
		return c.next.Get(ctx, roomNumber)
	}
	s, err := c.rdb.Get(ctx, c.key(roomNumber)).Result()
	switch {
	case err == nil:
		if v, perr := strconv.ParseInt(s, 10, 64); perr == nil {
			return v, nil
		}
	case !errors.Is(err, redis.Nil):
		c.log.Warn("popularity cache read failed", zap.String("room", roomNumber), zap.Error(err))
	}

	v, err := c.next.Get(ctx, roomNumber)
	if err != nil {
		return 0, err
	}
	if err := c.rdb.Set(ctx, c.key(roomNumber), v, c.ttl).Err(); err != nil {
		c.log.Warn("popularity cache write failed", zap.String("room", roomNumber), zap.Error(err))
	}
	return v, nil
}

// Forget drops the cached value of a room, typically after a hit.
func (c *CachedCounter) Forget(ctx context.Context, roomNumber string) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.key(roomNumber)).Err()
}
