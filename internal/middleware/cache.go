package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/config"
)

// The response cache stores GET responses of a named group (e.g. "rooms").
// Every key embeds the group's generation number; InvalidateOnSuccess bumps
// the generation after a successful mutation, which orphans all cached
// variants of the group at once and lets them expire by TTL.

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.truncated {
		if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
			cw.truncated = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

func generationKey(cfg config.CacheConfig, group string) string {
	return cfg.Prefix + ":gen:" + group
}

// cacheKeyFrom builds a stable key from the group generation, route and,
// depending on the strategy, the query string.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context, group string, gen int64) string {
	parts := []string{"route", c.Path()}
	if strings.ToLower(cfg.KeyStrategy) != "route" {
		parts = append(parts, "q", c.Request().URL.RawQuery)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%s:%d:%x", cfg.Prefix, group, gen, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewRedisCache caches 200 responses to GET requests of group.  It is a
// pass-through when disabled or without Redis, and Redis failures are
// treated as misses.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, group string, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	if log == nil {
		log = zap.NewNop()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()

			gen, err := rdb.Get(ctx, generationKey(cfg, group)).Int64()
			if err != nil && !errors.Is(err, redis.Nil) {
				log.Warn("cache: generation read failed", zap.String("group", group), zap.Error(err))
				return next(c)
			}
			key := cacheKeyFrom(cfg, c, group, gen)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) || strings.EqualFold(k, echo.HeaderXRequestID) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				if err := rdb.SetEx(context.Background(), key, payload, cfg.TTL).Err(); err != nil {
					log.Warn("cache: store failed", zap.String("group", group), zap.Error(err))
				}
			}
			return nil
		}
	}
}

// InvalidateOnSuccess bumps the generation of group after the wrapped
// handler answers with a 2xx status.
func InvalidateOnSuccess(cfg config.CacheConfig, rdb *redis.Client, group string, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil && c.Response().Status/100 == 2 {
				if ierr := rdb.Incr(context.Background(), generationKey(cfg, group)).Err(); ierr != nil {
					log.Warn("cache: invalidation failed", zap.String("group", group), zap.Error(ierr))
				}
			}
			return err
		}
	}
}
