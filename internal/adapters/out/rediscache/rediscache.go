// Package rediscache keeps holiday calendars in Redis so each country and year
// is fetched from the upstream API at most once per TTL.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"tracking/internal/core/ports"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

type RedisCache struct {
	c *redis.Client
}

func New(addr string) *RedisCache {
	return &RedisCache{
		c: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.c.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return errors.Wrap(r.c.Ping(ctx).Err(), "redis ping")
}

func (r *RedisCache) Close() error {
	return r.c.Close()
}

type cachedHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// HolidayCache is a read-through ports.HolidayProvider. Redis failures fall
// back to the upstream provider.
type HolidayCache struct {
	cache    *RedisCache
	upstream ports.HolidayProvider
	ttl      time.Duration
	logger   *slog.Logger
}

var _ ports.HolidayProvider = (*HolidayCache)(nil)

func NewHolidayCache(cache *RedisCache, upstream ports.HolidayProvider, ttl time.Duration, logger *slog.Logger) *HolidayCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &HolidayCache{
		cache:    cache,
		upstream: upstream,
		ttl:      ttl,
		logger:   logger.With("component", "holiday_cache"),
	}
}

func holidaysKey(countryCode string, year int) string {
	return fmt.Sprintf("holidays:%s:%d", countryCode, year)
}

func (h *HolidayCache) PublicHolidays(ctx context.Context, year int, countryCode string) ([]ports.Holiday, error) {
	key := holidaysKey(countryCode, year)

	raw, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "holiday cache read failed", "key", key, "error", err)
	}
	if ok {
		holidays, decodeErr := decodeHolidays(raw)
		if decodeErr == nil {
			return holidays, nil
		}
		h.logger.WarnContext(ctx, "holiday cache entry is corrupt", "key", key, "error", decodeErr)
	}

	holidays, err := h.upstream.PublicHolidays(ctx, year, countryCode)
	if err != nil {
		return nil, err
	}

	if raw, err = encodeHolidays(holidays); err == nil {
		err = h.cache.Set(ctx, key, raw, h.ttl)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "holiday cache write failed", "key", key, "error", err)
	}

	return holidays, nil
}

func encodeHolidays(holidays []ports.Holiday) ([]byte, error) {
	entries := make([]cachedHoliday, 0, len(holidays))
	for _, h := range holidays {
		entries = append(entries, cachedHoliday{
			Date:      h.Date.Format(time.DateOnly),
			LocalName: h.LocalName,
			Name:      h.Name,
		})
	}
	raw, err := json.Marshal(entries)
	return raw, errors.Wrap(err, "encode holidays")
}

func decodeHolidays(raw []byte) ([]ports.Holiday, error) {
	var entries []cachedHoliday
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(err, "decode holidays")
	}

	holidays := make([]ports.Holiday, 0, len(entries))
	for _, e := range entries {
		date, err := time.ParseInLocation(time.DateOnly, e.Date, time.UTC)
		if err != nil {
			return nil, errors.Wrap(err, "decode holiday date")
		}
		holidays = append(holidays, ports.Holiday{Date: date, LocalName: e.LocalName, Name: e.Name})
	}
	return holidays, nil
}
