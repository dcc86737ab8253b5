package alternatives

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// RedisCache кэш альтернатив, общий для нескольких инстансов сервиса.
// Ошибки Redis не пробрасываются: кэш деградирует до промаха.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	loc    *time.Location
	logger Logger
}

// redisEntry формат хранения одной даты
type redisEntry struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Status string `json:"status"`
}

// NewRedisCache создает кэш поверх клиента Redis.
// loc задает часовой пояс, в котором восстанавливаются даты.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, prefix string, loc *time.Location, logger Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "alternatives"
	}
	if loc == nil {
		loc = time.UTC
	}
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: prefix, loc: loc, logger: logger}
}

// Get читает список из Redis
func (c *RedisCache) Get(ctx context.Context, key string) ([]domain.AlternativeDate, bool) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("AlternativesCache: redis get failed: %v", err)
		}
		return nil, false
	}

	dates, err := c.decode(raw)
	if err != nil {
		c.logger.Warn("AlternativesCache: %v", err)
		return nil, false
	}
	return dates, true
}

// Set пишет список в Redis с TTL
func (c *RedisCache) Set(ctx context.Context, key string, dates []domain.AlternativeDate) {
	raw, err := encode(dates)
	if err != nil {
		c.logger.Warn("AlternativesCache: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("AlternativesCache: redis set failed: %v", err)
	}
}

// Invalidate удаляет все ключи кэша по префиксу
func (c *RedisCache) Invalidate(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, c.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("AlternativesCache: redis del failed: %v", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("AlternativesCache: redis scan failed: %v", err)
	}
}

// Purge ничего не делает: просроченные ключи удаляет сам Redis
func (c *RedisCache) Purge(_ context.Context) int {
	return 0
}

func (c *RedisCache) key(key string) string {
	return c.prefix + ":" + key
}

func encode(dates []domain.AlternativeDate) ([]byte, error) {
	entries := make([]redisEntry, len(dates))
	for i, d := range dates {
		entries[i] = redisEntry{Date: d.Date.Format(domain.DateFormat), Status: string(d.Status)}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeEntry, err)
	}
	return raw, nil
}

func (c *RedisCache) decode(raw []byte) ([]domain.AlternativeDate, error) {
	var entries []redisEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeEntry, err)
	}
	dates := make([]domain.AlternativeDate, 0, len(entries))
	for _, e := range entries {
		date, err := time.ParseInLocation(domain.DateFormat, e.Date, c.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeEntry, err)
		}
		dates = append(dates, domain.AlternativeDate{Date: date, Status: domain.AvailabilityStatus(e.Status)})
	}
	return dates, nil
}
