package alternatives

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	defaultTTL        = time.Minute
	defaultMaxEntries = 256
)

// MemoryCache кэш результатов поиска альтернатив в памяти процесса.
// Записи живут ttl, при переполнении вытесняется произвольная запись.
type MemoryCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]memoryEntry
}

type memoryEntry struct {
	dates     []domain.AlternativeDate
	expiresAt time.Time
}

// NewMemoryCache создает кэш с системными часами
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	return NewMemoryCacheWithClock(ttl, maxEntries, nil)
}

// NewMemoryCacheWithClock создает кэш с заданным источником времени (для тестов)
func NewMemoryCacheWithClock(ttl time.Duration, maxEntries int, now func() time.Time) *MemoryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]memoryEntry),
	}
}

// Get возвращает копию закэшированного списка
func (c *MemoryCache) Get(_ context.Context, key string) ([]domain.AlternativeDate, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneDates(entry.dates), true
}

// Set сохраняет список на ttl
func (c *MemoryCache) Set(_ context.Context, key string, dates []domain.AlternativeDate) {
	if c == nil {
		return
	}
	cloned := cloneDates(dates)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = memoryEntry{dates: cloned, expiresAt: expiry}
}

// Invalidate очищает кэш целиком. Вызывается после изменения бронирований или настроек.
func (c *MemoryCache) Invalidate(_ context.Context) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
}

// Purge удаляет просроченные записи и возвращает их количество
func (c *MemoryCache) Purge(_ context.Context) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	before := len(c.entries)
	c.cleanupLocked()
	return before - len(c.entries)
}

// Len количество записей, включая просроченные
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneDates(dates []domain.AlternativeDate) []domain.AlternativeDate {
	out := make([]domain.AlternativeDate, len(dates))
	copy(out, dates)
	return out
}
