package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const monthSummaryTTL = 5 * time.Minute

// Cache is a best-effort redis layer for month availability summaries.
// A nil *Cache, or any redis error, degrades to recompute. Summaries
// are keyed per selection duration, since the slot grid changes with
// it; a write invalidates every duration variant for the month.
type Cache struct {
	rdb *redis.Client
}

func New(addr, password string) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func monthKey(clinicID, doctorID uint, yearMonth string, durationMin int) string {
	return fmt.Sprintf("slots:month:%d:%d:%s:%d", clinicID, doctorID, yearMonth, durationMin)
}

// monthPattern matches every duration variant for the month.
func monthPattern(clinicID, doctorID uint, yearMonth string) string {
	return fmt.Sprintf("slots:month:%d:%d:%s:*", clinicID, doctorID, yearMonth)
}

func (c *Cache) GetMonthSummary(ctx context.Context, clinicID, doctorID uint, yearMonth string, durationMin int, out any) bool {
	if c == nil {
		return false
	}

	b, err := c.rdb.Get(ctx, monthKey(clinicID, doctorID, yearMonth, durationMin)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

func (c *Cache) SetMonthSummary(ctx context.Context, clinicID, doctorID uint, yearMonth string, durationMin int, v any) {
	if c == nil {
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, monthKey(clinicID, doctorID, yearMonth, durationMin), b, monthSummaryTTL)
}

func (c *Cache) InvalidateMonth(ctx context.Context, clinicID, doctorID uint, yearMonth string) {
	if c == nil {
		return
	}
	keys, err := c.rdb.Keys(ctx, monthPattern(clinicID, doctorID, yearMonth)).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}
