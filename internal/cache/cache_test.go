package cache

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMonthKey_DurationVariants(t *testing.T) {
	short := monthKey(1, 2, "2030-01", 30)
	long := monthKey(1, 2, "2030-01", 60)
	if short == long {
		t.Fatal("selections with different durations share a cache key")
	}

	pattern := monthPattern(1, 2, "2030-01")
	for _, key := range []string{short, long} {
		ok, err := filepath.Match(pattern, key)
		if err != nil {
			t.Fatalf("bad pattern %q: %v", pattern, err)
		}
		if !ok {
			t.Fatalf("invalidation pattern %q misses key %q", pattern, key)
		}
	}

	other, err := filepath.Match(pattern, monthKey(1, 2, "2030-02", 30))
	if err != nil {
		t.Fatalf("bad pattern %q: %v", pattern, err)
	}
	if other {
		t.Fatal("invalidation pattern crosses into another month")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var out struct{}
	if c.GetMonthSummary(ctx, 1, 2, "2030-01", 30, &out) {
		t.Fatal("nil cache reported a hit")
	}
	c.SetMonthSummary(ctx, 1, 2, "2030-01", 30, out)
	c.InvalidateMonth(ctx, 1, 2, "2030-01")
}
