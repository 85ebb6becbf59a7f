package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRememberLoadsOnceAndCaches(t *testing.T) {
	c := NewLayeredCache(nil, "test:", time.Minute)
	ctx := context.Background()

	calls := 0
	load := func() ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Remember(ctx, c, "latest", load)
		if err != nil {
			t.Fatalf("Remember: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %v", got)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}
	if c.ItemCount() != 1 {
		t.Errorf("ItemCount = %d, want 1", c.ItemCount())
	}
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	c := NewLayeredCache(nil, "test:", time.Minute)
	ctx := context.Background()
	boom := errors.New("boom")

	if _, err := Remember(ctx, c, "k", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	got, err := Remember(ctx, c, "k", func() (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestFlushEmptiesLocalCache(t *testing.T) {
	c := NewLayeredCache(nil, "test:", time.Minute)
	ctx := context.Background()

	_, _ = Remember(ctx, c, "a", func() (int, error) { return 1, nil })
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if c.ItemCount() != 0 {
		t.Errorf("ItemCount = %d after flush", c.ItemCount())
	}

	got, _ := Remember(ctx, c, "a", func() (int, error) { return 2, nil })
	if got != 2 {
		t.Errorf("got %d, want reloaded 2", got)
	}
}

func TestSearchCacheExpiry(t *testing.T) {
	c := NewSearchCache[string](2, 20*time.Millisecond)
	c.Set("a", "x")

	if v, ok := c.Get("a"); !ok || v != "x" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry still returned")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestSearchCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewSearchCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive")
	}
}
