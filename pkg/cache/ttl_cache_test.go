package cache

import (
	"testing"
	"time"
)

func TestGetReturnsSetValue(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Close()

	c.Set("a", 1)
	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Fatalf("expected (1, true), got (%d, %v)", got, ok)
	}
}

func TestExpiredEntryIsMiss(t *testing.T) {
	c := New[string, int](10*time.Millisecond, time.Minute)
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to be a miss")
	}
}

func TestDeleteRemovesEntry(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected deleted entry to be a miss")
	}
}

func TestSweepEvictsExpired(t *testing.T) {
	c := New[string, int](5*time.Millisecond, 10*time.Millisecond)
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(40 * time.Millisecond)

	if c.Len() != 0 {
		t.Fatalf("expected sweep to evict, len=%d", c.Len())
	}
}
