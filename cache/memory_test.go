package cache

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/blueprint/id"
)

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(time.Minute))

	entityID := id.NewEntityID()
	versionID := id.NewVersionID()

	// Miss
	_, ok := c.Get(ctx, entityID)
	if ok {
		t.Fatal("expected cache miss")
	}

	// Set + Hit
	c.Set(ctx, entityID, versionID)
	got, ok := c.Get(ctx, entityID)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != versionID {
		t.Fatalf("expected %s, got %s", versionID, got)
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(1 * time.Millisecond))

	entityID := id.NewEntityID()
	c.Set(ctx, entityID, id.NewVersionID())
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, entityID)
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestMemoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	e1 := id.NewEntityID()
	e2 := id.NewEntityID()
	c.Set(ctx, e1, id.NewVersionID())
	c.Set(ctx, e2, id.NewVersionID())

	c.Invalidate(ctx, e1)

	if _, ok := c.Get(ctx, e1); ok {
		t.Fatal("e1 should be invalidated")
	}
	if _, ok := c.Get(ctx, e2); !ok {
		t.Fatal("e2 should still be cached")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithMaxSize(2))

	for i := 0; i < 5; i++ {
		c.Set(ctx, id.NewEntityID(), id.NewVersionID())
	}

	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	if size > 2 {
		t.Fatalf("expected max 2 entries, got %d", size)
	}
}
