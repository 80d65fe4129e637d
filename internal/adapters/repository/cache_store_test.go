package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

func TestCacheStoreRoundTrip(t *testing.T) {
	store := NewCacheStore(testVault(t))
	ctx := context.Background()

	in := []domain.Property{
		{ID: 1, Name: "M4 Carbine", SerialNumber: "W123456", Status: "active"},
		{ID: 2, Name: "Radio", SerialNumber: "R-22", Status: "in_repair"},
	}
	before := time.Now().Add(-time.Second)
	if err := store.Put(ctx, "properties", in); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var out []domain.Property
	fetchedAt, err := store.Get(ctx, "properties", &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(out) != 2 || out[0].SerialNumber != "W123456" {
		t.Errorf("Get() = %+v", out)
	}
	if fetchedAt.Before(before) {
		t.Errorf("fetchedAt %v predates the Put", fetchedAt)
	}
}

func TestCacheStoreMiss(t *testing.T) {
	store := NewCacheStore(testVault(t))

	var out []domain.Property
	_, err := store.Get(context.Background(), "never-stored", &out)
	if !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("Get() on missing key = %v, want ErrCacheMiss", err)
	}
}

func TestCacheStoreInvalidate(t *testing.T) {
	store := NewCacheStore(testVault(t))
	ctx := context.Background()

	store.Put(ctx, "transfers", []domain.Transfer{{ID: 1}})
	if err := store.Invalidate(ctx, "transfers"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}

	var out []domain.Transfer
	if _, err := store.Get(ctx, "transfers", &out); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("Get() after Invalidate() = %v, want ErrCacheMiss", err)
	}

	// Invalidating a missing key is a no-op
	if err := store.Invalidate(ctx, "transfers"); err != nil {
		t.Errorf("Invalidate(missing) error = %v", err)
	}
}

func TestCacheStoreInvalidateAll(t *testing.T) {
	store := NewCacheStore(testVault(t))
	ctx := context.Background()

	store.Put(ctx, "properties", []domain.Property{{ID: 1}})
	store.Put(ctx, "transfers", []domain.Transfer{{ID: 1}})

	if err := store.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll() error = %v", err)
	}

	var props []domain.Property
	if _, err := store.Get(ctx, "properties", &props); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("properties survived InvalidateAll(): %v", err)
	}
	var transfers []domain.Transfer
	if _, err := store.Get(ctx, "transfers", &transfers); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("transfers survived InvalidateAll(): %v", err)
	}
}

func TestCacheStoreKeySanitization(t *testing.T) {
	store := NewCacheStore(testVault(t))
	ctx := context.Background()

	// Keys with separators must not escape the cache directory
	key := "documents/inbox:user@7"
	if err := store.Put(ctx, key, []int{1, 2, 3}); err != nil {
		t.Fatalf("Put() with awkward key error = %v", err)
	}

	var out []int
	if _, err := store.Get(ctx, key, &out); err != nil {
		t.Fatalf("Get() with awkward key error = %v", err)
	}
	if len(out) != 3 {
		t.Errorf("round trip through sanitized key lost data: %v", out)
	}
}
