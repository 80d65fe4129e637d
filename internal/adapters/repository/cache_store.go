package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/pkg/vault"
)

// CacheStore keeps one JSON file per cached collection in the vault cache
// directory. Entries record when they were fetched; staleness policy
// belongs to the caller.
type CacheStore struct {
	vault *vault.Vault
	mu    sync.RWMutex
}

// NewCacheStore creates a new file-backed cache store
func NewCacheStore(vault *vault.Vault) *CacheStore {
	return &CacheStore{vault: vault}
}

// Ensure it implements the interface
var _ ports.CacheRepository = (*CacheStore)(nil)

type cacheEnvelope struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Data      json.RawMessage `json:"data"`
}

// Put stores a collection snapshot under a key
func (c *CacheStore) Put(ctx context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	envelope := cacheEnvelope{FetchedAt: time.Now().UTC(), Data: data}
	out, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := os.WriteFile(c.path(key), out, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Get loads a collection snapshot into value and returns the fetch time
func (c *CacheStore) Get(ctx context.Context, key string, value any) (time.Time, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path(key))
	if os.IsNotExist(err) {
		return time.Time{}, ports.ErrCacheMiss
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse cache entry: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, value); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode cache value: %w", err)
	}
	return envelope.FetchedAt, nil
}

// Invalidate drops one key
func (c *CacheStore) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached collection
func (c *CacheStore) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vault.CleanCache()
}

// path maps a cache key to a file, flattening anything that is not
// filename-safe
func (c *CacheStore) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		}
		return '_'
	}, key)
	return c.vault.GetCachePath(safe + ".json")
}
