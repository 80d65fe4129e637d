package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/pkg/vault"
)

// QueueStore persists the offline operation queue as a JSON file in the
// vault. Order on disk is the replay order.
type QueueStore struct {
	vault *vault.Vault
	mu    sync.Mutex
}

// NewQueueStore creates a new file-backed queue store
func NewQueueStore(vault *vault.Vault) *QueueStore {
	return &QueueStore{vault: vault}
}

// Ensure it implements the interface
var _ ports.QueueRepository = (*QueueStore)(nil)

// Enqueue appends an operation to the queue
func (q *QueueStore) Enqueue(ctx context.Context, op *domain.QueuedOperation) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load()
	if err != nil {
		return err
	}
	entries = append(entries, *op)
	return q.save(entries)
}

// List returns all queued operations in FIFO order
func (q *QueueStore) List(ctx context.Context) ([]domain.QueuedOperation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

// Remove deletes an operation by id
func (q *QueueStore) Remove(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load()
	if err != nil {
		return err
	}

	for i, op := range entries {
		if op.ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			return q.save(entries)
		}
	}
	return nil
}

// Clear empties the queue
func (q *QueueStore) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.save(nil)
}

// Len returns the number of queued operations
func (q *QueueStore) Len(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (q *QueueStore) load() ([]domain.QueuedOperation, error) {
	data, err := os.ReadFile(q.vault.QueuePath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read queue file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var entries []domain.QueuedOperation
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse queue file: %w", err)
	}
	return entries, nil
}

func (q *QueueStore) save(entries []domain.QueuedOperation) error {
	if entries == nil {
		entries = []domain.QueuedOperation{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode queue: %w", err)
	}
	if err := os.WriteFile(q.vault.QueuePath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write queue file: %w", err)
	}
	return nil
}
