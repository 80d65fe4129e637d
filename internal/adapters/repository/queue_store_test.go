package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/pkg/vault"
)

func testVault(t *testing.T) *vault.Vault {
	t.Helper()
	dir := t.TempDir()
	v := &vault.Vault{
		RootPath:   dir,
		CachePath:  filepath.Join(dir, "cache"),
		LogsPath:   filepath.Join(dir, "logs"),
		ConfigPath: filepath.Join(dir, "config.yaml"),
	}
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return v
}

func mustOp(t *testing.T, opType, entity string, payload any) *domain.QueuedOperation {
	t.Helper()
	op, err := domain.NewQueuedOperation(opType, entity, payload)
	if err != nil {
		t.Fatalf("NewQueuedOperation() error = %v", err)
	}
	return op
}

func TestQueueStoreFIFO(t *testing.T) {
	store := NewQueueStore(testVault(t))
	ctx := context.Background()

	first := mustOp(t, domain.OpTypeCreate, domain.OpEntityProperty, domain.PropertyInput{Name: "Radio", SerialNumber: "R-1"})
	second := mustOp(t, domain.OpTypeUpdate, domain.OpEntityStatus, domain.StatusChange{SerialNumber: "R-1", Status: "lost"})
	third := mustOp(t, domain.OpTypeVerify, domain.OpEntityProperty, domain.VerifyRequest{SerialNumber: "R-1"})

	for _, op := range []*domain.QueuedOperation{first, second, third} {
		if err := store.Enqueue(ctx, op); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() returned %d entries, want 3", len(entries))
	}
	if entries[0].ID != first.ID || entries[1].ID != second.ID || entries[2].ID != third.ID {
		t.Error("List() order does not match enqueue order")
	}
}

func TestQueueStorePersistsAcrossInstances(t *testing.T) {
	v := testVault(t)
	ctx := context.Background()

	store := NewQueueStore(v)
	op := mustOp(t, domain.OpTypeCreate, domain.OpEntityProperty, domain.PropertyInput{Name: "NVG", SerialNumber: "N-7"})
	if err := store.Enqueue(ctx, op); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	reopened := NewQueueStore(v)
	entries, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List() after reopen error = %v", err)
	}
	if len(entries) != 1 || entries[0].ID != op.ID {
		t.Errorf("reopened store lost the entry: %+v", entries)
	}
	if entries[0].Summary() != "create NVG (N-7)" {
		t.Errorf("Summary() = %q after round trip", entries[0].Summary())
	}
}

func TestQueueStoreRemove(t *testing.T) {
	store := NewQueueStore(testVault(t))
	ctx := context.Background()

	ops := []*domain.QueuedOperation{
		mustOp(t, domain.OpTypeCreate, domain.OpEntityProperty, domain.PropertyInput{Name: "A", SerialNumber: "A-1"}),
		mustOp(t, domain.OpTypeCreate, domain.OpEntityProperty, domain.PropertyInput{Name: "B", SerialNumber: "B-1"}),
		mustOp(t, domain.OpTypeCreate, domain.OpEntityProperty, domain.PropertyInput{Name: "C", SerialNumber: "C-1"}),
	}
	for _, op := range ops {
		store.Enqueue(ctx, op)
	}

	if err := store.Remove(ctx, ops[1].ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	entries, _ := store.List(ctx)
	if len(entries) != 2 {
		t.Fatalf("after Remove() len = %d, want 2", len(entries))
	}
	if entries[0].ID != ops[0].ID || entries[1].ID != ops[2].ID {
		t.Error("Remove() broke FIFO order of remaining entries")
	}

	// Removing an unknown id is a no-op
	if err := store.Remove(ctx, "no-such-id"); err != nil {
		t.Errorf("Remove(unknown) error = %v", err)
	}
}

func TestQueueStoreClearAndLen(t *testing.T) {
	store := NewQueueStore(testVault(t))
	ctx := context.Background()

	if n, err := store.Len(ctx); err != nil || n != 0 {
		t.Errorf("Len() on fresh store = %d, %v", n, err)
	}

	store.Enqueue(ctx, mustOp(t, domain.OpTypeVerify, domain.OpEntityProperty, domain.VerifyRequest{SerialNumber: "X-1"}))
	store.Enqueue(ctx, mustOp(t, domain.OpTypeVerify, domain.OpEntityProperty, domain.VerifyRequest{SerialNumber: "X-2"}))

	if n, _ := store.Len(ctx); n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n, _ := store.Len(ctx); n != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", n)
	}
}
