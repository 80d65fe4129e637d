package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// SyncService replays the offline operation queue against the server.
// Replay is deliberately shallow: FIFO order, remove on success, leave in
// place on failure, never block later entries on an earlier failure.
type SyncService struct {
	queue      ports.QueueRepository
	properties ports.PropertyAPI
	pinger     ports.Pinger
	cache      ports.CacheRepository
	logger     *zap.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(queue ports.QueueRepository, properties ports.PropertyAPI, pinger ports.Pinger, cache ports.CacheRepository, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		queue:      queue,
		properties: properties,
		pinger:     pinger,
		cache:      cache,
		logger:     logger,
	}
}

// ReplayResponse summarizes one replay pass
type ReplayResponse struct {
	Offline   bool // the server was unreachable, nothing was attempted
	Replayed  int
	Failed    int
	Remaining int
	Failures  []ReplayFailure
}

// ReplayFailure describes one operation that could not be replayed
type ReplayFailure struct {
	ID      string
	Summary string
	Error   string
}

// Replay pushes every queued operation to the server. Each failure is
// logged and skipped so one bad entry cannot wedge the queue.
func (s *SyncService) Replay(ctx context.Context) (*ReplayResponse, error) {
	ops, err := s.queue.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}
	if len(ops) == 0 {
		return &ReplayResponse{}, nil
	}

	// One probe up front beats n operations all timing out
	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Info("replay skipped, server unreachable", zap.Int("pending", len(ops)))
		return &ReplayResponse{Offline: true, Remaining: len(ops)}, nil
	}

	resp := &ReplayResponse{}
	for _, op := range ops {
		if err := s.replayOne(ctx, &op); err != nil {
			resp.Failed++
			resp.Failures = append(resp.Failures, ReplayFailure{
				ID:      op.ID,
				Summary: op.Summary(),
				Error:   err.Error(),
			})
			s.logger.Warn("replay failed",
				zap.String("op", op.ID),
				zap.String("summary", op.Summary()),
				zap.Error(err))
			continue
		}
		if err := s.queue.Remove(ctx, op.ID); err != nil {
			return nil, fmt.Errorf("failed to remove replayed operation %s: %w", op.ID, err)
		}
		resp.Replayed++
		s.logger.Info("replayed", zap.String("op", op.ID), zap.String("summary", op.Summary()))
	}

	resp.Remaining, err = s.queue.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count queue: %w", err)
	}

	if resp.Replayed > 0 {
		_ = s.cache.Invalidate(ctx, propertyCacheKey)
	}
	return resp, nil
}

func (s *SyncService) replayOne(ctx context.Context, op *domain.QueuedOperation) error {
	switch {
	case op.Type == domain.OpTypeCreate && op.Entity == domain.OpEntityProperty:
		var input domain.PropertyInput
		if err := json.Unmarshal(op.Data, &input); err != nil {
			return fmt.Errorf("corrupt create payload: %w", err)
		}
		_, err := s.properties.Create(ctx, input)
		return err

	case op.Type == domain.OpTypeUpdate && op.Entity == domain.OpEntityStatus:
		var change domain.StatusChange
		if err := json.Unmarshal(op.Data, &change); err != nil {
			return fmt.Errorf("corrupt status payload: %w", err)
		}
		property, err := s.properties.GetBySerial(ctx, change.SerialNumber)
		if err != nil {
			return err
		}
		_, err = s.properties.UpdateStatus(ctx, property.ID, change.Status)
		return err

	case op.Type == domain.OpTypeVerify:
		var vr domain.VerifyRequest
		if err := json.Unmarshal(op.Data, &vr); err != nil {
			return fmt.Errorf("corrupt verify payload: %w", err)
		}
		property, err := s.properties.GetBySerial(ctx, vr.SerialNumber)
		if err != nil {
			return err
		}
		_, err = s.properties.Verify(ctx, property.ID)
		return err
	}

	return fmt.Errorf("unknown operation %s/%s", op.Type, op.Entity)
}

// StatusResponse lists the queue for inspection
type StatusResponse struct {
	Operations []domain.QueuedOperation
	Total      int
}

// Status returns the pending operations in replay order.
func (s *SyncService) Status(ctx context.Context) (*StatusResponse, error) {
	ops, err := s.queue.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}
	return &StatusResponse{Operations: ops, Total: len(ops)}, nil
}

// Clear drops every queued operation without replaying it.
func (s *SyncService) Clear(ctx context.Context) (int, error) {
	n, err := s.queue.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count queue: %w", err)
	}
	if err := s.queue.Clear(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear queue: %w", err)
	}
	return n, nil
}

// Pending returns the queue length, for status lines and prompts.
func (s *SyncService) Pending(ctx context.Context) (int, error) {
	n, err := s.queue.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count queue: %w", err)
	}
	return n, nil
}
