package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

const transferCacheKey = "transfers"

// Transfer actions accepted by Resolve.
const (
	TransferActionApprove  = "approve"
	TransferActionReject   = "reject"
	TransferActionCancel   = "cancel"
	TransferActionComplete = "complete"
)

// TransferService handles custody transfer workflows. Transfer decisions
// are online-only: approving a stale request hours later from a replay
// queue is worse than telling the user to retry.
type TransferService struct {
	api   ports.TransferAPI
	cache ports.CacheRepository
	ttl   time.Duration
}

// NewTransferService creates a new transfer service
func NewTransferService(api ports.TransferAPI, cache ports.CacheRepository, ttl time.Duration) *TransferService {
	return &TransferService{
		api:   api,
		cache: cache,
		ttl:   ttl,
	}
}

// ListTransfersRequest filters the transfer listing
type ListTransfersRequest struct {
	Status  string // filter by status (optional)
	Pending bool   // only transfers awaiting a decision
	Refresh bool   // bypass the cache even when fresh
}

// ListTransfersResponse carries the listing plus its provenance
type ListTransfersResponse struct {
	Transfers []domain.Transfer
	Total     int
	FromCache bool
	CacheAge  time.Duration
	Offline   bool
}

// List returns transfers, served from the cache while fresh, stale when
// offline.
func (s *TransferService) List(ctx context.Context, req ListTransfersRequest) (*ListTransfersResponse, error) {
	if !req.Refresh {
		var cached []domain.Transfer
		fetchedAt, err := s.cache.Get(ctx, transferCacheKey, &cached)
		if err == nil && time.Since(fetchedAt) <= s.ttl {
			transfers := filterTransfers(cached, req)
			return &ListTransfersResponse{
				Transfers: transfers,
				Total:     len(transfers),
				FromCache: true,
				CacheAge:  time.Since(fetchedAt),
			}, nil
		}
	}

	transfers, err := s.api.List(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrOffline) {
			var cached []domain.Transfer
			fetchedAt, cacheErr := s.cache.Get(ctx, transferCacheKey, &cached)
			if cacheErr == nil {
				filtered := filterTransfers(cached, req)
				return &ListTransfersResponse{
					Transfers: filtered,
					Total:     len(filtered),
					FromCache: true,
					CacheAge:  time.Since(fetchedAt),
					Offline:   true,
				}, nil
			}
		}
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	_ = s.cache.Put(ctx, transferCacheKey, transfers)

	filtered := filterTransfers(transfers, req)
	return &ListTransfersResponse{
		Transfers: filtered,
		Total:     len(filtered),
	}, nil
}

func filterTransfers(transfers []domain.Transfer, req ListTransfersRequest) []domain.Transfer {
	filtered := make([]domain.Transfer, 0, len(transfers))
	for _, t := range transfers {
		if req.Status != "" && !strings.EqualFold(t.Status, req.Status) {
			continue
		}
		if req.Pending && !t.Pending() {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// Get retrieves one transfer by id
func (s *TransferService) Get(ctx context.Context, id int) (*domain.Transfer, error) {
	transfer, err := s.api.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer %d: %w", id, err)
	}
	return transfer, nil
}

// RequestTransferRequest asks for custody of a property by serial number
type RequestTransferRequest struct {
	Serial string
	Notes  string
}

// RequestTransferResponse carries the created transfer
type RequestTransferResponse struct {
	Transfer *domain.Transfer
}

// Request creates a serial-number custody request. The requester does not
// hold the record, so the serial is all they have.
func (s *TransferService) Request(ctx context.Context, req RequestTransferRequest) (*RequestTransferResponse, error) {
	input := domain.SerialRequestInput{
		SerialNumber: domain.NormalizeSerial(req.Serial),
		Notes:        req.Notes,
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	transfer, err := s.api.RequestBySerial(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to request transfer of %s: %w", input.SerialNumber, err)
	}

	_ = s.cache.Invalidate(ctx, transferCacheKey)
	return &RequestTransferResponse{Transfer: transfer}, nil
}

// OfferTransferRequest offers a held property to another user
type OfferTransferRequest struct {
	PropertyID        int
	ToUserID          int
	IncludeComponents bool
	Notes             string
}

// OfferTransferResponse carries the created transfer
type OfferTransferResponse struct {
	Transfer *domain.Transfer
}

// Offer creates a transfer offer for a property the session user holds.
func (s *TransferService) Offer(ctx context.Context, req OfferTransferRequest) (*OfferTransferResponse, error) {
	input := domain.TransferInput{
		PropertyID:        req.PropertyID,
		ToUserID:          req.ToUserID,
		TransferType:      domain.TransferTypeOffer,
		IncludeComponents: req.IncludeComponents,
		Notes:             req.Notes,
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	transfer, err := s.api.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to offer transfer: %w", err)
	}

	_ = s.cache.Invalidate(ctx, transferCacheKey)
	return &OfferTransferResponse{Transfer: transfer}, nil
}

// ResolveTransferRequest decides a pending transfer
type ResolveTransferRequest struct {
	ID     int
	Action string // approve, reject, cancel, complete
}

// ResolveTransferResponse carries the transfer after the decision
type ResolveTransferResponse struct {
	Transfer *domain.Transfer
}

// Resolve applies a decision to a transfer. The server owns the state
// machine; the client only translates actions into target statuses.
func (s *TransferService) Resolve(ctx context.Context, req ResolveTransferRequest) (*ResolveTransferResponse, error) {
	status, err := transferActionStatus(req.Action)
	if err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, fmt.Errorf("transfer id is required")
	}

	transfer, err := s.api.UpdateStatus(ctx, req.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to %s transfer %d: %w", req.Action, req.ID, err)
	}

	_ = s.cache.Invalidate(ctx, transferCacheKey)
	return &ResolveTransferResponse{Transfer: transfer}, nil
}

func transferActionStatus(action string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case TransferActionApprove:
		return domain.TransferStatusApproved, nil
	case TransferActionReject:
		return domain.TransferStatusRejected, nil
	case TransferActionCancel:
		return domain.TransferStatusCancelled, nil
	case TransferActionComplete:
		return domain.TransferStatusCompleted, nil
	}
	return "", fmt.Errorf("unknown transfer action %q (want approve, reject, cancel, or complete)", action)
}
