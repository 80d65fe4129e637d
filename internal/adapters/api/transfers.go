package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// TransferClient implements the transfer endpoints over the shared transport
type TransferClient struct {
	core *Client
}

// NewTransferClient creates a new transfer API adapter
func NewTransferClient(core *Client) *TransferClient {
	return &TransferClient{core: core}
}

// Ensure it implements the interface
var _ ports.TransferAPI = (*TransferClient)(nil)

// List returns transfers involving the session user
func (t *TransferClient) List(ctx context.Context) ([]domain.Transfer, error) {
	var dtos []transferDTO
	if err := t.core.doJSON(ctx, http.MethodGet, "/api/transfers", nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	out := make([]domain.Transfer, 0, len(dtos))
	for i := range dtos {
		out = append(out, toDomainTransfer(&dtos[i]))
	}
	return out, nil
}

// Get retrieves a transfer by id
func (t *TransferClient) Get(ctx context.Context, id int) (*domain.Transfer, error) {
	var dto transferDTO
	if err := t.core.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/transfers/%d", id), nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to get transfer %d: %w", id, err)
	}
	tr := toDomainTransfer(&dto)
	return &tr, nil
}

// Create creates a transfer for a known property
func (t *TransferClient) Create(ctx context.Context, input domain.TransferInput) (*domain.Transfer, error) {
	body := struct {
		PropertyID        int    `json:"property_id"`
		ToUserID          int    `json:"to_user_id"`
		TransferType      string `json:"transfer_type"`
		IncludeComponents bool   `json:"include_components"`
		Notes             string `json:"notes,omitempty"`
	}{
		PropertyID:        input.PropertyID,
		ToUserID:          input.ToUserID,
		TransferType:      input.TransferType,
		IncludeComponents: input.IncludeComponents,
		Notes:             input.Notes,
	}

	var dto transferDTO
	if err := t.core.doJSON(ctx, http.MethodPost, "/api/transfers", body, &dto); err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}
	tr := toDomainTransfer(&dto)
	return &tr, nil
}

// RequestBySerial requests property custody by serial number
func (t *TransferClient) RequestBySerial(ctx context.Context, input domain.SerialRequestInput) (*domain.Transfer, error) {
	body := struct {
		SerialNumber string `json:"serial_number"`
		Notes        string `json:"notes,omitempty"`
	}{
		SerialNumber: domain.NormalizeSerial(input.SerialNumber),
		Notes:        input.Notes,
	}

	var dto transferDTO
	if err := t.core.doJSON(ctx, http.MethodPost, "/api/transfers/request-by-serial", body, &dto); err != nil {
		return nil, fmt.Errorf("failed to request by serial: %w", err)
	}
	tr := toDomainTransfer(&dto)
	return &tr, nil
}

// UpdateStatus approves, rejects, or cancels a pending transfer
func (t *TransferClient) UpdateStatus(ctx context.Context, id int, status string) (*domain.Transfer, error) {
	body := struct {
		Status string `json:"status"`
	}{Status: status}

	var dto transferDTO
	path := fmt.Sprintf("/api/transfers/%d/status", id)
	if err := t.core.doJSON(ctx, http.MethodPatch, path, body, &dto); err != nil {
		return nil, fmt.Errorf("failed to update transfer status: %w", err)
	}
	tr := toDomainTransfer(&dto)
	return &tr, nil
}
