package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// DocumentClient implements the document endpoints
type DocumentClient struct {
	core *Client
}

// NewDocumentClient creates a new document API adapter
func NewDocumentClient(core *Client) *DocumentClient {
	return &DocumentClient{core: core}
}

// Ensure it implements the interface
var _ ports.DocumentAPI = (*DocumentClient)(nil)

// List returns documents in the given box ("inbox", "sent", "all")
func (dc *DocumentClient) List(ctx context.Context, box string) ([]domain.Document, error) {
	path := "/api/documents"
	if box != "" && box != "all" {
		path += "?box=" + url.QueryEscape(box)
	}

	var resp struct {
		Documents []documentDTO `json:"documents"`
	}
	if err := dc.core.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	out := make([]domain.Document, 0, len(resp.Documents))
	for i := range resp.Documents {
		out = append(out, toDomainDocument(&resp.Documents[i]))
	}
	return out, nil
}

// Get retrieves a document by id
func (dc *DocumentClient) Get(ctx context.Context, id int) (*domain.Document, error) {
	var dto documentDTO
	if err := dc.core.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/documents/%d", id), nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to get document %d: %w", id, err)
	}
	doc := toDomainDocument(&dto)
	return &doc, nil
}

// UpdateStatus marks a document read or archived
func (dc *DocumentClient) UpdateStatus(ctx context.Context, id int, status string) (*domain.Document, error) {
	body := struct {
		Status string `json:"status"`
	}{Status: status}

	var dto documentDTO
	path := fmt.Sprintf("/api/documents/%d", id)
	if err := dc.core.doJSON(ctx, http.MethodPatch, path, body, &dto); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	doc := toDomainDocument(&dto)
	return &doc, nil
}

// SendMaintenanceForm creates and sends a maintenance document
func (dc *DocumentClient) SendMaintenanceForm(ctx context.Context, input domain.MaintenanceFormInput) (*domain.Document, error) {
	body := struct {
		PropertyID       int    `json:"property_id"`
		RecipientUserID  int    `json:"recipient_user_id"`
		FormType         string `json:"form_type"`
		Description      string `json:"description"`
		FaultDescription string `json:"fault_description,omitempty"`
	}{
		PropertyID:       input.PropertyID,
		RecipientUserID:  input.RecipientUserID,
		FormType:         input.FormType,
		Description:      input.Description,
		FaultDescription: input.FaultDescription,
	}

	var dto documentDTO
	if err := dc.core.doJSON(ctx, http.MethodPost, "/api/documents/maintenance-form", body, &dto); err != nil {
		return nil, fmt.Errorf("failed to send maintenance form: %w", err)
	}
	doc := toDomainDocument(&dto)
	return &doc, nil
}

// Bulk applies one operation to many documents
func (dc *DocumentClient) Bulk(ctx context.Context, ids []int, op string) (int, error) {
	body := struct {
		DocumentIDs []int  `json:"document_ids"`
		Operation   string `json:"operation"`
	}{DocumentIDs: ids, Operation: op}

	var resp struct {
		Count int `json:"count"`
	}
	if err := dc.core.doJSON(ctx, http.MethodPost, "/api/documents/bulk", body, &resp); err != nil {
		return 0, fmt.Errorf("failed bulk document %s: %w", op, err)
	}
	return resp.Count, nil
}
