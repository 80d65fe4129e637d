package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// PropertyClient implements the property endpoints over the shared transport
type PropertyClient struct {
	core *Client
}

// NewPropertyClient creates a new property API adapter
func NewPropertyClient(core *Client) *PropertyClient {
	return &PropertyClient{core: core}
}

// Ensure it implements the interface
var _ ports.PropertyAPI = (*PropertyClient)(nil)

// List returns all properties assigned to the session user
func (p *PropertyClient) List(ctx context.Context) ([]domain.Property, error) {
	var dtos []propertyDTO
	if err := p.core.doJSON(ctx, http.MethodGet, "/api/property", nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	out := make([]domain.Property, 0, len(dtos))
	for i := range dtos {
		out = append(out, toDomainProperty(&dtos[i]))
	}
	return out, nil
}

// Get retrieves a property by id
func (p *PropertyClient) Get(ctx context.Context, id int) (*domain.Property, error) {
	var dto propertyDTO
	if err := p.core.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/property/%d", id), nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to get property %d: %w", id, err)
	}
	prop := toDomainProperty(&dto)
	return &prop, nil
}

// GetBySerial retrieves a property by serial number
func (p *PropertyClient) GetBySerial(ctx context.Context, serial string) (*domain.Property, error) {
	path := "/api/property/serial/" + url.PathEscape(serial)
	var dto propertyDTO
	if err := p.core.doJSON(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to get property by serial: %w", err)
	}
	prop := toDomainProperty(&dto)
	return &prop, nil
}

// Create creates a new property record
func (p *PropertyClient) Create(ctx context.Context, input domain.PropertyInput) (*domain.Property, error) {
	var dto propertyDTO
	if err := p.core.doJSON(ctx, http.MethodPost, "/api/property", toWirePropertyInput(input), &dto); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	prop := toDomainProperty(&dto)
	return &prop, nil
}

// UpdateStatus changes a property's status
func (p *PropertyClient) UpdateStatus(ctx context.Context, id int, status string) (*domain.Property, error) {
	body := struct {
		Status string `json:"status"`
	}{Status: status}

	var dto propertyDTO
	path := fmt.Sprintf("/api/property/%d/status", id)
	if err := p.core.doJSON(ctx, http.MethodPatch, path, body, &dto); err != nil {
		return nil, fmt.Errorf("failed to update property status: %w", err)
	}
	prop := toDomainProperty(&dto)
	return &prop, nil
}

// Verify marks a property as verified by the session user
func (p *PropertyClient) Verify(ctx context.Context, id int) (*domain.Property, error) {
	var dto propertyDTO
	path := fmt.Sprintf("/api/property/%d/verify", id)
	if err := p.core.doJSON(ctx, http.MethodPost, path, nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to verify property: %w", err)
	}
	prop := toDomainProperty(&dto)
	return &prop, nil
}

// AttachPhoto uploads a photo for a property and returns its URL
func (p *PropertyClient) AttachPhoto(ctx context.Context, id int, filename string, photo io.Reader) (string, error) {
	var resp struct {
		PhotoURL string `json:"photo_url"`
	}
	path := fmt.Sprintf("/api/property/%d/photo", id)
	if err := p.core.doMultipart(ctx, path, "photo", filename, photo, nil, &resp); err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	return resp.PhotoURL, nil
}
