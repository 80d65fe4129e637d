package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// ConnectionClient implements the user connection endpoints
type ConnectionClient struct {
	core *Client
}

// NewConnectionClient creates a new connection API adapter
func NewConnectionClient(core *Client) *ConnectionClient {
	return &ConnectionClient{core: core}
}

// Ensure it implements the interface
var _ ports.ConnectionAPI = (*ConnectionClient)(nil)

// List returns the session user's connections in every status
func (cc *ConnectionClient) List(ctx context.Context) ([]domain.UserConnection, error) {
	var resp struct {
		Connections []connectionDTO `json:"connections"`
	}
	if err := cc.core.doJSON(ctx, http.MethodGet, "/api/users/connections", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	out := make([]domain.UserConnection, 0, len(resp.Connections))
	for i := range resp.Connections {
		out = append(out, toDomainConnection(&resp.Connections[i]))
	}
	return out, nil
}

// Request sends a connection request to a user
func (cc *ConnectionClient) Request(ctx context.Context, targetUserID int) (*domain.UserConnection, error) {
	body := struct {
		TargetUserID int `json:"target_user_id"`
	}{TargetUserID: targetUserID}

	var dto connectionDTO
	if err := cc.core.doJSON(ctx, http.MethodPost, "/api/users/connections", body, &dto); err != nil {
		return nil, fmt.Errorf("failed to send connection request: %w", err)
	}
	conn := toDomainConnection(&dto)
	return &conn, nil
}

// UpdateStatus accepts or blocks a connection
func (cc *ConnectionClient) UpdateStatus(ctx context.Context, id int, status string) (*domain.UserConnection, error) {
	body := struct {
		Status string `json:"status"`
	}{Status: status}

	var dto connectionDTO
	path := fmt.Sprintf("/api/users/connections/%d", id)
	if err := cc.core.doJSON(ctx, http.MethodPatch, path, body, &dto); err != nil {
		return nil, fmt.Errorf("failed to update connection: %w", err)
	}
	conn := toDomainConnection(&dto)
	return &conn, nil
}

// SearchUsers finds users by name, email, or unit
func (cc *ConnectionClient) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	path := "/api/users/search?q=" + url.QueryEscape(query)

	var resp struct {
		Users []userDTO `json:"users"`
	}
	if err := cc.core.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	out := make([]domain.User, 0, len(resp.Users))
	for i := range resp.Users {
		out = append(out, toDomainUser(&resp.Users[i]))
	}
	return out, nil
}
