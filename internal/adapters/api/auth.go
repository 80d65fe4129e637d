package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// AuthClient implements the session endpoints
type AuthClient struct {
	core *Client
}

// NewAuthClient creates a new auth API adapter
func NewAuthClient(core *Client) *AuthClient {
	return &AuthClient{core: core}
}

// Ensure it implements the interface
var _ ports.AuthAPI = (*AuthClient)(nil)

// Login exchanges credentials for session tokens
func (ac *AuthClient) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp struct {
		AccessToken  string    `json:"access_token"`
		RefreshToken string    `json:"refresh_token"`
		ExpiresAt    time.Time `json:"expires_at"`
		User         userDTO   `json:"user"`
	}
	if err := ac.core.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return &ports.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt,
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
	}, nil
}

// Logout invalidates the server-side session
func (ac *AuthClient) Logout(ctx context.Context) error {
	if err := ac.core.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

// Me returns the profile of the session user
func (ac *AuthClient) Me(ctx context.Context) (*domain.User, error) {
	var dto userDTO
	if err := ac.core.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	user := toDomainUser(&dto)
	return &user, nil
}
