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

// AuthService manages the login session: tokens in the vault, profile from
// the server.
type AuthService struct {
	api    ports.AuthAPI
	tokens ports.TokenStore
	cache  ports.CacheRepository
}

// NewAuthService creates a new auth service
func NewAuthService(api ports.AuthAPI, tokens ports.TokenStore, cache ports.CacheRepository) *AuthService {
	return &AuthService{
		api:    api,
		tokens: tokens,
		cache:  cache,
	}
}

// LoginRequest exchanges credentials for a session
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse carries the session user and expiry
type LoginResponse struct {
	User      *domain.User
	ExpiresAt time.Time
}

// Login authenticates, stores the tokens, and drops any cached data from a
// previous session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}
	if req.Password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	session, err := s.api.Login(ctx, email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if err := s.tokens.Save(session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	// A different account must never see the previous account's cache
	_ = s.cache.InvalidateAll(ctx)

	user, err := s.api.Me(ctx)
	if err != nil {
		// Logged in but the profile fetch failed; the session still works
		return &LoginResponse{ExpiresAt: session.ExpiresAt}, nil
	}
	return &LoginResponse{User: user, ExpiresAt: session.ExpiresAt}, nil
}

// LogoutResponse reports whether the server saw the logout
type LogoutResponse struct {
	ServerNotified bool
}

// Logout clears the local session. The server call is best-effort: an
// unreachable server must not keep tokens on disk.
func (s *AuthService) Logout(ctx context.Context) (*LogoutResponse, error) {
	notified := false
	if err := s.api.Logout(ctx); err == nil {
		notified = true
	} else if !errors.Is(err, ports.ErrOffline) && !errors.Is(err, ports.ErrUnauthorized) {
		return nil, fmt.Errorf("logout failed: %w", err)
	}

	if err := s.tokens.Clear(); err != nil {
		return nil, fmt.Errorf("failed to clear session: %w", err)
	}
	_ = s.cache.InvalidateAll(ctx)
	return &LogoutResponse{ServerNotified: notified}, nil
}

// WhoAmIResponse describes the current session
type WhoAmIResponse struct {
	User      *domain.User
	Session   *ports.Session
	Offline   bool // profile served from the stored session only
	ExpiresIn time.Duration
}

// WhoAmI reports the session user. Offline, it falls back to what the
// stored session knows.
func (s *AuthService) WhoAmI(ctx context.Context) (*WhoAmIResponse, error) {
	session, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}

	resp := &WhoAmIResponse{Session: session}
	if !session.ExpiresAt.IsZero() {
		resp.ExpiresIn = time.Until(session.ExpiresAt)
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrOffline) {
			resp.Offline = true
			return resp, nil
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	resp.User = user
	return resp, nil
}
