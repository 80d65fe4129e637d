package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/pkg/vault"
)

// TokenStore persists the session tokens as a mode 0600 JSON file. It is
// handed to every consumer explicitly; nothing reads tokens through
// package globals.
type TokenStore struct {
	path string
	mu   sync.RWMutex
}

// NewTokenStore creates a token store backed by the vault tokens file
func NewTokenStore(vault *vault.Vault) *TokenStore {
	return &TokenStore{path: vault.TokensPath()}
}

// Ensure it implements the interface
var _ ports.TokenStore = (*TokenStore)(nil)

// Save persists the session. When the server response carried no expiry,
// the access token's exp claim fills it in.
func (t *TokenStore) Save(session *ports.Session) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cp := *session
	if cp.ExpiresAt.IsZero() {
		if exp, ok := tokenExpiry(cp.AccessToken); ok {
			cp.ExpiresAt = exp
		}
	}

	data, err := json.MarshalIndent(&cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write tokens file: %w", err)
	}
	return nil
}

// Load returns the stored session, or ErrNoSession
func (t *TokenStore) Load() (*ports.Session, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return nil, ports.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tokens file: %w", err)
	}

	var session ports.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse tokens file: %w", err)
	}
	if session.AccessToken == "" {
		return nil, ports.ErrNoSession
	}
	return &session, nil
}

// Clear removes the stored session
func (t *TokenStore) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := os.Remove(t.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove tokens file: %w", err)
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature. The
// client never holds the signing key; the claim is only used to warn
// before the server would reject the token anyway.
func tokenExpiry(accessToken string) (time.Time, bool) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
