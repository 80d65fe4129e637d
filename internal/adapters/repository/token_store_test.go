package repository

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/handreceipt/hr-cli/internal/core/ports"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	store := NewTokenStore(testVault(t))

	session := &ports.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		UserID:       7,
		Email:        "user@example.mil",
	}
	if err := store.Save(session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.AccessToken != "access-1" || loaded.UserID != 7 {
		t.Errorf("Load() = %+v", loaded)
	}
	if !loaded.ExpiresAt.Equal(session.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", loaded.ExpiresAt, session.ExpiresAt)
	}
}

func TestTokenStoreFilePermissions(t *testing.T) {
	v := testVault(t)
	store := NewTokenStore(v)

	store.Save(&ports.Session{AccessToken: "secret"})

	info, err := os.Stat(v.TokensPath())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("tokens file mode = %o, want 0600", perm)
	}
}

func TestTokenStoreNoSession(t *testing.T) {
	store := NewTokenStore(testVault(t))

	if _, err := store.Load(); !errors.Is(err, ports.ErrNoSession) {
		t.Errorf("Load() on fresh store = %v, want ErrNoSession", err)
	}
}

func TestTokenStoreClear(t *testing.T) {
	store := NewTokenStore(testVault(t))

	store.Save(&ports.Session{AccessToken: "about-to-go"})
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ports.ErrNoSession) {
		t.Errorf("Load() after Clear() = %v, want ErrNoSession", err)
	}

	// Clearing twice is a no-op
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestTokenStoreDerivesExpiryFromJWT(t *testing.T) {
	store := NewTokenStore(testVault(t))

	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	// No ExpiresAt on the session: the store reads the exp claim
	if err := store.Save(&ports.Session{AccessToken: signed, UserID: 7}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v from exp claim", loaded.ExpiresAt, exp)
	}
}

func TestTokenStoreKeepsExplicitExpiry(t *testing.T) {
	store := NewTokenStore(testVault(t))

	explicit := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(5 * time.Minute).Unix(),
	})
	signed, _ := token.SignedString([]byte("test-key"))

	store.Save(&ports.Session{AccessToken: signed, ExpiresAt: explicit})

	loaded, _ := store.Load()
	if !loaded.ExpiresAt.Equal(explicit) {
		t.Errorf("ExpiresAt = %v, want explicit %v to win over the claim", loaded.ExpiresAt, explicit)
	}
}
