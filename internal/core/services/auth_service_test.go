package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/internal/core/ports/mocks"
)

func testSession() *ports.Session {
	return &ports.Session{
		AccessToken: "tok-abc",
		ExpiresAt:   time.Now().Add(24 * time.Hour),
		UserID:      7,
		Email:       "reyes@example.mil",
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Run("stores the session and drops stale cache", func(t *testing.T) {
		api := mocks.NewMockAuthAPI()
		api.SetSession(testSession())
		api.SetUser(&domain.User{ID: 7, Name: "SGT Alice Reyes"})
		tokens := mocks.NewMockTokenStore()
		cache := mocks.NewMockCacheRepository()
		cache.SeedAt(propertyCacheKey, []domain.Property{{ID: 99}}, time.Now())

		svc := NewAuthService(api, tokens, cache)
		resp, err := svc.Login(context.Background(), LoginRequest{Email: "reyes@example.mil", Password: "hunter2"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.User == nil || resp.User.ID != 7 {
			t.Errorf("User = %+v", resp.User)
		}

		saved, err := tokens.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if saved.AccessToken != "tok-abc" {
			t.Errorf("AccessToken = %q", saved.AccessToken)
		}

		// The old account's listings must not leak into the new session
		var cached []domain.Property
		if _, err := cache.Get(context.Background(), propertyCacheKey, &cached); err == nil {
			t.Error("login should invalidate all cached collections")
		}
	})

	t.Run("profile fetch failure does not undo the login", func(t *testing.T) {
		api := mocks.NewMockAuthAPI()
		api.SetSession(testSession())
		// no SetUser: Me returns ErrUnauthorized
		tokens := mocks.NewMockTokenStore()

		svc := NewAuthService(api, tokens, mocks.NewMockCacheRepository())
		resp, err := svc.Login(context.Background(), LoginRequest{Email: "reyes@example.mil", Password: "hunter2"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.User != nil {
			t.Error("no user expected when the profile fetch fails")
		}
		if resp.ExpiresAt.IsZero() {
			t.Error("expiry should still be reported")
		}
		if _, err := tokens.Load(); err != nil {
			t.Errorf("session should be stored, Load() error = %v", err)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		api := mocks.NewMockAuthAPI()
		// no SetSession: Login returns ErrUnauthorized
		tokens := mocks.NewMockTokenStore()
		svc := NewAuthService(api, tokens, mocks.NewMockCacheRepository())

		_, err := svc.Login(context.Background(), LoginRequest{Email: "reyes@example.mil", Password: "wrong"})
		if !errors.Is(err, ports.ErrUnauthorized) {
			t.Fatalf("error = %v, want wrapped ErrUnauthorized", err)
		}
		if _, err := tokens.Load(); !errors.Is(err, ports.ErrNoSession) {
			t.Error("failed login must not store a session")
		}
	})

	t.Run("empty credentials rejected locally", func(t *testing.T) {
		api := mocks.NewMockAuthAPI()
		svc := NewAuthService(api, mocks.NewMockTokenStore(), mocks.NewMockCacheRepository())

		if _, err := svc.Login(context.Background(), LoginRequest{Email: " ", Password: "x"}); err == nil {
			t.Error("expected error for empty email")
		}
		if _, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.mil"}); err == nil {
			t.Error("expected error for empty password")
		}
		if len(api.Calls()) != 0 {
			t.Errorf("API was called %v for invalid input", api.Calls())
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("clears tokens and tells the server", func(t *testing.T) {
		api := mocks.NewMockAuthAPI()
		tokens := mocks.NewMockTokenStore()
		if err := tokens.Save(testSession()); err != nil {
			t.Fatal(err)
		}

		svc := NewAuthService(api, tokens, mocks.NewMockCacheRepository())
		resp, err := svc.Logout(context.Background())
		if err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if !resp.ServerNotified {
			t.Error("expected ServerNotified")
		}
		if _, err := tokens.Load(); !errors.Is(err, ports.ErrNoSession) {
			t.Error("tokens should be cleared")
		}
	})

	t.Run("offline logout still clears tokens", func(t *testing.T) {
		api := mocks.NewMockAuthAPI()
		api.SetFailWith(ports.ErrOffline)
		tokens := mocks.NewMockTokenStore()
		if err := tokens.Save(testSession()); err != nil {
			t.Fatal(err)
		}

		svc := NewAuthService(api, tokens, mocks.NewMockCacheRepository())
		resp, err := svc.Logout(context.Background())
		if err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if resp.ServerNotified {
			t.Error("server cannot have been notified while offline")
		}
		if _, err := tokens.Load(); !errors.Is(err, ports.ErrNoSession) {
			t.Error("tokens should be cleared even when the server is unreachable")
		}
	})

	t.Run("expired session logout clears tokens", func(t *testing.T) {
		api := mocks.NewMockAuthAPI()
		api.SetFailWith(ports.ErrUnauthorized)
		tokens := mocks.NewMockTokenStore()
		if err := tokens.Save(testSession()); err != nil {
			t.Fatal(err)
		}

		svc := NewAuthService(api, tokens, mocks.NewMockCacheRepository())
		if _, err := svc.Logout(context.Background()); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if _, err := tokens.Load(); !errors.Is(err, ports.ErrNoSession) {
			t.Error("tokens should be cleared for a dead session")
		}
	})
}

func TestAuthService_WhoAmI(t *testing.T) {
	t.Run("live profile", func(t *testing.T) {
		api := mocks.NewMockAuthAPI()
		api.SetUser(&domain.User{ID: 7, Name: "SGT Alice Reyes", Rank: "SGT"})
		tokens := mocks.NewMockTokenStore()
		if err := tokens.Save(testSession()); err != nil {
			t.Fatal(err)
		}

		svc := NewAuthService(api, tokens, mocks.NewMockCacheRepository())
		resp, err := svc.WhoAmI(context.Background())
		if err != nil {
			t.Fatalf("WhoAmI() error = %v", err)
		}
		if resp.User == nil || resp.User.ID != 7 {
			t.Errorf("User = %+v", resp.User)
		}
		if resp.Offline {
			t.Error("Offline should be false")
		}
		if resp.ExpiresIn <= 0 {
			t.Errorf("ExpiresIn = %v, want positive", resp.ExpiresIn)
		}
	})

	t.Run("offline falls back to the stored session", func(t *testing.T) {
		api := mocks.NewMockAuthAPI()
		api.SetFailWith(ports.ErrOffline)
		tokens := mocks.NewMockTokenStore()
		if err := tokens.Save(testSession()); err != nil {
			t.Fatal(err)
		}

		svc := NewAuthService(api, tokens, mocks.NewMockCacheRepository())
		resp, err := svc.WhoAmI(context.Background())
		if err != nil {
			t.Fatalf("WhoAmI() error = %v", err)
		}
		if !resp.Offline {
			t.Error("expected Offline")
		}
		if resp.Session == nil || resp.Session.Email != "reyes@example.mil" {
			t.Errorf("Session = %+v", resp.Session)
		}
	})

	t.Run("no session", func(t *testing.T) {
		svc := NewAuthService(mocks.NewMockAuthAPI(), mocks.NewMockTokenStore(), mocks.NewMockCacheRepository())
		if _, err := svc.WhoAmI(context.Background()); !errors.Is(err, ports.ErrNoSession) {
			t.Fatalf("error = %v, want ErrNoSession", err)
		}
	})
}
