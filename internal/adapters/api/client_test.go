package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/internal/core/ports/mocks"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := mocks.NewMockTokenStore()
	tokens.Save(&ports.Session{AccessToken: "test-token", UserID: 7, Email: "user@example.mil"})
	return New(srv.URL, 5*time.Second, tokens), srv
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]propertyDTO{})
	}))

	props := NewPropertyClient(client)
	if _, err := props.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-token")
	}
}

func TestClientOfflineClassification(t *testing.T) {
	// Point at a server that is already closed so the dial fails
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := New(url, 2*time.Second, nil)
	props := NewPropertyClient(client)

	_, err := props.List(context.Background())
	if !errors.Is(err, ports.ErrOffline) {
		t.Errorf("List() against closed server = %v, want ErrOffline", err)
	}
}

func TestClientHTTPErrorsAreNotOffline(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"error":"invalid credentials"}`,
			wantErr: ports.ErrUnauthorized,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{"error":"property not found"}`,
			wantErr: ports.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			props := NewPropertyClient(client)
			_, err := props.Get(context.Background(), 1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
			}
			if errors.Is(err, ports.ErrOffline) {
				t.Errorf("Get() classified HTTP %d as offline", tt.status)
			}
		})
	}
}

func TestClientServerErrorMessageSurfaces(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"database unavailable"}`))
	}))

	props := NewPropertyClient(client)
	_, err := props.List(context.Background())
	if err == nil {
		t.Fatal("List() expected error for 500 response")
	}
	if errors.Is(err, ports.ErrOffline) {
		t.Error("List() classified a 500 response as offline")
	}
	if !strings.Contains(err.Error(), "database unavailable") {
		t.Errorf("List() error %q missing server message", err)
	}
}

func TestClientCancelledContextIsNotOffline(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	props := NewPropertyClient(client)
	_, err := props.List(ctx)
	if err == nil {
		t.Fatal("List() expected error for cancelled context")
	}
	if errors.Is(err, ports.ErrOffline) {
		t.Error("List() classified context cancellation as offline")
	}
}

func TestPingTreatsAuthFailureAsOnline(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping() = %v, want nil for a reachable server", err)
	}
}

func TestPingOfflineWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := New(url, 2*time.Second, nil)
	if err := client.Ping(context.Background()); !errors.Is(err, ports.ErrOffline) {
		t.Errorf("Ping() = %v, want ErrOffline", err)
	}
}

func TestCreatePropertySendsSnakeCase(t *testing.T) {
	var got map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/property" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(propertyDTO{ID: 5, Name: "M4 Carbine", SerialNumber: "W123456", CurrentStatus: "active", Quantity: 1})
	}))

	props := NewPropertyClient(client)
	created, err := props.Create(context.Background(), domain.PropertyInput{
		Name:         "M4 Carbine",
		SerialNumber: "w123456",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got["serial_number"] != "W123456" {
		t.Errorf("wire serial_number = %v, want normalized W123456", got["serial_number"])
	}
	if got["quantity"] != float64(1) {
		t.Errorf("wire quantity = %v, want default 1", got["quantity"])
	}
	if created.ID != 5 || created.Status != "active" {
		t.Errorf("Create() = %+v, want id 5 status active", created)
	}
}

func TestAttachPhotoMultipart(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		file, header, err := r.FormFile("photo")
		if err != nil {
			t.Fatalf("FormFile() error = %v", err)
		}
		defer file.Close()
		if header.Filename != "rifle.jpg" {
			t.Errorf("filename = %q, want rifle.jpg", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"photo_url": "/photos/rifle.jpg"})
	}))

	props := NewPropertyClient(client)
	url, err := props.AttachPhoto(context.Background(), 3, "rifle.jpg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("AttachPhoto() error = %v", err)
	}
	if url != "/photos/rifle.jpg" {
		t.Errorf("AttachPhoto() url = %q", url)
	}
}

func TestLoginReturnsSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "user@example.mil" {
			t.Errorf("email = %q", creds["email"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"expires_at":    time.Now().Add(time.Hour).Format(time.RFC3339),
			"user":          map[string]any{"id": 7, "email": "user@example.mil", "first_name": "Jordan", "last_name": "Reyes"},
		})
	}))

	auth := NewAuthClient(client)
	session, err := auth.Login(context.Background(), "user@example.mil", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.AccessToken != "at-1" || session.UserID != 7 {
		t.Errorf("Login() session = %+v", session)
	}
}
