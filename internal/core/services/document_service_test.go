package services

import (
	"context"
	"testing"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/internal/core/ports/mocks"
)

func newDocumentService(api *mocks.MockDocumentAPI, cache *mocks.MockCacheRepository) *DocumentService {
	return NewDocumentService(api, cache, 30*time.Minute)
}

func TestDocumentService_List(t *testing.T) {
	tests := []struct {
		name          string
		request       ListDocumentsRequest
		setupMocks    func(*mocks.MockDocumentAPI, *mocks.MockCacheRepository)
		expectedCount int
		wantUnread    int
		wantFromCache bool
		wantOffline   bool
		expectError   bool
	}{
		{
			name:    "live listing counts unread",
			request: ListDocumentsRequest{},
			setupMocks: func(api *mocks.MockDocumentAPI, cache *mocks.MockCacheRepository) {
				api.Seed(domain.Document{ID: 1, Type: "maintenance_form", Status: "unread"})
				api.Seed(domain.Document{ID: 2, Type: "transfer_form", Status: "read"})
			},
			expectedCount: 2,
			wantUnread:    1,
		},
		{
			name:    "unread only filter keeps the full unread count",
			request: ListDocumentsRequest{UnreadOnly: true},
			setupMocks: func(api *mocks.MockDocumentAPI, cache *mocks.MockCacheRepository) {
				api.Seed(domain.Document{ID: 1, Status: "unread"})
				api.Seed(domain.Document{ID: 2, Status: "read"})
				api.Seed(domain.Document{ID: 3, Status: "unread"})
			},
			expectedCount: 2,
			wantUnread:    2,
		},
		{
			name:    "fresh cache keyed by box",
			request: ListDocumentsRequest{Box: "sent"},
			setupMocks: func(api *mocks.MockDocumentAPI, cache *mocks.MockCacheRepository) {
				cache.SeedAt(documentCacheKey("sent"), []domain.Document{
					{ID: 7, Status: "read"},
				}, time.Now())
			},
			expectedCount: 1,
			wantFromCache: true,
		},
		{
			name:    "offline stale fallback",
			request: ListDocumentsRequest{},
			setupMocks: func(api *mocks.MockDocumentAPI, cache *mocks.MockCacheRepository) {
				api.SetFailWith(ports.ErrOffline)
				cache.SeedAt(documentCacheKey("inbox"), []domain.Document{
					{ID: 1, Status: "unread"},
				}, time.Now().Add(-2*time.Hour))
			},
			expectedCount: 1,
			wantUnread:    1,
			wantFromCache: true,
			wantOffline:   true,
		},
		{
			name:    "offline with no cache fails",
			request: ListDocumentsRequest{},
			setupMocks: func(api *mocks.MockDocumentAPI, cache *mocks.MockCacheRepository) {
				api.SetFailWith(ports.ErrOffline)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := mocks.NewMockDocumentAPI()
			cache := mocks.NewMockCacheRepository()
			tt.setupMocks(api, cache)

			svc := newDocumentService(api, cache)
			resp, err := svc.List(context.Background(), tt.request)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if resp.Total != tt.expectedCount {
				t.Errorf("Total = %d, want %d", resp.Total, tt.expectedCount)
			}
			if resp.Unread != tt.wantUnread {
				t.Errorf("Unread = %d, want %d", resp.Unread, tt.wantUnread)
			}
			if resp.FromCache != tt.wantFromCache {
				t.Errorf("FromCache = %v, want %v", resp.FromCache, tt.wantFromCache)
			}
			if resp.Offline != tt.wantOffline {
				t.Errorf("Offline = %v, want %v", resp.Offline, tt.wantOffline)
			}
		})
	}
}

func TestDocumentService_Read(t *testing.T) {
	t.Run("unread document gets marked read", func(t *testing.T) {
		api := mocks.NewMockDocumentAPI()
		api.Seed(domain.Document{ID: 3, Status: "unread", Description: "leaking gasket on the LMTV"})
		svc := newDocumentService(api, mocks.NewMockCacheRepository())

		resp, err := svc.Read(context.Background(), 3)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if !resp.MarkedRead {
			t.Error("expected MarkedRead")
		}
		if resp.Document.Status != domain.DocumentStatusRead {
			t.Errorf("Status = %q, want read", resp.Document.Status)
		}
	})

	t.Run("already read document is untouched", func(t *testing.T) {
		api := mocks.NewMockDocumentAPI()
		api.Seed(domain.Document{ID: 3, Status: "read"})
		svc := newDocumentService(api, mocks.NewMockCacheRepository())

		resp, err := svc.Read(context.Background(), 3)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if resp.MarkedRead {
			t.Error("MarkedRead should be false for an already-read document")
		}
	})

	t.Run("missing document", func(t *testing.T) {
		svc := newDocumentService(mocks.NewMockDocumentAPI(), mocks.NewMockCacheRepository())
		if _, err := svc.Read(context.Background(), 404); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestDocumentService_Archive(t *testing.T) {
	api := mocks.NewMockDocumentAPI()
	api.Seed(domain.Document{ID: 3, Status: "read"})
	cache := mocks.NewMockCacheRepository()
	cache.SeedAt(documentCacheKey("inbox"), []domain.Document{{ID: 3, Status: "read"}}, time.Now())
	svc := newDocumentService(api, cache)

	doc, err := svc.Archive(context.Background(), 3)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if doc.Status != domain.DocumentStatusArchived {
		t.Errorf("Status = %q, want archived", doc.Status)
	}

	// Archiving moves the document between boxes, so every box cache goes
	var cached []domain.Document
	if _, err := cache.Get(context.Background(), documentCacheKey("inbox"), &cached); err == nil {
		t.Error("archive should invalidate the inbox cache")
	}
}

func TestDocumentService_SendMaintenance(t *testing.T) {
	validInput := domain.MaintenanceFormInput{
		PropertyID:      3,
		RecipientUserID: 8,
		FormType:        domain.FormSubtypeDA2404,
		Description:     "deadlined, brakes unserviceable",
	}

	t.Run("valid form", func(t *testing.T) {
		api := mocks.NewMockDocumentAPI()
		svc := newDocumentService(api, mocks.NewMockCacheRepository())

		resp, err := svc.SendMaintenance(context.Background(), SendMaintenanceRequest{Input: validInput})
		if err != nil {
			t.Fatalf("SendMaintenance() error = %v", err)
		}
		if resp.Document.Type != domain.DocumentTypeMaintenance {
			t.Errorf("Type = %q", resp.Document.Type)
		}
		if resp.Document.Subtype != domain.FormSubtypeDA2404 {
			t.Errorf("Subtype = %q", resp.Document.Subtype)
		}
		if resp.Document.Status != domain.DocumentStatusUnread {
			t.Errorf("Status = %q, want unread", resp.Document.Status)
		}
	})

	t.Run("invalid form type", func(t *testing.T) {
		input := validInput
		input.FormType = "DA9999"
		svc := newDocumentService(mocks.NewMockDocumentAPI(), mocks.NewMockCacheRepository())
		if _, err := svc.SendMaintenance(context.Background(), SendMaintenanceRequest{Input: input}); err == nil {
			t.Fatal("expected error for unknown form type")
		}
	})
}

func TestDocumentService_Bulk(t *testing.T) {
	t.Run("bulk read", func(t *testing.T) {
		api := mocks.NewMockDocumentAPI()
		api.Seed(domain.Document{ID: 1, Status: "unread"})
		api.Seed(domain.Document{ID: 2, Status: "unread"})
		svc := newDocumentService(api, mocks.NewMockCacheRepository())

		count, err := svc.Bulk(context.Background(), []int{1, 2}, domain.BulkOpRead)
		if err != nil {
			t.Fatalf("Bulk() error = %v", err)
		}
		if count != 2 {
			t.Errorf("count = %d, want 2", count)
		}
	})

	t.Run("unknown operation", func(t *testing.T) {
		svc := newDocumentService(mocks.NewMockDocumentAPI(), mocks.NewMockCacheRepository())
		if _, err := svc.Bulk(context.Background(), []int{1}, "shred"); err == nil {
			t.Fatal("expected error for unknown op")
		}
	})

	t.Run("empty id list", func(t *testing.T) {
		svc := newDocumentService(mocks.NewMockDocumentAPI(), mocks.NewMockCacheRepository())
		if _, err := svc.Bulk(context.Background(), nil, domain.BulkOpRead); err == nil {
			t.Fatal("expected error for empty ids")
		}
	})
}
