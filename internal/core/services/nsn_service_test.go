package services

import (
	"context"
	"errors"
	"testing"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/internal/core/ports/mocks"
)

const nvgNSN = "5855-01-534-1337"

func nvgRecord() domain.NSNRecord {
	return domain.NSNRecord{
		NSN:          nvgNSN,
		LIN:          "N05482",
		Nomenclature: "MONOCULAR NIGHT VISION AN/PVS-14",
		UnitPrice:    3421.50,
	}
}

func TestNSNService_Lookup(t *testing.T) {
	tests := []struct {
		name        string
		nsn         string
		setupMocks  func(*mocks.MockReferenceAPI, *mocks.MockCatalogRepository)
		wantSource  string
		wantLookups int
		wantPuts    int
		expectError bool
	}{
		{
			name: "catalog hit skips the server",
			nsn:  nvgNSN,
			setupMocks: func(api *mocks.MockReferenceAPI, catalog *mocks.MockCatalogRepository) {
				catalog.Seed(nvgRecord())
			},
			wantSource: NSNSourceCatalog,
		},
		{
			name: "catalog miss goes to the server and writes through",
			nsn:  nvgNSN,
			setupMocks: func(api *mocks.MockReferenceAPI, catalog *mocks.MockCatalogRepository) {
				api.Seed(nvgRecord())
			},
			wantSource:  NSNSourceServer,
			wantLookups: 1,
			wantPuts:    1,
		},
		{
			name: "undashed input is normalized before lookup",
			nsn:  "5855015341337",
			setupMocks: func(api *mocks.MockReferenceAPI, catalog *mocks.MockCatalogRepository) {
				catalog.Seed(nvgRecord())
			},
			wantSource: NSNSourceCatalog,
		},
		{
			name: "offline miss names the catalog gap",
			nsn:  nvgNSN,
			setupMocks: func(api *mocks.MockReferenceAPI, catalog *mocks.MockCatalogRepository) {
				api.SetFailWith(ports.ErrOffline)
			},
			wantLookups: 1,
			expectError: true,
		},
		{
			name:        "short NSN rejected",
			nsn:         "5855-01-534",
			setupMocks:  func(api *mocks.MockReferenceAPI, catalog *mocks.MockCatalogRepository) {},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := mocks.NewMockReferenceAPI()
			catalog := mocks.NewMockCatalogRepository()
			tt.setupMocks(api, catalog)

			svc := NewNSNService(api, catalog)
			resp, err := svc.Lookup(context.Background(), tt.nsn)

			if got := len(api.Lookups()); got != tt.wantLookups {
				t.Errorf("server lookups = %d, want %d", got, tt.wantLookups)
			}
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if resp.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", resp.Source, tt.wantSource)
			}
			if resp.Record.NSN != nvgNSN {
				t.Errorf("NSN = %q, want %q", resp.Record.NSN, nvgNSN)
			}
			if got := len(catalog.Puts()); got != tt.wantPuts {
				t.Errorf("catalog puts = %d, want %d", got, tt.wantPuts)
			}
		})
	}
}

func TestNSNService_LookupOfflineError(t *testing.T) {
	api := mocks.NewMockReferenceAPI()
	api.SetFailWith(ports.ErrOffline)
	svc := NewNSNService(api, mocks.NewMockCatalogRepository())

	_, err := svc.Lookup(context.Background(), nvgNSN)
	if !errors.Is(err, ports.ErrOffline) {
		t.Fatalf("error = %v, want wrapped ErrOffline", err)
	}
}

func TestNSNService_Search(t *testing.T) {
	t.Run("local catalog answers first", func(t *testing.T) {
		api := mocks.NewMockReferenceAPI()
		api.Seed(nvgRecord())
		catalog := mocks.NewMockCatalogRepository()
		catalog.Seed(nvgRecord())

		svc := NewNSNService(api, catalog)
		resp, err := svc.Search(context.Background(), SearchNSNRequest{Query: "night vision"})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if resp.Source != NSNSourceCatalog {
			t.Errorf("Source = %q, want catalog", resp.Source)
		}
		if len(resp.Records) != 1 {
			t.Errorf("Records = %d, want 1", len(resp.Records))
		}
	})

	t.Run("server results are written through", func(t *testing.T) {
		api := mocks.NewMockReferenceAPI()
		api.Seed(nvgRecord())
		catalog := mocks.NewMockCatalogRepository()

		svc := NewNSNService(api, catalog)
		resp, err := svc.Search(context.Background(), SearchNSNRequest{Query: "night vision"})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if resp.Source != NSNSourceServer {
			t.Errorf("Source = %q, want server", resp.Source)
		}
		if got := catalog.Puts(); len(got) != 1 || got[0] != nvgNSN {
			t.Errorf("catalog puts = %v", got)
		}
	})

	t.Run("offline search degrades instead of failing", func(t *testing.T) {
		api := mocks.NewMockReferenceAPI()
		api.SetFailWith(ports.ErrOffline)

		svc := NewNSNService(api, mocks.NewMockCatalogRepository())
		resp, err := svc.Search(context.Background(), SearchNSNRequest{Query: "night vision"})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if !resp.Offline {
			t.Error("expected Offline")
		}
		if len(resp.Records) != 0 {
			t.Errorf("Records = %d, want 0", len(resp.Records))
		}
	})

	t.Run("empty query rejected", func(t *testing.T) {
		svc := NewNSNService(mocks.NewMockReferenceAPI(), mocks.NewMockCatalogRepository())
		if _, err := svc.Search(context.Background(), SearchNSNRequest{Query: "  "}); err == nil {
			t.Fatal("expected error for empty query")
		}
	})
}

func TestNormalizeNSN(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "canonical form unchanged", input: "5855-01-534-1337", want: "5855-01-534-1337"},
		{name: "bare digits get dashes", input: "5855015341337", want: "5855-01-534-1337"},
		{name: "spaces and stray separators stripped", input: " 5855 01 534 1337 ", want: "5855-01-534-1337"},
		{name: "too short", input: "585501534", wantErr: true},
		{name: "too long", input: "58550153413371", wantErr: true},
		{name: "letters are not digits", input: "5855-01-534-ABCD", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeNSN(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeNSN(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeNSN(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeNSN(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNSNService_CatalogCount(t *testing.T) {
	catalog := mocks.NewMockCatalogRepository()
	catalog.Seed(nvgRecord())
	svc := NewNSNService(mocks.NewMockReferenceAPI(), catalog)

	n, err := svc.CatalogCount(context.Background())
	if err != nil {
		t.Fatalf("CatalogCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CatalogCount() = %d, want 1", n)
	}
}
