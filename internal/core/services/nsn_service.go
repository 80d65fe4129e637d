package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// Record sources reported by NSN lookups.
const (
	NSNSourceCatalog = "catalog"
	NSNSourceServer  = "server"
)

// NSNService answers National Stock Number lookups, catalog-first. The
// reference data changes rarely, so every server answer is written through
// to the local catalog and later lookups work offline.
type NSNService struct {
	api     ports.ReferenceAPI
	catalog ports.CatalogRepository
}

// NewNSNService creates a new NSN reference service
func NewNSNService(api ports.ReferenceAPI, catalog ports.CatalogRepository) *NSNService {
	return &NSNService{
		api:     api,
		catalog: catalog,
	}
}

// LookupNSNResponse carries the record and where it came from
type LookupNSNResponse struct {
	Record *domain.NSNRecord
	Source string // "catalog" or "server"
}

// Lookup resolves one NSN, local catalog first, then the server with
// write-through.
func (s *NSNService) Lookup(ctx context.Context, nsn string) (*LookupNSNResponse, error) {
	normalized, err := NormalizeNSN(nsn)
	if err != nil {
		return nil, err
	}

	record, err := s.catalog.Get(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if record != nil {
		return &LookupNSNResponse{Record: record, Source: NSNSourceCatalog}, nil
	}

	record, err = s.api.LookupNSN(ctx, normalized)
	if err != nil {
		if errors.Is(err, ports.ErrOffline) {
			return nil, fmt.Errorf("%s is not in the local catalog and the server is unreachable: %w", normalized, err)
		}
		return nil, fmt.Errorf("failed to look up %s: %w", normalized, err)
	}

	_ = s.catalog.Put(ctx, record)
	return &LookupNSNResponse{Record: record, Source: NSNSourceServer}, nil
}

// SearchNSNRequest searches reference data by nomenclature
type SearchNSNRequest struct {
	Query string
	Limit int
}

// SearchNSNResponse carries matches and their source
type SearchNSNResponse struct {
	Records []domain.NSNRecord
	Source  string
	Offline bool // server search skipped because it was unreachable
}

// Search queries the local catalog first and falls back to the server,
// writing server hits through to the catalog.
func (s *NSNService) Search(ctx context.Context, req SearchNSNRequest) (*SearchNSNResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	local, err := s.catalog.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}
	if len(local) > 0 {
		return &SearchNSNResponse{Records: local, Source: NSNSourceCatalog}, nil
	}

	records, err := s.api.SearchNSN(ctx, query, limit)
	if err != nil {
		if errors.Is(err, ports.ErrOffline) {
			return &SearchNSNResponse{Records: nil, Source: NSNSourceCatalog, Offline: true}, nil
		}
		return nil, fmt.Errorf("failed to search reference data: %w", err)
	}

	for i := range records {
		_ = s.catalog.Put(ctx, &records[i])
	}
	return &SearchNSNResponse{Records: records, Source: NSNSourceServer}, nil
}

// CatalogCount reports how many records the local catalog holds.
func (s *NSNService) CatalogCount(ctx context.Context) (int, error) {
	n, err := s.catalog.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count catalog: %w", err)
	}
	return n, nil
}

// NormalizeNSN accepts an NSN with or without dashes and returns the
// canonical 4-2-3-4 dashed form.
func NormalizeNSN(nsn string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, nsn)
	if len(cleaned) != 13 {
		return "", fmt.Errorf("an NSN has 13 digits, got %d", len(cleaned))
	}
	formatted := fmt.Sprintf("%s-%s-%s-%s", cleaned[0:4], cleaned[4:6], cleaned[6:9], cleaned[9:13])
	if err := domain.ValidateNSN(formatted); err != nil {
		return "", err
	}
	return formatted, nil
}
