package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// ReferenceClient implements the NSN reference endpoints
type ReferenceClient struct {
	core *Client
}

// NewReferenceClient creates a new reference API adapter
func NewReferenceClient(core *Client) *ReferenceClient {
	return &ReferenceClient{core: core}
}

// Ensure it implements the interface
var _ ports.ReferenceAPI = (*ReferenceClient)(nil)

// LookupNSN fetches catalog data for one NSN
func (rc *ReferenceClient) LookupNSN(ctx context.Context, nsn string) (*domain.NSNRecord, error) {
	var resp struct {
		Success bool         `json:"success"`
		Data    nsnRecordDTO `json:"data"`
	}
	path := "/api/nsn/" + url.PathEscape(nsn)
	if err := rc.core.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to look up NSN %s: %w", nsn, err)
	}

	record := toDomainNSNRecord(&resp.Data)
	return &record, nil
}

// SearchNSN searches the catalog by nomenclature
func (rc *ReferenceClient) SearchNSN(ctx context.Context, query string, limit int) ([]domain.NSNRecord, error) {
	path := fmt.Sprintf("/api/nsn/search?q=%s&limit=%d", url.QueryEscape(query), limit)

	var resp struct {
		Success bool           `json:"success"`
		Data    []nsnRecordDTO `json:"data"`
		Count   int            `json:"count"`
	}
	if err := rc.core.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to search NSN catalog: %w", err)
	}

	out := make([]domain.NSNRecord, 0, len(resp.Data))
	for i := range resp.Data {
		out = append(out, toDomainNSNRecord(&resp.Data[i]))
	}
	return out, nil
}
