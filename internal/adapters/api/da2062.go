package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// ImportClient implements the DA 2062 scan and batch import endpoints
type ImportClient struct {
	core *Client
}

// NewImportClient creates a new import API adapter
func NewImportClient(core *Client) *ImportClient {
	return &ImportClient{core: core}
}

// Ensure it implements the interface
var _ ports.ImportAPI = (*ImportClient)(nil)

// batchItemDTO is one line of the batch create request. The metadata block
// tells the server how the item was scanned so review state survives.
type batchItemDTO struct {
	scanItemDTO
	ImportMetadata *importMetadataDTO `json:"import_metadata,omitempty"`
}

// UploadScan sends a form scan for server-side OCR and returns parsed items
func (ic *ImportClient) UploadScan(ctx context.Context, filename string, scan io.Reader) (*domain.ScanResult, error) {
	var dto scanResultDTO
	if err := ic.core.doMultipart(ctx, "/api/da2062/upload", "file", filename, scan, nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to upload scan: %w", err)
	}
	result := toDomainScanResult(&dto)
	return &result, nil
}

// ImportItems batch-creates properties from reviewed scan items. Items are
// reported individually; a failed item never rolls back its siblings.
func (ic *ImportClient) ImportItems(ctx context.Context, items []domain.ScanItem, sourceRef string) (*domain.ImportResult, error) {
	now := time.Now().UTC()

	wireItems := make([]batchItemDTO, 0, len(items))
	for _, item := range items {
		wire := batchItemDTO{scanItemDTO: toWireScanItem(item)}
		wire.ImportMetadata = &importMetadataDTO{
			Source:               "da2062_scan",
			ImportDate:           now,
			ItemConfidence:       item.Confidence,
			SerialSource:         item.SerialSource,
			RequiresVerification: item.NeedsReview,
		}
		wireItems = append(wireItems, wire)
	}

	body := struct {
		Items           []batchItemDTO `json:"items"`
		Source          string         `json:"source"`
		SourceReference string         `json:"source_reference,omitempty"`
	}{
		Items:           wireItems,
		Source:          "da2062_scan",
		SourceReference: sourceRef,
	}

	var resp struct {
		Items        []propertyDTO `json:"items"`
		CreatedCount int           `json:"created_count"`
		FailedCount  int           `json:"failed_count"`
		FailedItems  []struct {
			Item   scanItemDTO `json:"item"`
			Error  string      `json:"error"`
			Reason string      `json:"reason"`
		} `json:"failed_items"`
	}
	if err := ic.core.doJSON(ctx, http.MethodPost, "/api/da2062/import", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to import items: %w", err)
	}

	result := &domain.ImportResult{
		CreatedCount: resp.CreatedCount,
		FailedCount:  resp.FailedCount,
	}
	for i := range resp.Items {
		result.Created = append(result.Created, toDomainProperty(&resp.Items[i]))
	}
	for _, f := range resp.FailedItems {
		result.Failed = append(result.Failed, domain.FailedImport{
			Item: domain.ScanItem{
				Name:         f.Item.Name,
				Description:  f.Item.Description,
				SerialNumber: f.Item.SerialNumber,
				NSN:          f.Item.NSN,
				Quantity:     f.Item.Quantity,
				Unit:         f.Item.Unit,
				Category:     f.Item.Category,
				Confidence:   f.Item.Confidence,
				SerialSource: f.Item.SerialSource,
				NeedsReview:  f.Item.NeedsReview,
				SourceRef:    f.Item.SourceRef,
			},
			Reason: f.Reason,
			Error:  f.Error,
		})
	}
	return result, nil
}
