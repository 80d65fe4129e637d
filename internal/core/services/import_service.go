package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/internal/imaging"
)

// ErrDuplicatesFlagged tells the caller the batch has likely duplicates
// that need explicit confirmation before import.
var ErrDuplicatesFlagged = errors.New("likely duplicates flagged")

// ImportService turns DA 2062 scans into property records: upload for
// OCR, duplicate review against the property book, then batch import.
type ImportService struct {
	api        ports.ImportAPI
	properties ports.PropertyAPI
	threshold  float64
	maxDim     int
}

// NewImportService creates a new import service
func NewImportService(api ports.ImportAPI, properties ports.PropertyAPI, threshold float64, maxDim int) *ImportService {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.8
	}
	return &ImportService{
		api:        api,
		properties: properties,
		threshold:  threshold,
		maxDim:     maxDim,
	}
}

// ScanRequest names a scan file (image or PDF) or a pre-parsed items file
type ScanRequest struct {
	Path string
}

// ScanResponse carries the parsed items
type ScanResponse struct {
	Result   *domain.ScanResult
	Uploaded bool // false when the items came from a local JSON file
}

// Scan loads items from a file. JSON files are decoded locally; anything
// else is prepared and uploaded for server-side OCR.
func (s *ImportService) Scan(ctx context.Context, req ScanRequest) (*ScanResponse, error) {
	if strings.EqualFold(filepath.Ext(req.Path), ".json") {
		result, err := loadItemsFile(req.Path)
		if err != nil {
			return nil, err
		}
		return &ScanResponse{Result: result}, nil
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan: %w", err)
	}
	defer f.Close()

	scan, err := imaging.Prepare(f, s.maxDim)
	if err != nil {
		return nil, err
	}

	result, err := s.api.UploadScan(ctx, scan.Filename(req.Path), bytes.NewReader(scan.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to upload scan: %w", err)
	}
	return &ScanResponse{Result: result, Uploaded: true}, nil
}

// loadItemsFile accepts either a bare item array or a full scan result.
func loadItemsFile(path string) (*domain.ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	var items []domain.ScanItem
	if err := json.Unmarshal(data, &items); err == nil {
		return &domain.ScanResult{Items: items, Confidence: 1}, nil
	}

	var result domain.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse items file: %w", err)
	}
	return &result, nil
}

// ReviewRequest checks a batch for duplicate serials
type ReviewRequest struct {
	Items []domain.ScanItem
}

// ReviewResponse carries the duplicate flags. ExistingUnavailable is set
// when the property book could not be fetched, so only in-batch duplicates
// were checked.
type ReviewResponse struct {
	Flags               []domain.DuplicateFlag
	ExactCount          int
	ExistingUnavailable bool
}

// Review flags batch items whose serials collide with the property book or
// with each other.
func (s *ImportService) Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
	var existing []string
	unavailable := false

	properties, err := s.properties.List(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrOffline) {
			return nil, fmt.Errorf("failed to load existing serials: %w", err)
		}
		unavailable = true
	} else {
		existing = make([]string, 0, len(properties))
		for _, p := range properties {
			existing = append(existing, p.SerialNumber)
		}
	}

	flags := domain.FindDuplicates(req.Items, existing, s.threshold)
	exact := 0
	for _, f := range flags {
		if f.Exact {
			exact++
		}
	}
	return &ReviewResponse{
		Flags:               flags,
		ExactCount:          exact,
		ExistingUnavailable: unavailable,
	}, nil
}

// ImportRequest batch-creates properties from reviewed items
type ImportRequest struct {
	Items     []domain.ScanItem
	SourceRef string
	Force     bool // import despite near-duplicate flags
}

// ImportResponse carries the per-item outcome plus what the review dropped
type ImportResponse struct {
	Result  *domain.ImportResult
	Skipped []domain.ScanItem     // exact duplicates, never imported
	Flags   []domain.DuplicateFlag // near matches that needed Force
}

// Import reviews and batch-creates the items. Exact duplicate serials are
// dropped outright; near matches stop the import with ErrDuplicatesFlagged
// unless Force is set. Partial failure is normal: the response carries
// per-item outcomes.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*ImportResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("nothing to import")
	}
	for i := range req.Items {
		if err := req.Items[i].Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	review, err := s.Review(ctx, ReviewRequest{Items: req.Items})
	if err != nil {
		return nil, err
	}

	keep, skipped, nearFlags := partitionFlagged(req.Items, review.Flags)
	if len(nearFlags) > 0 && !req.Force {
		return &ImportResponse{Skipped: skipped, Flags: nearFlags}, ErrDuplicatesFlagged
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("every item is an exact duplicate of an existing serial")
	}

	result, err := s.api.ImportItems(ctx, keep, req.SourceRef)
	if err != nil {
		return nil, fmt.Errorf("failed to import items: %w", err)
	}
	return &ImportResponse{Result: result, Skipped: skipped, Flags: nearFlags}, nil
}

// partitionFlagged drops exact-duplicate items and separates the near
// flags that gate the import.
func partitionFlagged(items []domain.ScanItem, flags []domain.DuplicateFlag) (keep, skipped []domain.ScanItem, near []domain.DuplicateFlag) {
	exact := make(map[int]bool)
	for _, f := range flags {
		if f.Exact {
			exact[f.ItemIndex] = true
		} else {
			near = append(near, f)
		}
	}
	for i, item := range items {
		if exact[i] {
			skipped = append(skipped, item)
			continue
		}
		keep = append(keep, item)
	}
	return keep, skipped, near
}
