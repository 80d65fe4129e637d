package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// documentCacheKey returns the cache collection for one document box.
func documentCacheKey(box string) string {
	if box == "" {
		box = "all"
	}
	return "documents-" + box
}

// DocumentService handles the document inbox: maintenance forms and
// transfer paperwork routed between connected users.
type DocumentService struct {
	api   ports.DocumentAPI
	cache ports.CacheRepository
	ttl   time.Duration
}

// NewDocumentService creates a new document service
func NewDocumentService(api ports.DocumentAPI, cache ports.CacheRepository, ttl time.Duration) *DocumentService {
	return &DocumentService{
		api:   api,
		cache: cache,
		ttl:   ttl,
	}
}

// ListDocumentsRequest filters the document listing
type ListDocumentsRequest struct {
	Box        string // "inbox", "sent", or "all" (default inbox)
	UnreadOnly bool
	Refresh    bool
}

// ListDocumentsResponse carries the listing plus its provenance
type ListDocumentsResponse struct {
	Documents []domain.Document
	Total     int
	Unread    int
	FromCache bool
	CacheAge  time.Duration
	Offline   bool
}

// List returns documents for a box, cache-first.
func (s *DocumentService) List(ctx context.Context, req ListDocumentsRequest) (*ListDocumentsResponse, error) {
	box := strings.ToLower(strings.TrimSpace(req.Box))
	if box == "" {
		box = "inbox"
	}
	key := documentCacheKey(box)

	if !req.Refresh {
		var cached []domain.Document
		fetchedAt, err := s.cache.Get(ctx, key, &cached)
		if err == nil && time.Since(fetchedAt) <= s.ttl {
			return buildDocumentsResponse(cached, req, true, time.Since(fetchedAt), false), nil
		}
	}

	documents, err := s.api.List(ctx, box)
	if err != nil {
		if errors.Is(err, ports.ErrOffline) {
			var cached []domain.Document
			fetchedAt, cacheErr := s.cache.Get(ctx, key, &cached)
			if cacheErr == nil {
				return buildDocumentsResponse(cached, req, true, time.Since(fetchedAt), true), nil
			}
		}
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	_ = s.cache.Put(ctx, key, documents)
	return buildDocumentsResponse(documents, req, false, 0, false), nil
}

func buildDocumentsResponse(documents []domain.Document, req ListDocumentsRequest, fromCache bool, age time.Duration, offline bool) *ListDocumentsResponse {
	unread := 0
	filtered := make([]domain.Document, 0, len(documents))
	for _, d := range documents {
		if d.Unread() {
			unread++
		}
		if req.UnreadOnly && !d.Unread() {
			continue
		}
		filtered = append(filtered, d)
	}
	return &ListDocumentsResponse{
		Documents: filtered,
		Total:     len(filtered),
		Unread:    unread,
		FromCache: fromCache,
		CacheAge:  age,
		Offline:   offline,
	}
}

// ReadDocumentResponse carries the document; MarkedRead reports whether
// the unread flag was cleared server-side
type ReadDocumentResponse struct {
	Document   *domain.Document
	MarkedRead bool
}

// Read fetches a document and clears its unread flag. A failed mark-read
// does not block the read; the content matters more than the receipt.
func (s *DocumentService) Read(ctx context.Context, id int) (*ReadDocumentResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("document id is required")
	}

	document, err := s.api.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %d: %w", id, err)
	}

	markedRead := false
	if document.Unread() {
		if updated, err := s.api.UpdateStatus(ctx, id, domain.DocumentStatusRead); err == nil {
			document = updated
			markedRead = true
			s.invalidateBoxes(ctx)
		}
	}

	return &ReadDocumentResponse{Document: document, MarkedRead: markedRead}, nil
}

// Archive moves a document out of the inbox.
func (s *DocumentService) Archive(ctx context.Context, id int) (*domain.Document, error) {
	if id <= 0 {
		return nil, fmt.Errorf("document id is required")
	}
	document, err := s.api.UpdateStatus(ctx, id, domain.DocumentStatusArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to archive document %d: %w", id, err)
	}
	s.invalidateBoxes(ctx)
	return document, nil
}

// SendMaintenanceRequest sends a maintenance form for a property
type SendMaintenanceRequest struct {
	Input domain.MaintenanceFormInput
}

// SendMaintenanceResponse carries the created document
type SendMaintenanceResponse struct {
	Document *domain.Document
}

// SendMaintenance validates and sends a DA 2404 / DA 5988-E form.
func (s *DocumentService) SendMaintenance(ctx context.Context, req SendMaintenanceRequest) (*SendMaintenanceResponse, error) {
	if err := req.Input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid maintenance form: %w", err)
	}

	document, err := s.api.SendMaintenanceForm(ctx, req.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to send maintenance form: %w", err)
	}

	s.invalidateBoxes(ctx)
	return &SendMaintenanceResponse{Document: document}, nil
}

// Bulk applies one operation (read, archive, delete) to many documents and
// returns how many the server touched.
func (s *DocumentService) Bulk(ctx context.Context, ids []int, op string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("no document ids given")
	}
	if !domain.ValidBulkOp(op) {
		return 0, fmt.Errorf("unknown bulk operation %q", op)
	}

	count, err := s.api.Bulk(ctx, ids, op)
	if err != nil {
		return 0, fmt.Errorf("failed to %s %d documents: %w", op, len(ids), err)
	}

	s.invalidateBoxes(ctx)
	return count, nil
}

// invalidateBoxes drops every box's cache; a status change moves documents
// between boxes.
func (s *DocumentService) invalidateBoxes(ctx context.Context) {
	for _, box := range []string{"inbox", "sent", "all"} {
		_ = s.cache.Invalidate(ctx, documentCacheKey(box))
	}
}
