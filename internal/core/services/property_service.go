package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

// propertyCacheKey is the cache collection for the property book.
const propertyCacheKey = "properties"

// PropertyService handles the property book: listing, lookups, creation,
// verification, and status changes. Reads are cache-aware; mutations that
// hit an unreachable server are queued for replay.
type PropertyService struct {
	api   ports.PropertyAPI
	cache ports.CacheRepository
	queue ports.QueueRepository
	ttl   time.Duration
}

// NewPropertyService creates a new property service
func NewPropertyService(api ports.PropertyAPI, cache ports.CacheRepository, queue ports.QueueRepository, ttl time.Duration) *PropertyService {
	return &PropertyService{
		api:   api,
		cache: cache,
		queue: queue,
		ttl:   ttl,
	}
}

// ListPropertiesRequest filters the property listing
type ListPropertiesRequest struct {
	Status   string // filter by status (optional)
	Category string // filter by category (optional)
	Assigned bool   // only properties assigned to a user
	Refresh  bool   // bypass the cache even when fresh
}

// ListPropertiesResponse carries the listing plus its provenance
type ListPropertiesResponse struct {
	Properties []domain.Property
	Total      int
	FromCache  bool
	CacheAge   time.Duration
	Offline    bool // stale data served because the server was unreachable
}

// List returns properties, served from the cache while fresh. When the
// server is unreachable a stale cache still answers, flagged Offline.
func (s *PropertyService) List(ctx context.Context, req ListPropertiesRequest) (*ListPropertiesResponse, error) {
	// Serve from cache while within the staleness window
	if !req.Refresh {
		var cached []domain.Property
		fetchedAt, err := s.cache.Get(ctx, propertyCacheKey, &cached)
		if err == nil && time.Since(fetchedAt) <= s.ttl {
			props := filterProperties(cached, req)
			return &ListPropertiesResponse{
				Properties: props,
				Total:      len(props),
				FromCache:  true,
				CacheAge:   time.Since(fetchedAt),
			}, nil
		}
	}

	properties, err := s.api.List(ctx)
	if err != nil {
		// Offline: fall back to whatever the cache holds, however stale
		if errors.Is(err, ports.ErrOffline) {
			var cached []domain.Property
			fetchedAt, cacheErr := s.cache.Get(ctx, propertyCacheKey, &cached)
			if cacheErr == nil {
				props := filterProperties(cached, req)
				return &ListPropertiesResponse{
					Properties: props,
					Total:      len(props),
					FromCache:  true,
					CacheAge:   time.Since(fetchedAt),
					Offline:    true,
				}, nil
			}
		}
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	_ = s.cache.Put(ctx, propertyCacheKey, properties)

	props := filterProperties(properties, req)
	return &ListPropertiesResponse{
		Properties: props,
		Total:      len(props),
	}, nil
}

func filterProperties(properties []domain.Property, req ListPropertiesRequest) []domain.Property {
	filtered := make([]domain.Property, 0, len(properties))
	for _, p := range properties {
		if req.Status != "" && !strings.EqualFold(p.Status, req.Status) {
			continue
		}
		if req.Category != "" && !strings.EqualFold(p.Category, req.Category) {
			continue
		}
		if req.Assigned && !p.IsAssigned() {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// ShowPropertyRequest resolves one property by serial number or numeric id
type ShowPropertyRequest struct {
	Ref string
}

// ShowPropertyResponse carries the property plus its provenance
type ShowPropertyResponse struct {
	Property  *domain.Property
	FromCache bool
	Offline   bool
}

// Show resolves a property reference. Numeric refs are tried as ids first
// and fall back to serial lookup, since serials can be all digits too.
func (s *PropertyService) Show(ctx context.Context, req ShowPropertyRequest) (*ShowPropertyResponse, error) {
	ref := strings.TrimSpace(req.Ref)
	if ref == "" {
		return nil, fmt.Errorf("property reference cannot be empty")
	}

	property, err := s.resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, ports.ErrOffline) {
			if cached := s.findCached(ctx, ref); cached != nil {
				return &ShowPropertyResponse{Property: cached, FromCache: true, Offline: true}, nil
			}
		}
		return nil, err
	}
	return &ShowPropertyResponse{Property: property}, nil
}

func (s *PropertyService) resolve(ctx context.Context, ref string) (*domain.Property, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		property, err := s.api.Get(ctx, id)
		if err == nil {
			return property, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("failed to get property %d: %w", id, err)
		}
		// Not an id; try it as a serial below
	}

	property, err := s.api.GetBySerial(ctx, domain.NormalizeSerial(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to get property %q: %w", ref, err)
	}
	return property, nil
}

// findCached scans the cached listing for a serial or id match.
func (s *PropertyService) findCached(ctx context.Context, ref string) *domain.Property {
	var cached []domain.Property
	if _, err := s.cache.Get(ctx, propertyCacheKey, &cached); err != nil {
		return nil
	}
	id, _ := strconv.Atoi(ref)
	serial := domain.NormalizeSerial(ref)
	for i := range cached {
		if cached[i].SerialNumber == serial || (id != 0 && cached[i].ID == id) {
			return &cached[i]
		}
	}
	return nil
}

// CreatePropertyRequest creates a property record
type CreatePropertyRequest struct {
	Input domain.PropertyInput
}

// CreatePropertyResponse reports the created record, or the queued
// operation when the server was unreachable
type CreatePropertyResponse struct {
	Property    *domain.Property
	Queued      bool
	OperationID string
}

// Create validates and creates a property. Offline, the input is queued.
func (s *PropertyService) Create(ctx context.Context, req CreatePropertyRequest) (*CreatePropertyResponse, error) {
	input := req.Input
	input.SerialNumber = domain.NormalizeSerial(input.SerialNumber)
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid property: %w", err)
	}

	property, err := s.api.Create(ctx, input)
	if err != nil {
		if errors.Is(err, ports.ErrOffline) {
			op, qerr := s.enqueue(ctx, domain.OpTypeCreate, domain.OpEntityProperty, input)
			if qerr != nil {
				return nil, qerr
			}
			return &CreatePropertyResponse{Queued: true, OperationID: op.ID}, nil
		}
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	_ = s.cache.Invalidate(ctx, propertyCacheKey)
	return &CreatePropertyResponse{Property: property}, nil
}

// UpdateStatusRequest changes a property's status by serial
type UpdateStatusRequest struct {
	Serial string
	Status string
}

// UpdateStatusResponse reports the updated record or the queued change
type UpdateStatusResponse struct {
	Property    *domain.Property
	Queued      bool
	OperationID string
}

// UpdateStatus validates and applies a status change. Offline, the change
// is queued by serial so replay can resolve the id later.
func (s *PropertyService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*UpdateStatusResponse, error) {
	serial := domain.NormalizeSerial(req.Serial)
	if err := domain.ValidateSerial(serial); err != nil {
		return nil, err
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !domain.ValidPropertyStatus(status) {
		return nil, fmt.Errorf("unknown status %q", req.Status)
	}

	property, err := s.api.GetBySerial(ctx, serial)
	if err == nil {
		property, err = s.api.UpdateStatus(ctx, property.ID, status)
	}
	if err != nil {
		if errors.Is(err, ports.ErrOffline) {
			change := domain.StatusChange{SerialNumber: serial, Status: status}
			op, qerr := s.enqueue(ctx, domain.OpTypeUpdate, domain.OpEntityStatus, change)
			if qerr != nil {
				return nil, qerr
			}
			return &UpdateStatusResponse{Queued: true, OperationID: op.ID}, nil
		}
		return nil, fmt.Errorf("failed to update status of %s: %w", serial, err)
	}

	_ = s.cache.Invalidate(ctx, propertyCacheKey)
	return &UpdateStatusResponse{Property: property}, nil
}

// VerifyPropertyRequest marks a property verified by serial
type VerifyPropertyRequest struct {
	Serial string
}

// VerifyPropertyResponse reports the verified record or the queued request
type VerifyPropertyResponse struct {
	Property    *domain.Property
	Queued      bool
	OperationID string
}

// Verify marks a property as seen by the holder. Offline, the serial is
// queued for replay.
func (s *PropertyService) Verify(ctx context.Context, req VerifyPropertyRequest) (*VerifyPropertyResponse, error) {
	serial := domain.NormalizeSerial(req.Serial)
	if err := domain.ValidateSerial(serial); err != nil {
		return nil, err
	}

	property, err := s.api.GetBySerial(ctx, serial)
	if err == nil {
		property, err = s.api.Verify(ctx, property.ID)
	}
	if err != nil {
		if errors.Is(err, ports.ErrOffline) {
			op, qerr := s.enqueue(ctx, domain.OpTypeVerify, domain.OpEntityProperty, domain.VerifyRequest{SerialNumber: serial})
			if qerr != nil {
				return nil, qerr
			}
			return &VerifyPropertyResponse{Queued: true, OperationID: op.ID}, nil
		}
		return nil, fmt.Errorf("failed to verify %s: %w", serial, err)
	}

	_ = s.cache.Invalidate(ctx, propertyCacheKey)
	return &VerifyPropertyResponse{Property: property}, nil
}

// AttachPhotoRequest uploads a photo for a property by serial
type AttachPhotoRequest struct {
	Serial   string
	Filename string
	Photo    io.Reader
}

// AttachPhotoResponse carries the stored photo URL
type AttachPhotoResponse struct {
	Property *domain.Property
	PhotoURL string
}

// AttachPhoto uploads a property photo. Online only; photo streams are
// never queued.
func (s *PropertyService) AttachPhoto(ctx context.Context, req AttachPhotoRequest) (*AttachPhotoResponse, error) {
	serial := domain.NormalizeSerial(req.Serial)
	if err := domain.ValidateSerial(serial); err != nil {
		return nil, err
	}

	property, err := s.api.GetBySerial(ctx, serial)
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", serial, err)
	}

	url, err := s.api.AttachPhoto(ctx, property.ID, req.Filename, req.Photo)
	if err != nil {
		return nil, fmt.Errorf("failed to attach photo to %s: %w", serial, err)
	}

	_ = s.cache.Invalidate(ctx, propertyCacheKey)
	property.PhotoURL = url
	return &AttachPhotoResponse{Property: property, PhotoURL: url}, nil
}

func (s *PropertyService) enqueue(ctx context.Context, opType, entity string, payload any) (*domain.QueuedOperation, error) {
	op, err := domain.NewQueuedOperation(opType, entity, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build queued operation: %w", err)
	}
	if err := s.queue.Enqueue(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to enqueue operation: %w", err)
	}
	return op, nil
}
