package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
)

const connectionCacheKey = "connections"

// ConnectionService manages the user's network: who they can transfer
// property to and receive documents from.
type ConnectionService struct {
	api   ports.ConnectionAPI
	cache ports.CacheRepository
	ttl   time.Duration
}

// NewConnectionService creates a new connection service
func NewConnectionService(api ports.ConnectionAPI, cache ports.CacheRepository, ttl time.Duration) *ConnectionService {
	return &ConnectionService{
		api:   api,
		cache: cache,
		ttl:   ttl,
	}
}

// ListConnectionsRequest filters the connection listing
type ListConnectionsRequest struct {
	Status  string // filter by connection status (optional)
	Refresh bool
}

// ListConnectionsResponse carries the listing plus its provenance
type ListConnectionsResponse struct {
	Connections []domain.UserConnection
	Total       int
	FromCache   bool
	CacheAge    time.Duration
	Offline     bool
}

// List returns connections, cache-first like the other collections.
func (s *ConnectionService) List(ctx context.Context, req ListConnectionsRequest) (*ListConnectionsResponse, error) {
	if !req.Refresh {
		var cached []domain.UserConnection
		fetchedAt, err := s.cache.Get(ctx, connectionCacheKey, &cached)
		if err == nil && time.Since(fetchedAt) <= s.ttl {
			conns := filterConnections(cached, req.Status)
			return &ListConnectionsResponse{
				Connections: conns,
				Total:       len(conns),
				FromCache:   true,
				CacheAge:    time.Since(fetchedAt),
			}, nil
		}
	}

	connections, err := s.api.List(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrOffline) {
			var cached []domain.UserConnection
			fetchedAt, cacheErr := s.cache.Get(ctx, connectionCacheKey, &cached)
			if cacheErr == nil {
				conns := filterConnections(cached, req.Status)
				return &ListConnectionsResponse{
					Connections: conns,
					Total:       len(conns),
					FromCache:   true,
					CacheAge:    time.Since(fetchedAt),
					Offline:     true,
				}, nil
			}
		}
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	_ = s.cache.Put(ctx, connectionCacheKey, connections)

	conns := filterConnections(connections, req.Status)
	return &ListConnectionsResponse{
		Connections: conns,
		Total:       len(conns),
	}, nil
}

func filterConnections(connections []domain.UserConnection, status string) []domain.UserConnection {
	if status == "" {
		return connections
	}
	filtered := make([]domain.UserConnection, 0, len(connections))
	for _, c := range connections {
		if strings.EqualFold(c.ConnectionStatus, status) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// RequestConnectionRequest targets a user by id or by search text
type RequestConnectionRequest struct {
	Target string // numeric user id, or a name/email search
}

// RequestConnectionResponse carries the created request, or the candidate
// list when the search text matched more than one user
type RequestConnectionResponse struct {
	Connection *domain.UserConnection
	Candidates []domain.User
}

// Request sends a connection request. Non-numeric targets go through user
// search first; an ambiguous search returns the candidates instead of
// guessing.
func (s *ConnectionService) Request(ctx context.Context, req RequestConnectionRequest) (*RequestConnectionResponse, error) {
	target := strings.TrimSpace(req.Target)
	if target == "" {
		return nil, fmt.Errorf("connection target cannot be empty")
	}

	userID, err := strconv.Atoi(target)
	if err != nil {
		users, err := s.api.SearchUsers(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("failed to search users: %w", err)
		}
		switch len(users) {
		case 0:
			return nil, fmt.Errorf("no user matches %q: %w", target, ports.ErrNotFound)
		case 1:
			userID = users[0].ID
		default:
			return &RequestConnectionResponse{Candidates: users}, nil
		}
	}

	connection, err := s.api.Request(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to request connection: %w", err)
	}

	_ = s.cache.Invalidate(ctx, connectionCacheKey)
	return &RequestConnectionResponse{Connection: connection}, nil
}

// Accept accepts a pending connection request.
func (s *ConnectionService) Accept(ctx context.Context, id int) (*domain.UserConnection, error) {
	return s.updateStatus(ctx, id, domain.ConnectionStatusAccepted)
}

// Block blocks a connection.
func (s *ConnectionService) Block(ctx context.Context, id int) (*domain.UserConnection, error) {
	return s.updateStatus(ctx, id, domain.ConnectionStatusBlocked)
}

func (s *ConnectionService) updateStatus(ctx context.Context, id int, status string) (*domain.UserConnection, error) {
	if id <= 0 {
		return nil, fmt.Errorf("connection id is required")
	}
	connection, err := s.api.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to set connection %d to %s: %w", id, status, err)
	}
	_ = s.cache.Invalidate(ctx, connectionCacheKey)
	return connection, nil
}

// SearchUsers finds users to connect with.
func (s *ConnectionService) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	users, err := s.api.SearchUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}
