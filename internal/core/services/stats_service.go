package services

import (
	"context"
	"fmt"
)

// StatsService aggregates the property book and transfer workload into
// counts for the stats command and its charts. It rides on the other
// services so the cache policy lives in one place.
type StatsService struct {
	properties *PropertyService
	transfers  *TransferService
}

// NewStatsService creates a new stats service
func NewStatsService(properties *PropertyService, transfers *TransferService) *StatsService {
	return &StatsService{
		properties: properties,
		transfers:  transfers,
	}
}

// StatsRequest controls freshness
type StatsRequest struct {
	Refresh bool
}

// StatsResponse carries the aggregated counts
type StatsResponse struct {
	TotalProperties   int
	Verified          int
	TotalValue        float64
	ByStatus          map[string]int
	ByCategory        map[string]int
	ByCondition       map[string]int
	TotalTransfers    int
	PendingTransfers  int
	TransfersByStatus map[string]int
	FromCache         bool
	Offline           bool
}

// Execute gathers counts across properties and transfers.
func (s *StatsService) Execute(ctx context.Context, req StatsRequest) (*StatsResponse, error) {
	props, err := s.properties.List(ctx, ListPropertiesRequest{Refresh: req.Refresh})
	if err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	transfers, err := s.transfers.List(ctx, ListTransfersRequest{Refresh: req.Refresh})
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}

	resp := &StatsResponse{
		ByStatus:          make(map[string]int),
		ByCategory:        make(map[string]int),
		ByCondition:       make(map[string]int),
		TransfersByStatus: make(map[string]int),
		FromCache:         props.FromCache || transfers.FromCache,
		Offline:           props.Offline || transfers.Offline,
	}

	for _, p := range props.Properties {
		resp.TotalProperties++
		resp.ByStatus[p.Status]++
		if p.Category != "" {
			resp.ByCategory[p.Category]++
		} else {
			resp.ByCategory["uncategorized"]++
		}
		if p.Condition != "" {
			resp.ByCondition[p.Condition]++
		}
		if p.Verified {
			resp.Verified++
		}
		qty := p.Quantity
		if qty <= 0 {
			qty = 1
		}
		resp.TotalValue += p.UnitPrice * float64(qty)
	}

	for _, t := range transfers.Transfers {
		resp.TotalTransfers++
		resp.TransfersByStatus[t.Status]++
		if t.Pending() {
			resp.PendingTransfers++
		}
	}

	return resp, nil
}
