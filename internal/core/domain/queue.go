package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Operation types the offline queue can hold
const (
	OpTypeCreate = "create"
	OpTypeUpdate = "update"
	OpTypeVerify = "verify"
)

// Entities an update operation can target
const (
	OpEntityProperty = "property"
	OpEntityStatus   = "status"
)

// QueuedOperation is one mutation captured while offline. Data carries the
// operation payload as raw JSON so the queue file stays schema-agnostic.
type QueuedOperation struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Entity    string          `json:"entity,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// StatusChange is the payload of a queued status update
type StatusChange struct {
	SerialNumber string `json:"serialNumber"`
	Status       string `json:"status"`
}

// VerifyRequest is the payload of a queued verification
type VerifyRequest struct {
	SerialNumber string `json:"serialNumber"`
}

// NewQueuedOperation wraps a payload into a queue entry with a fresh id
func NewQueuedOperation(opType, entity string, payload any) (*QueuedOperation, error) {
	if opType != OpTypeCreate && opType != OpTypeUpdate && opType != OpTypeVerify {
		return nil, fmt.Errorf("unknown operation type: %s", opType)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode operation payload: %w", err)
	}

	return &QueuedOperation{
		ID:        uuid.NewString(),
		Type:      opType,
		Entity:    entity,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Age returns how long the operation has been waiting
func (op *QueuedOperation) Age() time.Duration {
	return time.Since(op.Timestamp)
}

// Summary returns a short human-readable description for queue listings
func (op *QueuedOperation) Summary() string {
	switch op.Type {
	case OpTypeCreate:
		var in PropertyInput
		if err := json.Unmarshal(op.Data, &in); err == nil && in.Name != "" {
			return fmt.Sprintf("create %s (%s)", in.Name, in.SerialNumber)
		}
		return "create property"
	case OpTypeUpdate:
		var ch StatusChange
		if err := json.Unmarshal(op.Data, &ch); err == nil && ch.SerialNumber != "" {
			return fmt.Sprintf("update %s -> %s", ch.SerialNumber, ch.Status)
		}
		return "update property"
	case OpTypeVerify:
		var vr VerifyRequest
		if err := json.Unmarshal(op.Data, &vr); err == nil && vr.SerialNumber != "" {
			return fmt.Sprintf("verify %s", vr.SerialNumber)
		}
		return "verify property"
	}
	return op.Type
}
