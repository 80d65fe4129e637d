package domain

import (
	"fmt"
	"time"
)

// Transfer statuses. pending/approved/rejected are the working states;
// completed and cancelled are terminal states the server may also report.
const (
	TransferStatusPending   = "pending"
	TransferStatusApproved  = "approved"
	TransferStatusRejected  = "rejected"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// Transfer types: a request asks for property held by someone else,
// an offer pushes property to a recipient.
const (
	TransferTypeRequest = "request"
	TransferTypeOffer   = "offer"
)

// Transfer is a custody change between two users
type Transfer struct {
	ID                    int        `json:"id"`
	PropertyID            int        `json:"propertyId"`
	PropertyName          string     `json:"propertyName,omitempty"`
	SerialNumber          string     `json:"serialNumber,omitempty"`
	FromUserID            int        `json:"fromUserId"`
	ToUserID              int        `json:"toUserId"`
	Status                string     `json:"status"`
	TransferType          string     `json:"transferType"`
	InitiatorID           *int       `json:"initiatorId,omitempty"`
	RequestedSerialNumber string     `json:"requestedSerialNumber,omitempty"`
	IncludeComponents     bool       `json:"includeComponents"`
	Notes                 string     `json:"notes,omitempty"`
	RequestDate           time.Time  `json:"requestDate"`
	ResolvedDate          *time.Time `json:"resolvedDate,omitempty"`
}

// TransferInput creates a transfer for a known property ID
type TransferInput struct {
	PropertyID        int    `json:"propertyId"`
	ToUserID          int    `json:"toUserId"`
	TransferType      string `json:"transferType"`
	IncludeComponents bool   `json:"includeComponents"`
	Notes             string `json:"notes,omitempty"`
}

// SerialRequestInput requests property by serial number, for when the
// requester does not hold the record and only knows the serial.
type SerialRequestInput struct {
	SerialNumber string `json:"serialNumber"`
	Notes        string `json:"notes,omitempty"`
}

// ValidTransferStatus reports whether the status is part of the vocabulary
func ValidTransferStatus(status string) bool {
	switch status {
	case TransferStatusPending, TransferStatusApproved, TransferStatusRejected,
		TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}

// TerminalTransferStatus reports whether the status ends the workflow
func TerminalTransferStatus(status string) bool {
	switch status {
	case TransferStatusRejected, TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}

// Validate checks a transfer input before it is sent
func (in *TransferInput) Validate() error {
	if in.PropertyID <= 0 {
		return fmt.Errorf("property id is required")
	}
	if in.ToUserID <= 0 {
		return fmt.Errorf("recipient user id is required")
	}
	if in.TransferType != TransferTypeRequest && in.TransferType != TransferTypeOffer {
		return fmt.Errorf("transfer type must be %q or %q", TransferTypeRequest, TransferTypeOffer)
	}
	return nil
}

// Validate checks a serial request input
func (in *SerialRequestInput) Validate() error {
	return ValidateSerial(in.SerialNumber)
}

// Pending reports whether the transfer still needs a decision
func (t *Transfer) Pending() bool {
	return t.Status == TransferStatusPending
}

// Counterparty returns the other user in the transfer from the
// perspective of userID, or 0 if userID is not a party.
func (t *Transfer) Counterparty(userID int) int {
	switch userID {
	case t.FromUserID:
		return t.ToUserID
	case t.ToUserID:
		return t.FromUserID
	}
	return 0
}
