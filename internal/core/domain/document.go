package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document types and form subtypes
const (
	DocumentTypeMaintenance = "maintenance_form"
	DocumentTypeTransfer    = "transfer_form"

	FormSubtypeDA2404  = "DA2404"
	FormSubtypeDA5988E = "DA5988E"
)

// Document read states
const (
	DocumentStatusUnread   = "unread"
	DocumentStatusRead     = "read"
	DocumentStatusArchived = "archived"
)

// Bulk document operations
const (
	BulkOpRead    = "read"
	BulkOpArchive = "archive"
	BulkOpDelete  = "delete"
)

// Document is a form or record exchanged between users: maintenance
// requests, transfer paperwork. FormData stays opaque JSON; the client
// renders it without interpreting every form's schema.
type Document struct {
	ID              int             `json:"id"`
	Type            string          `json:"type"`
	Subtype         string          `json:"subtype,omitempty"`
	Title           string          `json:"title"`
	SenderUserID    int             `json:"senderUserId"`
	RecipientUserID int             `json:"recipientUserId"`
	PropertyID      *int            `json:"propertyId,omitempty"`
	SerialNumber    string          `json:"serialNumber,omitempty"`
	FormData        json.RawMessage `json:"formData,omitempty"`
	Description     string          `json:"description,omitempty"`
	Attachments     []string        `json:"attachments,omitempty"`
	Status          string          `json:"status"`
	SentAt          time.Time       `json:"sentAt"`
	ReadAt          *time.Time      `json:"readAt,omitempty"`
}

// MaintenanceFormInput creates a maintenance document for a property
type MaintenanceFormInput struct {
	PropertyID       int    `json:"propertyId"`
	RecipientUserID  int    `json:"recipientUserId"`
	FormType         string `json:"formType"`
	Description      string `json:"description"`
	FaultDescription string `json:"faultDescription,omitempty"`
}

// ValidDocumentStatus reports whether the read state is known
func ValidDocumentStatus(status string) bool {
	switch status {
	case DocumentStatusUnread, DocumentStatusRead, DocumentStatusArchived:
		return true
	}
	return false
}

// ValidBulkOp reports whether the bulk operation is supported
func ValidBulkOp(op string) bool {
	switch op {
	case BulkOpRead, BulkOpArchive, BulkOpDelete:
		return true
	}
	return false
}

// Validate checks a maintenance form input before it is sent
func (in *MaintenanceFormInput) Validate() error {
	if in.PropertyID <= 0 {
		return fmt.Errorf("property id is required")
	}
	if in.RecipientUserID <= 0 {
		return fmt.Errorf("recipient user id is required")
	}
	if in.FormType != FormSubtypeDA2404 && in.FormType != FormSubtypeDA5988E {
		return fmt.Errorf("form type must be %s or %s", FormSubtypeDA2404, FormSubtypeDA5988E)
	}
	if in.Description == "" {
		return fmt.Errorf("description cannot be empty")
	}
	return nil
}

// Unread reports whether the document still needs attention
func (d *Document) Unread() bool {
	return d.Status == DocumentStatusUnread
}
