package ws

import (
	"encoding/json"
	"time"
)

// Event types broadcast by the backend notification hub.
const (
	EventTransferUpdate     = "transfer:update"
	EventTransferCreated    = "transfer:created"
	EventPropertyUpdate     = "property:update"
	EventConnectionRequest  = "connection:request"
	EventConnectionAccepted = "connection:accepted"
	EventDocumentReceived   = "document:received"
	EventNotification       = "notification:general"
)

// EventTypes lists every event type the hub emits, in a stable order.
// Useful for registering a catch-all handler.
var EventTypes = []string{
	EventTransferUpdate,
	EventTransferCreated,
	EventPropertyUpdate,
	EventConnectionRequest,
	EventConnectionAccepted,
	EventDocumentReceived,
	EventNotification,
}

// Event is the envelope every hub broadcast arrives in. Data is kept raw
// because its shape depends on Type; use Decode with the matching payload
// struct.
type Event struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	UserID    int             `json:"userId,omitempty"`
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// TransferEventData is the payload of transfer:update and transfer:created.
type TransferEventData struct {
	TransferID   int    `json:"transferId"`
	FromUserID   int    `json:"fromUserId"`
	ToUserID     int    `json:"toUserId"`
	Status       string `json:"status"`
	SerialNumber string `json:"serialNumber"`
	ItemName     string `json:"itemName"`
}

// PropertyEventData is the payload of property:update.
type PropertyEventData struct {
	PropertyID   int    `json:"propertyId"`
	OwnerID      int    `json:"ownerId"`
	SerialNumber string `json:"serialNumber"`
	Status       string `json:"status"`
	Action       string `json:"action"`
}

// ConnectionEventData is the payload of connection:request and
// connection:accepted.
type ConnectionEventData struct {
	ConnectionID int    `json:"connectionId"`
	FromUserID   int    `json:"fromUserId"`
	FromUserName string `json:"fromUserName"`
	TargetUserID int    `json:"targetUserId"`
	Status       string `json:"status"`
}

// DocumentEventData is the payload of document:received.
type DocumentEventData struct {
	DocumentID   int    `json:"documentId"`
	RecipientID  int    `json:"recipientId"`
	SenderID     int    `json:"senderId"`
	DocumentType string `json:"documentType"`
	Title        string `json:"title"`
}
