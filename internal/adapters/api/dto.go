package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
)

// Wire DTOs. The server speaks snake_case with pointer-typed optionals;
// everything here exists to turn that into the client-side domain shape.

type propertyDTO struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	SerialNumber     string          `json:"serial_number"`
	Description      *string         `json:"description"`
	CurrentStatus    string          `json:"current_status"`
	Condition        *string         `json:"condition"`
	Category         *string         `json:"category"`
	NSN              *string         `json:"nsn"`
	LIN              *string         `json:"lin"`
	Location         *string         `json:"location"`
	Quantity         int             `json:"quantity"`
	UnitPrice        float64         `json:"unit_price"`
	PhotoURL         *string         `json:"photo_url"`
	AssignedToUserID *int            `json:"assigned_to_user_id"`
	Components       []componentDTO  `json:"components"`
	Verified         bool            `json:"verified"`
	VerifiedAt       *time.Time      `json:"verified_at"`
	VerifiedBy       *int            `json:"verified_by"`
	SourceType       *string         `json:"source_type"`
	SourceRef        *string         `json:"source_ref"`
	ImportMetadata   json.RawMessage `json:"import_metadata"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type componentDTO struct {
	ID           int     `json:"id"`
	PropertyID   int     `json:"property_id"`
	Name         string  `json:"name"`
	SerialNumber *string `json:"serial_number"`
	Quantity     int     `json:"quantity"`
	Notes        *string `json:"notes"`
}

type importMetadataDTO struct {
	Source               string    `json:"source"`
	ImportDate           time.Time `json:"import_date"`
	FormNumber           string    `json:"form_number,omitempty"`
	ScanConfidence       float64   `json:"scan_confidence"`
	ItemConfidence       float64   `json:"item_confidence"`
	SerialSource         string    `json:"serial_source"`
	RequiresVerification bool      `json:"requires_verification"`
	VerificationReasons  []string  `json:"verification_reasons,omitempty"`
}

type propertyCreateDTO struct {
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	NSN          string `json:"nsn,omitempty"`
	LIN          string `json:"lin,omitempty"`
	Location     string `json:"location,omitempty"`
	Quantity     int    `json:"quantity"`
	Condition    string `json:"condition,omitempty"`
}

type transferDTO struct {
	ID                    int          `json:"id"`
	PropertyID            int          `json:"property_id"`
	Property              *propertyDTO `json:"property"`
	FromUserID            int          `json:"from_user_id"`
	ToUserID              int          `json:"to_user_id"`
	Status                string       `json:"status"`
	TransferType          string       `json:"transfer_type"`
	InitiatorID           *int         `json:"initiator_id"`
	RequestedSerialNumber *string      `json:"requested_serial_number"`
	IncludeComponents     bool         `json:"include_components"`
	Notes                 *string      `json:"notes"`
	RequestDate           time.Time    `json:"request_date"`
	ResolvedDate          *time.Time   `json:"resolved_date"`
}

type userDTO struct {
	ID           int     `json:"id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Rank         string  `json:"rank"`
	Unit         string  `json:"unit"`
	Phone        string  `json:"phone"`
	DoDID        *string `json:"dodid"`
	SignatureURL *string `json:"signature_url"`
}

type connectionDTO struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	ConnectedUserID  int       `json:"connected_user_id"`
	ConnectionStatus string    `json:"connection_status"`
	ConnectedUser    *userDTO  `json:"connected_user"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type documentDTO struct {
	ID              int        `json:"id"`
	Type            string     `json:"type"`
	Subtype         *string    `json:"subtype"`
	Title           string     `json:"title"`
	SenderUserID    int        `json:"sender_user_id"`
	RecipientUserID int        `json:"recipient_user_id"`
	PropertyID      *int       `json:"property_id"`
	SerialNumber    *string    `json:"serial_number"`
	FormData        string     `json:"form_data"`
	Description     *string    `json:"description"`
	Attachments     []string   `json:"attachments"`
	Status          string     `json:"status"`
	SentAt          time.Time  `json:"sent_at"`
	ReadAt          *time.Time `json:"read_at"`
}

type nsnRecordDTO struct {
	NSN          string    `json:"nsn"`
	LIN          string    `json:"lin"`
	Nomenclature string    `json:"nomenclature"`
	FSC          string    `json:"fsc"`
	NIIN         string    `json:"niin"`
	UnitPrice    float64   `json:"unit_price"`
	Manufacturer string    `json:"manufacturer"`
	PartNumber   string    `json:"part_number"`
	LastUpdated  time.Time `json:"last_updated"`
}

type scanItemDTO struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	SerialNumber string  `json:"serial_number"`
	NSN          string  `json:"nsn"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit"`
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"`
	SerialSource string  `json:"serial_source"`
	NeedsReview  bool    `json:"needs_review"`
	SourceRef    string  `json:"source_ref"`
}

type scanResultDTO struct {
	FormNumber string        `json:"form_number"`
	UnitName   string        `json:"unit_name"`
	Confidence float64       `json:"confidence"`
	Items      []scanItemDTO `json:"items"`
}

// -----------------------------------------------------------------------------
// Wire -> domain
// -----------------------------------------------------------------------------

func toDomainProperty(dto *propertyDTO) domain.Property {
	p := domain.Property{
		ID:               dto.ID,
		Name:             dto.Name,
		SerialNumber:     dto.SerialNumber,
		Description:      deref(dto.Description),
		Status:           normalizeStatus(dto.CurrentStatus),
		Condition:        deref(dto.Condition),
		Category:         deref(dto.Category),
		NSN:              deref(dto.NSN),
		LIN:              deref(dto.LIN),
		Location:         deref(dto.Location),
		Quantity:         dto.Quantity,
		UnitPrice:        dto.UnitPrice,
		PhotoURL:         deref(dto.PhotoURL),
		AssignedToUserID: dto.AssignedToUserID,
		Verified:         dto.Verified,
		VerifiedAt:       dto.VerifiedAt,
		VerifiedBy:       dto.VerifiedBy,
		SourceType:       deref(dto.SourceType),
		SourceRef:        deref(dto.SourceRef),
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
	}

	for _, c := range dto.Components {
		p.Components = append(p.Components, domain.Component{
			ID:           c.ID,
			PropertyID:   c.PropertyID,
			Name:         c.Name,
			SerialNumber: deref(c.SerialNumber),
			Quantity:     c.Quantity,
			Notes:        deref(c.Notes),
		})
	}

	if meta := decodeImportMetadata(dto.ImportMetadata); meta != nil {
		p.ImportMetadata = meta
	}
	return p
}

// decodeImportMetadata handles both shapes the server emits: a JSON object,
// or that object serialized into a JSON string.
func decodeImportMetadata(raw json.RawMessage) *domain.ImportMetadata {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	payload := raw
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return nil
		}
		payload = json.RawMessage(asString)
	}

	var dto importMetadataDTO
	if err := json.Unmarshal(payload, &dto); err != nil {
		return nil
	}
	return &domain.ImportMetadata{
		Source:               dto.Source,
		FormNumber:           dto.FormNumber,
		ScanConfidence:       dto.ScanConfidence,
		ItemConfidence:       dto.ItemConfidence,
		SerialSource:         dto.SerialSource,
		RequiresVerification: dto.RequiresVerification,
		VerificationReasons:  dto.VerificationReasons,
		ImportDate:           dto.ImportDate,
	}
}

func toDomainTransfer(dto *transferDTO) domain.Transfer {
	t := domain.Transfer{
		ID:                    dto.ID,
		PropertyID:            dto.PropertyID,
		FromUserID:            dto.FromUserID,
		ToUserID:              dto.ToUserID,
		Status:                normalizeTransferStatus(dto.Status),
		TransferType:          dto.TransferType,
		InitiatorID:           dto.InitiatorID,
		RequestedSerialNumber: deref(dto.RequestedSerialNumber),
		IncludeComponents:     dto.IncludeComponents,
		Notes:                 deref(dto.Notes),
		RequestDate:           dto.RequestDate,
		ResolvedDate:          dto.ResolvedDate,
	}
	if dto.Property != nil {
		t.PropertyName = dto.Property.Name
		t.SerialNumber = dto.Property.SerialNumber
	}
	return t
}

func toDomainUser(dto *userDTO) domain.User {
	name := strings.TrimSpace(dto.FirstName + " " + dto.LastName)
	return domain.User{
		ID:           dto.ID,
		Email:        dto.Email,
		Name:         name,
		Rank:         dto.Rank,
		Unit:         dto.Unit,
		Phone:        dto.Phone,
		DoDID:        deref(dto.DoDID),
		SignatureURL: deref(dto.SignatureURL),
	}
}

func toDomainConnection(dto *connectionDTO) domain.UserConnection {
	c := domain.UserConnection{
		ID:               dto.ID,
		UserID:           dto.UserID,
		ConnectedUserID:  dto.ConnectedUserID,
		ConnectionStatus: strings.ToLower(dto.ConnectionStatus),
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
	}
	if dto.ConnectedUser != nil {
		u := toDomainUser(dto.ConnectedUser)
		c.ConnectedUser = &u
	}
	return c
}

func toDomainDocument(dto *documentDTO) domain.Document {
	d := domain.Document{
		ID:              dto.ID,
		Type:            dto.Type,
		Subtype:         deref(dto.Subtype),
		Title:           dto.Title,
		SenderUserID:    dto.SenderUserID,
		RecipientUserID: dto.RecipientUserID,
		PropertyID:      dto.PropertyID,
		SerialNumber:    deref(dto.SerialNumber),
		Description:     deref(dto.Description),
		Attachments:     dto.Attachments,
		Status:          strings.ToLower(dto.Status),
		SentAt:          dto.SentAt,
		ReadAt:          dto.ReadAt,
	}
	if dto.FormData != "" {
		d.FormData = json.RawMessage(dto.FormData)
	}
	return d
}

func toDomainNSNRecord(dto *nsnRecordDTO) domain.NSNRecord {
	return domain.NSNRecord{
		NSN:          dto.NSN,
		LIN:          dto.LIN,
		Nomenclature: dto.Nomenclature,
		FSC:          dto.FSC,
		NIIN:         dto.NIIN,
		UnitPrice:    dto.UnitPrice,
		Manufacturer: dto.Manufacturer,
		PartNumber:   dto.PartNumber,
		LastUpdated:  dto.LastUpdated,
	}
}

func toDomainScanResult(dto *scanResultDTO) domain.ScanResult {
	r := domain.ScanResult{
		FormNumber: dto.FormNumber,
		UnitName:   dto.UnitName,
		Confidence: dto.Confidence,
	}
	for _, item := range dto.Items {
		r.Items = append(r.Items, domain.ScanItem{
			Name:         item.Name,
			Description:  item.Description,
			SerialNumber: item.SerialNumber,
			NSN:          item.NSN,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			Category:     item.Category,
			Confidence:   item.Confidence,
			SerialSource: item.SerialSource,
			NeedsReview:  item.NeedsReview,
			SourceRef:    item.SourceRef,
		})
	}
	return r
}

// -----------------------------------------------------------------------------
// Domain -> wire
// -----------------------------------------------------------------------------

func toWirePropertyInput(in domain.PropertyInput) propertyCreateDTO {
	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return propertyCreateDTO{
		Name:         in.Name,
		SerialNumber: domain.NormalizeSerial(in.SerialNumber),
		Description:  in.Description,
		Category:     in.Category,
		NSN:          in.NSN,
		LIN:          strings.ToUpper(in.LIN),
		Location:     in.Location,
		Quantity:     quantity,
		Condition:    in.Condition,
	}
}

func toWireScanItem(item domain.ScanItem) scanItemDTO {
	return scanItemDTO{
		Name:         item.Name,
		Description:  item.Description,
		SerialNumber: domain.NormalizeSerial(item.SerialNumber),
		NSN:          item.NSN,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		Category:     item.Category,
		Confidence:   item.Confidence,
		SerialSource: item.SerialSource,
		NeedsReview:  item.NeedsReview,
		SourceRef:    item.SourceRef,
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// normalizeStatus lowercases a server status; older server versions
// capitalize ("Active")
func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// normalizeTransferStatus folds legacy vocabulary into the current one
func normalizeTransferStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "requested" {
		return domain.TransferStatusPending
	}
	return s
}
