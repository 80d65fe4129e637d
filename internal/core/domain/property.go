package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Property statuses as reported by the server
const (
	PropertyStatusActive      = "active"
	PropertyStatusInactive    = "inactive"
	PropertyStatusLost        = "lost"
	PropertyStatusDamaged     = "damaged"
	PropertyStatusInRepair    = "in_repair"
	PropertyStatusMaintenance = "maintenance"
)

// Equipment condition codes
const (
	ConditionServiceable   = "serviceable"
	ConditionUnserviceable = "unserviceable"
	ConditionNeedsRepair   = "needs_repair"
	ConditionBeyondRepair  = "beyond_repair"
	ConditionNew           = "new"
)

// Serial number provenance for imported records
const (
	SerialSourceExplicit  = "explicit"
	SerialSourceGenerated = "generated"
	SerialSourceManual    = "manual"
)

// Property is a tracked equipment record. The server owns the lifecycle;
// local copies are cache entries, never authoritative.
type Property struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	SerialNumber     string          `json:"serialNumber"`
	Description      string          `json:"description,omitempty"`
	Status           string          `json:"status"`
	Condition        string          `json:"condition,omitempty"`
	Category         string          `json:"category,omitempty"`
	NSN              string          `json:"nsn,omitempty"`
	LIN              string          `json:"lin,omitempty"`
	Location         string          `json:"location,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitPrice        float64         `json:"unitPrice,omitempty"`
	PhotoURL         string          `json:"photoUrl,omitempty"`
	AssignedToUserID *int            `json:"assignedToUserId,omitempty"`
	Components       []Component     `json:"components,omitempty"`
	Verified         bool            `json:"verified"`
	VerifiedAt       *time.Time      `json:"verifiedAt,omitempty"`
	VerifiedBy       *int            `json:"verifiedBy,omitempty"`
	SourceType       string          `json:"sourceType,omitempty"`
	SourceRef        string          `json:"sourceRef,omitempty"`
	ImportMetadata   *ImportMetadata `json:"importMetadata,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Component is a sub-item attached to a parent property
// (optics on a rifle, cables on a radio set)
type Component struct {
	ID           int    `json:"id"`
	PropertyID   int    `json:"propertyId"`
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Quantity     int    `json:"quantity"`
	Notes        string `json:"notes,omitempty"`
}

// ImportMetadata records how a scanned record entered the system
type ImportMetadata struct {
	Source               string    `json:"source"`
	FormNumber           string    `json:"formNumber,omitempty"`
	ScanConfidence       float64   `json:"scanConfidence,omitempty"`
	ItemConfidence       float64   `json:"itemConfidence,omitempty"`
	SerialSource         string    `json:"serialSource,omitempty"`
	RequiresVerification bool      `json:"requiresVerification"`
	VerificationReasons  []string  `json:"verificationReasons,omitempty"`
	ImportDate           time.Time `json:"importDate"`
}

// PropertyInput is the client-side shape for creating a property
type PropertyInput struct {
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	NSN          string `json:"nsn,omitempty"`
	LIN          string `json:"lin,omitempty"`
	Location     string `json:"location,omitempty"`
	Quantity     int    `json:"quantity"`
	Condition    string `json:"condition,omitempty"`
}

var (
	nsnPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{3}-\d{4}$`)
	linPattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)
)

// NormalizeSerial uppercases and trims a serial number.
// Serials are compared case-insensitively everywhere.
func NormalizeSerial(serial string) string {
	return strings.ToUpper(strings.TrimSpace(serial))
}

// ValidateSerial checks if a serial number is usable
func ValidateSerial(serial string) error {
	s := strings.TrimSpace(serial)
	if s == "" {
		return fmt.Errorf("serial number cannot be empty")
	}
	if len(s) > 100 {
		return fmt.Errorf("serial number too long (max 100 characters)")
	}
	return nil
}

// ValidateNSN checks the National Stock Number format: 4-2-3-4 digit
// groups separated by dashes. Empty is allowed; NSN is optional.
func ValidateNSN(nsn string) error {
	if nsn == "" {
		return nil
	}
	if !nsnPattern.MatchString(nsn) {
		return fmt.Errorf("NSN must match ####-##-###-#### format")
	}
	return nil
}

// ValidateLIN checks the Line Item Number format: six alphanumerics.
// Empty is allowed; LIN is optional.
func ValidateLIN(lin string) error {
	if lin == "" {
		return nil
	}
	if !linPattern.MatchString(strings.ToUpper(lin)) {
		return fmt.Errorf("LIN must be 6 alphanumeric characters")
	}
	return nil
}

// ValidPropertyStatus reports whether the status is one the server accepts
func ValidPropertyStatus(status string) bool {
	switch status {
	case PropertyStatusActive, PropertyStatusInactive, PropertyStatusLost,
		PropertyStatusDamaged, PropertyStatusInRepair, PropertyStatusMaintenance:
		return true
	}
	return false
}

// ValidCondition reports whether the condition code is known
func ValidCondition(condition string) bool {
	switch condition {
	case ConditionServiceable, ConditionUnserviceable, ConditionNeedsRepair,
		ConditionBeyondRepair, ConditionNew:
		return true
	}
	return false
}

// Validate checks a property input before it is sent or queued
func (in *PropertyInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if err := ValidateSerial(in.SerialNumber); err != nil {
		return err
	}
	if err := ValidateNSN(in.NSN); err != nil {
		return err
	}
	if err := ValidateLIN(in.LIN); err != nil {
		return err
	}
	if in.Condition != "" && !ValidCondition(in.Condition) {
		return fmt.Errorf("unknown condition: %s", in.Condition)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	return nil
}

// DisplayName returns the name with serial for list views
func (p *Property) DisplayName() string {
	if p.SerialNumber == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.SerialNumber)
}

// IsAssigned reports whether the property has a current holder
func (p *Property) IsAssigned() bool {
	return p.AssignedToUserID != nil && *p.AssignedToUserID != 0
}
