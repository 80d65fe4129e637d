package domain

import "fmt"

// Failure reasons reported per item by a batch import
const (
	ImportFailValidation = "validation_failed"
	ImportFailDuplicate  = "duplicate_serial"
	ImportFailCreation   = "creation_failed"
)

// ScanItem is one line item parsed out of a DA 2062 scan by the server.
// Confidence and serial provenance drive the client-side review step.
type ScanItem struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	SerialNumber string  `json:"serialNumber"`
	NSN          string  `json:"nsn,omitempty"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit,omitempty"`
	Category     string  `json:"category,omitempty"`
	Confidence   float64 `json:"confidence"`
	SerialSource string  `json:"serialSource,omitempty"`
	NeedsReview  bool    `json:"needsReview"`
	SourceRef    string  `json:"sourceRef,omitempty"`
}

// ScanResult is the server's response to a DA 2062 upload
type ScanResult struct {
	FormNumber string     `json:"formNumber,omitempty"`
	UnitName   string     `json:"unitName,omitempty"`
	Confidence float64    `json:"confidence"`
	Items      []ScanItem `json:"items"`
}

// DuplicateFlag marks a scan item whose serial looks like an existing or
// sibling serial. Similarity is the Levenshtein ratio that tripped the flag.
type DuplicateFlag struct {
	ItemIndex  int     `json:"itemIndex"`
	Serial     string  `json:"serial"`
	MatchedTo  string  `json:"matchedTo"`
	Similarity float64 `json:"similarity"`
	Exact      bool    `json:"exact"`
	InBatch    bool    `json:"inBatch"`
}

// ImportResult summarizes a batch import: per-item outcomes, no rollback
type ImportResult struct {
	CreatedCount int              `json:"createdCount"`
	FailedCount  int              `json:"failedCount"`
	Created      []Property       `json:"created,omitempty"`
	Failed       []FailedImport   `json:"failed,omitempty"`
}

// FailedImport is one item the server could not create
type FailedImport struct {
	Item   ScanItem `json:"item"`
	Reason string   `json:"reason"`
	Error  string   `json:"error,omitempty"`
}

// Validate checks a scan item before batch import
func (s *ScanItem) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("item name cannot be empty")
	}
	if err := ValidateSerial(s.SerialNumber); err != nil {
		return err
	}
	if err := ValidateNSN(s.NSN); err != nil {
		return err
	}
	if s.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	return nil
}
