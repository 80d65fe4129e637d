package domain

import "time"

// NSNRecord is a reference catalog entry keyed by National Stock Number.
// These come from the server's reference endpoints and are cached locally
// because the catalog changes rarely.
type NSNRecord struct {
	NSN          string    `json:"nsn"`
	LIN          string    `json:"lin,omitempty"`
	Nomenclature string    `json:"nomenclature"`
	FSC          string    `json:"fsc,omitempty"`
	NIIN         string    `json:"niin,omitempty"`
	UnitPrice    float64   `json:"unitPrice,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	PartNumber   string    `json:"partNumber,omitempty"`
	LastUpdated  time.Time `json:"lastUpdated"`
}
