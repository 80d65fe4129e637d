package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/pkg/config"
)

func exportFixture() []domain.Property {
	verifiedAt := time.Date(2025, 7, 15, 9, 30, 0, 0, time.UTC)
	return []domain.Property{
		{
			ID:           1,
			Name:         "M4 Carbine",
			SerialNumber: "W123456",
			NSN:          "1005-01-231-0973",
			LIN:          "R97234",
			Category:     "weapon",
			Status:       "active",
			Condition:    "serviceable",
			Location:     "Arms Room",
			Quantity:     1,
			VerifiedAt:   &verifiedAt,
			UpdatedAt:    time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           2,
			Name:         "Radio Set",
			SerialNumber: "R0099",
			Category:     "comms",
			Status:       "in_repair",
			Quantity:     2,
			UpdatedAt:    time.Date(2025, 8, 2, 12, 0, 0, 0, time.UTC),
		},
	}
}

// TestWritePropertyCSV tests the spreadsheet export
func TestWritePropertyCSV(t *testing.T) {
	originalConfig := appConfig
	appConfig = config.DefaultConfig()
	defer func() { appConfig = originalConfig }()

	var buf bytes.Buffer
	if err := writePropertyCSV(&buf, exportFixture()); err != nil {
		t.Fatalf("writePropertyCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Export is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "Name" || header[1] != "Serial" {
		t.Errorf("Unexpected header: %v", header)
	}

	first := records[1]
	if first[0] != "M4 Carbine" {
		t.Errorf("Expected name in first column, got %q", first[0])
	}
	if first[1] != "W123456" {
		t.Errorf("Expected serial in second column, got %q", first[1])
	}
	if first[9] != "2025-07-15" {
		t.Errorf("Expected verified date in default format, got %q", first[9])
	}

	second := records[2]
	if second[9] != "" {
		t.Errorf("Unverified property should have an empty verified cell, got %q", second[9])
	}
	if second[8] != "2" {
		t.Errorf("Expected quantity 2, got %q", second[8])
	}
}

// TestWritePropertyCSVDateFormat tests that the configured date format applies
func TestWritePropertyCSVDateFormat(t *testing.T) {
	originalConfig := appConfig
	appConfig = config.DefaultConfig()
	appConfig.DisplayDateFormat = "02 Jan 2006"
	defer func() { appConfig = originalConfig }()

	var buf bytes.Buffer
	if err := writePropertyCSV(&buf, exportFixture()); err != nil {
		t.Fatalf("writePropertyCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Export is not valid CSV: %v", err)
	}

	if records[1][9] != "15 Jul 2025" {
		t.Errorf("Expected configured date format, got %q", records[1][9])
	}
}

// TestWritePropertyJSON tests the JSON export round trip
func TestWritePropertyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writePropertyJSON(&buf, exportFixture()); err != nil {
		t.Fatalf("writePropertyJSON failed: %v", err)
	}

	var decoded []domain.Property
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(decoded))
	}

	if decoded[0].SerialNumber != "W123456" {
		t.Errorf("Expected serial to survive the round trip, got %q", decoded[0].SerialNumber)
	}

	if decoded[1].VerifiedAt != nil {
		t.Error("Unverified property should stay unverified")
	}
}

// TestExportProfiles tests the format registry
func TestExportProfiles(t *testing.T) {
	for _, format := range []string{"csv", "json"} {
		profile, ok := exportProfiles[format]
		if !ok {
			t.Errorf("Format %q is not registered", format)
			continue
		}
		if profile.Extension != format {
			t.Errorf("Expected extension %q, got %q", format, profile.Extension)
		}
		if profile.Write == nil {
			t.Errorf("Format %q has no writer", format)
		}
	}

	if _, ok := exportProfiles["xlsx"]; ok {
		t.Error("Unsupported formats should not be registered")
	}
}
