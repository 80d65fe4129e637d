package cmd

import (
	"testing"
	"time"

	"github.com/handreceipt/hr-cli/internal/core/domain"
)

// TestFormatAge tests duration rendering for provenance lines
func TestFormatAge(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"seconds", 30 * time.Second, "30s"},
		{"just under a minute", 59 * time.Second, "59s"},
		{"minutes", 5 * time.Minute, "5m"},
		{"just under an hour", 59 * time.Minute, "59m"},
		{"hour and a half", 90 * time.Minute, "1h30m"},
		{"whole day", 26 * time.Hour, "26h0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatAge(tt.duration)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

// TestFormatExpiry tests session expiry rendering
func TestFormatExpiry(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"expired", -5 * time.Minute, "expired"},
		{"zero", 0, "expired"},
		{"half an hour", 30 * time.Minute, "expires in 30m0s"},
		{"two hours", 2 * time.Hour, "expires in 2h0m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatExpiry(tt.duration)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

// TestTruncate tests display truncation
func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short enough", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"tiny budget keeps raw cut", "abcdef", 3, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncate(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

// TestShortOpID tests queue id shortening for tables
func TestShortOpID(t *testing.T) {
	uuid := "a4f7c3e1-9b2d-4f8a-b1c6-d5e9f0a2b3c4"
	if got := shortOpID(uuid); got != "a4f7c3e1" {
		t.Errorf("Expected first uuid block, got %q", got)
	}

	if got := shortOpID("short"); got != "short" {
		t.Errorf("Short ids should pass through, got %q", got)
	}
}

// TestSortProperties tests the presentational listing order
func TestSortProperties(t *testing.T) {
	build := func() []domain.Property {
		return []domain.Property{
			{Name: "zulu radio", SerialNumber: "C3", Status: "lost", Category: "comms", CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
			{Name: "Alpha rifle", SerialNumber: "A1", Status: "active", Category: "weapon", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Name: "Mike optic", SerialNumber: "B2", Status: "damaged", Category: "optic", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		}
	}

	t.Run("by name is case-insensitive", func(t *testing.T) {
		props := build()
		sortProperties(props, "name", false)
		if props[0].Name != "Alpha rifle" || props[2].Name != "zulu radio" {
			t.Errorf("Unexpected name order: %s, %s, %s", props[0].Name, props[1].Name, props[2].Name)
		}
	})

	t.Run("by serial", func(t *testing.T) {
		props := build()
		sortProperties(props, "serial", false)
		if props[0].SerialNumber != "A1" || props[2].SerialNumber != "C3" {
			t.Errorf("Unexpected serial order: %s, %s, %s", props[0].SerialNumber, props[1].SerialNumber, props[2].SerialNumber)
		}
	})

	t.Run("by date", func(t *testing.T) {
		props := build()
		sortProperties(props, "date", false)
		if !props[0].CreatedAt.Before(props[1].CreatedAt) || !props[1].CreatedAt.Before(props[2].CreatedAt) {
			t.Error("Expected oldest record first")
		}
	})

	t.Run("reverse flips the order", func(t *testing.T) {
		props := build()
		sortProperties(props, "serial", true)
		if props[0].SerialNumber != "C3" {
			t.Errorf("Expected C3 first when reversed, got %s", props[0].SerialNumber)
		}
	})

	t.Run("unknown field falls back to name", func(t *testing.T) {
		props := build()
		sortProperties(props, "bogus", false)
		if props[0].Name != "Alpha rifle" {
			t.Errorf("Expected name fallback, got %s first", props[0].Name)
		}
	})
}

// TestTransferItemLabel tests the label fallback chain
func TestTransferItemLabel(t *testing.T) {
	tests := []struct {
		name     string
		transfer domain.Transfer
		expected string
	}{
		{
			name:     "property name wins",
			transfer: domain.Transfer{PropertyName: "M4 Carbine", SerialNumber: "W123"},
			expected: "M4 Carbine",
		},
		{
			name:     "serial when unnamed",
			transfer: domain.Transfer{SerialNumber: "W123"},
			expected: "W123",
		},
		{
			name:     "requested serial for serial-based requests",
			transfer: domain.Transfer{RequestedSerialNumber: "W999"},
			expected: "W999 (by serial)",
		},
		{
			name:     "id as last resort",
			transfer: domain.Transfer{PropertyID: 42},
			expected: "property 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := transferItemLabel(&tt.transfer)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

// TestDocumentFormLabel tests subtype preference
func TestDocumentFormLabel(t *testing.T) {
	withSubtype := domain.Document{Type: domain.DocumentTypeMaintenance, Subtype: domain.FormSubtypeDA2404}
	if got := documentFormLabel(&withSubtype); got != domain.FormSubtypeDA2404 {
		t.Errorf("Expected subtype label, got %q", got)
	}

	typeOnly := domain.Document{Type: domain.DocumentTypeTransfer}
	if got := documentFormLabel(&typeOnly); got != domain.DocumentTypeTransfer {
		t.Errorf("Expected type label, got %q", got)
	}
}
