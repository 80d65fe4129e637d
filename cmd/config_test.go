package cmd

import (
	"testing"

	"github.com/handreceipt/hr-cli/pkg/config"
)

// TestConfigValueRoundTrip verifies set followed by get for every key
func TestConfigValueRoundTrip(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"server_url", "https://hr.example.com", "https://hr.example.com"},
		{"server_url", "https://hr.example.com/", "https://hr.example.com"}, // trailing slash trimmed
		{"request_timeout_seconds", "45", "45"},
		{"enable_cache", "false", "false"},
		{"cache_expiration_minutes", "120", "120"},
		{"sync_interval_seconds", "600", "600"},
		{"sync_on_start", "true", "true"},
		{"watch_debounce_ms", "750", "750"},
		{"socket_reconnect_delay_seconds", "10", "10"},
		{"socket_max_reconnects", "3", "3"},
		{"duplicate_threshold", "0.9", "0.9"},
		{"max_scan_dimension", "2048", "2048"},
		{"color_theme", "dark", "dark"},
		{"display_date_format", "02 Jan 2006", "02 Jan 2006"},
		{"table_width", "140", "140"},
		{"default_sort", "serial", "serial"},
		{"reverse_sort", "true", "true"},
		{"page_size", "50", "50"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := config.DefaultConfig()

			if err := applyConfigValue(cfg, tt.key, tt.value); err != nil {
				t.Fatalf("applyConfigValue failed: %v", err)
			}

			got, err := configValue(cfg, tt.key)
			if err != nil {
				t.Fatalf("configValue failed: %v", err)
			}

			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestConfigValueUnknownKey verifies unknown keys are rejected
func TestConfigValueUnknownKey(t *testing.T) {
	cfg := config.DefaultConfig()

	if _, err := configValue(cfg, "no_such_key"); err == nil {
		t.Error("Expected an error for an unknown key on get")
	}

	if err := applyConfigValue(cfg, "no_such_key", "1"); err == nil {
		t.Error("Expected an error for an unknown key on set")
	}
}

// TestApplyConfigValueRejectsBadValues verifies value validation
func TestApplyConfigValueRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric timeout", "request_timeout_seconds", "soon"},
		{"non-boolean cache toggle", "enable_cache", "maybe"},
		{"non-numeric page size", "page_size", "many"},
		{"threshold above one", "duplicate_threshold", "1.5"},
		{"threshold at zero", "duplicate_threshold", "0"},
		{"threshold not a number", "duplicate_threshold", "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()

			if err := applyConfigValue(cfg, tt.key, tt.value); err == nil {
				t.Errorf("Expected %q to be rejected for %s", tt.value, tt.key)
			}
		})
	}
}

// TestApplyConfigValueDoesNotTouchOtherFields verifies isolated updates
func TestApplyConfigValueDoesNotTouchOtherFields(t *testing.T) {
	cfg := config.DefaultConfig()
	before := *cfg

	if err := applyConfigValue(cfg, "table_width", "99"); err != nil {
		t.Fatalf("applyConfigValue failed: %v", err)
	}

	if cfg.TableWidth != 99 {
		t.Errorf("Expected table width 99, got %d", cfg.TableWidth)
	}

	if cfg.ServerURL != before.ServerURL {
		t.Error("Server URL should be unchanged")
	}

	if cfg.EnableCache != before.EnableCache {
		t.Error("Cache toggle should be unchanged")
	}
}

// TestConfigKeysComplete verifies the listing covers every supported key
func TestConfigKeysComplete(t *testing.T) {
	cfg := config.DefaultConfig()

	for _, key := range configKeys {
		if _, err := configValue(cfg, key); err != nil {
			t.Errorf("Listed key %q is not readable: %v", key, err)
		}
	}

	if len(configKeys) != 17 {
		t.Errorf("Expected 17 config keys, got %d", len(configKeys))
	}
}
