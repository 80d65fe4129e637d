package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server Settings
	ServerURL      string `yaml:"server_url"`
	RequestTimeout int    `yaml:"request_timeout_seconds"`

	// Cache Settings
	EnableCache            bool `yaml:"enable_cache"`
	CacheExpirationMinutes int  `yaml:"cache_expiration_minutes"`

	// Sync Settings
	SyncIntervalSeconds int  `yaml:"sync_interval_seconds"`
	SyncOnStart         bool `yaml:"sync_on_start"`
	WatchDebounceMS     int  `yaml:"watch_debounce_ms"`

	// Socket Settings
	SocketReconnectDelaySeconds int `yaml:"socket_reconnect_delay_seconds"`
	SocketMaxReconnects         int `yaml:"socket_max_reconnects"`

	// Import Settings
	DuplicateThreshold float64 `yaml:"duplicate_threshold"`
	MaxScanDimension   int     `yaml:"max_scan_dimension"`

	// UI Settings
	ColorTheme        string `yaml:"color_theme"`
	DisplayDateFormat string `yaml:"display_date_format"`
	TableWidth        int    `yaml:"table_width"`

	// List Settings
	DefaultSort string `yaml:"default_sort"`
	ReverseSort bool   `yaml:"reverse_sort"`
	PageSize    int    `yaml:"page_size"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:                   "http://localhost:8080",
		RequestTimeout:              15,
		EnableCache:                 true,
		CacheExpirationMinutes:      30,
		SyncIntervalSeconds:         60,
		SyncOnStart:                 true,
		WatchDebounceMS:             500,
		SocketReconnectDelaySeconds: 5,
		SocketMaxReconnects:         10,
		DuplicateThreshold:          0.8,
		MaxScanDimension:            2048,
		ColorTheme:                  "auto",
		DisplayDateFormat:           "2006-01-02",
		TableWidth:                  0,
		DefaultSort:                 "name",
		ReverseSort:                 false,
		PageSize:                    50,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	// Try to read the file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8080"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15
	}
	if cfg.CacheExpirationMinutes <= 0 {
		cfg.CacheExpirationMinutes = 30
	}
	if cfg.SyncIntervalSeconds <= 0 {
		cfg.SyncIntervalSeconds = 60
	}
	if cfg.SocketReconnectDelaySeconds <= 0 {
		cfg.SocketReconnectDelaySeconds = 5
	}
	if cfg.SocketMaxReconnects <= 0 {
		cfg.SocketMaxReconnects = 10
	}
	if cfg.DuplicateThreshold <= 0 || cfg.DuplicateThreshold > 1 {
		cfg.DuplicateThreshold = 0.8
	}
	if cfg.MaxScanDimension <= 0 {
		cfg.MaxScanDimension = 2048
	}
	if cfg.DisplayDateFormat == "" {
		cfg.DisplayDateFormat = "2006-01-02"
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = "name"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}

	// Validate sort field
	if !isValidSortField(cfg.DefaultSort) {
		cfg.DefaultSort = "name"
	}

	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CacheTTL returns the staleness window for cached collections
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheExpirationMinutes) * time.Minute
}

// Timeout returns the per-request HTTP timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// SyncInterval returns the daemon replay/probe interval
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.SyncIntervalSeconds) * time.Second
}

// SocketReconnectDelay returns the fixed delay between reconnect attempts
func (c *Config) SocketReconnectDelay() time.Duration {
	return time.Duration(c.SocketReconnectDelaySeconds) * time.Second
}

// ResolveServerURL picks the server base URL with flag > env > config precedence
func ResolveServerURL(flagValue string, c *Config) string {
	if flagValue != "" {
		return strings.TrimRight(flagValue, "/")
	}
	if env := os.Getenv("HR_SERVER"); env != "" {
		return strings.TrimRight(env, "/")
	}
	return c.ServerURL
}

// isValidSortField checks if the sort field is valid
func isValidSortField(field string) bool {
	validFields := []string{"name", "serial", "status", "category", "date"}
	for _, valid := range validFields {
		if field == valid {
			return true
		}
	}
	return false
}
