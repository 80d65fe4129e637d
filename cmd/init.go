package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/pkg/ui"
	"github.com/handreceipt/hr-cli/pkg/vault"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the hr vault",
	Long: `Initialize the hr vault directory structure.

This creates the managed vault at ~/.local/share/hr/ with the following structure:
  - cache/      : Cached collections (properties, transfers, ...)
  - logs/       : Background daemon and replay logs
  - queue.json  : Offline operation queue (created on first enqueue)
  - catalog.db  : Local NSN reference catalog
  - client_id   : Persistent client identifier
plus a config file at ~/.config/hr/config.yaml.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	// Create vault instance
	v, err := vault.New()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to determine vault location"))
		return err
	}

	// Check if already initialized
	if v.Exists() {
		fmt.Println(ui.FormatWarning("Vault already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + v.RootPath))
		return nil
	}

	fmt.Println(ui.FormatInfo("Initializing hr vault..."))
	fmt.Println()

	if err := v.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize vault"))
		return err
	}

	// Create default config
	if err := createDefaultConfig(v); err != nil {
		fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
		// Don't fail - config is optional
	}

	// Persistent client id, used to tag queued operations and socket sessions
	if err := createClientID(v); err != nil {
		fmt.Println(ui.FormatWarning("Failed to create client id: " + err.Error()))
	} else {
		fmt.Println(ui.FormatSuccess("Client identifier created"))
	}

	// Success message
	fmt.Println(ui.FormatSuccess("Vault initialized successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", v.RootPath))
	fmt.Println(ui.RenderKeyValue("Config", v.ConfigPath))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Point hr at your server: hr config set server_url https://..."))
	fmt.Println(ui.FormatMuted("  2. Sign in: hr login"))
	fmt.Println(ui.FormatMuted("  3. List your property book: hr list"))

	return nil
}

func createDefaultConfig(v *vault.Vault) error {
	// Commented default config; every setting has a sensible default
	defaultConfig := `# HR Configuration
# This file is optional - all settings have sensible defaults

# Server base URL (also settable via --server or HR_SERVER)
# server_url: "http://localhost:8080"

# Per-request HTTP timeout in seconds
# request_timeout_seconds: 15

# Cached collections are served without a network call while younger
# than this; older caches only answer when the server is unreachable
# enable_cache: true
# cache_expiration_minutes: 30

# Daemon probe/replay interval and file watch debounce
# sync_interval_seconds: 60
# sync_on_start: true
# watch_debounce_ms: 500

# Socket reconnect tuning
# socket_reconnect_delay_seconds: 5
# socket_max_reconnects: 10

# DA 2062 import: serial similarity ratio that flags a near-duplicate,
# and the longest image edge kept when uploading scans
# duplicate_threshold: 0.8
# max_scan_dimension: 2048

# UI: "auto", "dark", or "light"
# color_theme: "auto"
# display_date_format: "2006-01-02"

# Listing defaults
# default_sort: "name"
# reverse_sort: false
# page_size: 50
`

	configDir := filepath.Dir(v.ConfigPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(v.ConfigPath, []byte(defaultConfig), 0644)
}

func createClientID(v *vault.Vault) error {
	return os.WriteFile(v.ClientIDPath(), []byte(uuid.NewString()+"\n"), 0600)
}
