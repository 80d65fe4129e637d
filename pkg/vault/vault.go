package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

// Vault represents the managed storage directory for hr
type Vault struct {
	RootPath   string
	CachePath  string
	LogsPath   string
	ConfigPath string
}

// New creates a new Vault instance with XDG-compliant paths
func New() (*Vault, error) {
	rootPath, rootErr := getVaultRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine vault root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	vault := &Vault{
		RootPath:   rootPath,
		CachePath:  filepath.Join(rootPath, "cache"),
		LogsPath:   filepath.Join(rootPath, "logs"),
		ConfigPath: configPath,
	}

	return vault, nil
}

// getVaultRoot returns the vault root directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getVaultRoot() (string, error) {
	// Check XDG_DATA_HOME first (Unix-like systems)
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "hr"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Check if we're on Windows by looking for APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "hr"), nil
	}

	// Fall back to ~/.local/share/hr (Unix-like systems)
	return filepath.Join(homeDir, ".local", "share", "hr"), nil
}

func getConfigPath() (string, error) {
	// Check XDG_CONFIG_HOME first (Unix-like systems)
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "hr", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Check if we're on Windows by looking for APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "hr-config", "config.yaml"), nil
	}

	// Fall back to ~/.config/hr/config.yaml (Unix-like systems)
	return filepath.Join(homeDir, ".config", "hr", "config.yaml"), nil
}

// Initialize creates the vault directory structure if it doesn't exist
func (v *Vault) Initialize() error {
	directories := []string{
		v.RootPath,
		v.CachePath,
		v.LogsPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the vault has been initialized
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// QueuePath returns the path to the offline operation queue file
func (v *Vault) QueuePath() string {
	return filepath.Join(v.RootPath, "queue.json")
}

// TokensPath returns the path to the stored session tokens.
// The file is written with 0600; it holds bearer credentials.
func (v *Vault) TokensPath() string {
	return filepath.Join(v.RootPath, "tokens.json")
}

// CatalogPath returns the path to the NSN reference catalog database
func (v *Vault) CatalogPath() string {
	return filepath.Join(v.RootPath, "catalog.db")
}

// ClientIDPath returns the path to the persistent client identifier
func (v *Vault) ClientIDPath() string {
	return filepath.Join(v.RootPath, "client_id")
}

// LogPath returns the path to the background log file
func (v *Vault) LogPath() string {
	return filepath.Join(v.LogsPath, "hr.log")
}

// GetCachePath returns the full path for a cached collection file
func (v *Vault) GetCachePath(filename string) string {
	return filepath.Join(v.CachePath, filename)
}

// CleanCache removes all files in the cache directory
func (v *Vault) CleanCache() error {
	entries, err := os.ReadDir(v.CachePath)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(v.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
