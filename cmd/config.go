package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/pkg/config"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the hr configuration",
	Long: `Inspect and edit the hr configuration.

Without a subcommand the effective configuration is listed. Values come
from the config file merged over built-in defaults; the server URL can
additionally be overridden per invocation with --server or HR_SERVER.

Examples:
  hr config
  hr config get server_url
  hr config set server_url https://hr.example.mil
  hr config set cache_expiration_minutes 60
  hr config edit`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every config key and its effective value",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one config value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save the file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)
}

// configKeys is the stable listing order, matching the file layout
var configKeys = []string{
	"server_url",
	"request_timeout_seconds",
	"enable_cache",
	"cache_expiration_minutes",
	"sync_interval_seconds",
	"sync_on_start",
	"watch_debounce_ms",
	"socket_reconnect_delay_seconds",
	"socket_max_reconnects",
	"duplicate_threshold",
	"max_scan_dimension",
	"color_theme",
	"display_date_format",
	"table_width",
	"default_sort",
	"reverse_sort",
	"page_size",
}

func runConfigList(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatTitle("Configuration"))
	fmt.Println(ui.FormatMuted(appVault.ConfigPath))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, key := range configKeys {
		value, err := configValue(appConfig, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", ui.StyleMuted.Render(key), value)
	}
	w.Flush()

	fmt.Println()
	fmt.Println(ui.FormatMuted("server_url may be overridden per run with --server or HR_SERVER"))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, err := configValue(appConfig, args[0])
	if err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		fmt.Println(ui.FormatInfo("Run 'hr config list' to see available keys"))
		return err
	}
	fmt.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := applyConfigValue(appConfig, key, value); err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		return err
	}

	if err := appConfig.Save(appVault.ConfigPath); err != nil {
		fmt.Println(ui.FormatError("Failed to save config"))
		return err
	}

	saved, _ := configValue(appConfig, key)
	fmt.Println(ui.FormatSuccess("Set " + key + " = " + saved))
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := appVault.ConfigPath

	// Ensure it exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s", path)
	}

	fmt.Println(ui.FormatInfo("Opening config: " + path))

	editor := GetPreferredEditor()

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func configValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "server_url":
		return cfg.ServerURL, nil
	case "request_timeout_seconds":
		return strconv.Itoa(cfg.RequestTimeout), nil
	case "enable_cache":
		return strconv.FormatBool(cfg.EnableCache), nil
	case "cache_expiration_minutes":
		return strconv.Itoa(cfg.CacheExpirationMinutes), nil
	case "sync_interval_seconds":
		return strconv.Itoa(cfg.SyncIntervalSeconds), nil
	case "sync_on_start":
		return strconv.FormatBool(cfg.SyncOnStart), nil
	case "watch_debounce_ms":
		return strconv.Itoa(cfg.WatchDebounceMS), nil
	case "socket_reconnect_delay_seconds":
		return strconv.Itoa(cfg.SocketReconnectDelaySeconds), nil
	case "socket_max_reconnects":
		return strconv.Itoa(cfg.SocketMaxReconnects), nil
	case "duplicate_threshold":
		return strconv.FormatFloat(cfg.DuplicateThreshold, 'f', -1, 64), nil
	case "max_scan_dimension":
		return strconv.Itoa(cfg.MaxScanDimension), nil
	case "color_theme":
		return cfg.ColorTheme, nil
	case "display_date_format":
		return cfg.DisplayDateFormat, nil
	case "table_width":
		return strconv.Itoa(cfg.TableWidth), nil
	case "default_sort":
		return cfg.DefaultSort, nil
	case "reverse_sort":
		return strconv.FormatBool(cfg.ReverseSort), nil
	case "page_size":
		return strconv.Itoa(cfg.PageSize), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s expects a number, got %q", key, value)
		}
		return n, nil
	}
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		return b, nil
	}

	var err error
	switch key {
	case "server_url":
		cfg.ServerURL = strings.TrimRight(value, "/")
	case "request_timeout_seconds":
		cfg.RequestTimeout, err = atoi()
	case "enable_cache":
		cfg.EnableCache, err = parseBool()
	case "cache_expiration_minutes":
		cfg.CacheExpirationMinutes, err = atoi()
	case "sync_interval_seconds":
		cfg.SyncIntervalSeconds, err = atoi()
	case "sync_on_start":
		cfg.SyncOnStart, err = parseBool()
	case "watch_debounce_ms":
		cfg.WatchDebounceMS, err = atoi()
	case "socket_reconnect_delay_seconds":
		cfg.SocketReconnectDelaySeconds, err = atoi()
	case "socket_max_reconnects":
		cfg.SocketMaxReconnects, err = atoi()
	case "duplicate_threshold":
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil || f <= 0 || f > 1 {
			return fmt.Errorf("%s expects a number between 0 and 1, got %q", key, value)
		}
		cfg.DuplicateThreshold = f
	case "max_scan_dimension":
		cfg.MaxScanDimension, err = atoi()
	case "color_theme":
		cfg.ColorTheme = value
	case "display_date_format":
		cfg.DisplayDateFormat = value
	case "table_width":
		cfg.TableWidth, err = atoi()
	case "default_sort":
		cfg.DefaultSort = value
	case "reverse_sort":
		cfg.ReverseSort, err = parseBool()
	case "page_size":
		cfg.PageSize, err = atoi()
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return err
}
