package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your hr installation",
	Long: `Diagnose issues with your hr setup.

Checks for:
  - Vault directory integrity
  - Configuration file existence
  - Server reachability and session state
  - NSN catalog and offline queue health`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	fmt.Println(ui.FormatTitle("HR Doctor"))
	fmt.Println()

	// 1. Check Vault Structure
	checkStep("Vault Directory", func() error {
		if !appVault.Exists() {
			return fmt.Errorf("not found at %s", appVault.RootPath)
		}
		return nil
	})

	checkStep("Cache Directory", func() error {
		if _, err := os.Stat(appVault.CachePath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", appVault.CachePath)
		}
		return nil
	})

	checkStep("Logs Directory", func() error {
		if _, err := os.Stat(appVault.LogsPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", appVault.LogsPath)
		}
		return nil
	})

	checkStep("Client ID", func() error {
		if _, err := os.Stat(appVault.ClientIDPath()); os.IsNotExist(err) {
			return fmt.Errorf("missing (re-run 'hr init')")
		}
		return nil
	})

	// 2. Check Config
	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appVault.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in effect)", appVault.ConfigPath)
		}
		return nil
	})

	// 3. Check Server & Session
	checkStep("Server Reachability", func() error {
		if err := apiClient.Ping(getContext()); err != nil {
			return fmt.Errorf("unreachable (offline mode still works)")
		}
		return nil
	})

	checkStep("Session", func() error {
		session, err := tokenStore.Load()
		if err != nil {
			return fmt.Errorf("not signed in (run 'hr login')")
		}
		remaining := time.Until(session.ExpiresAt)
		if remaining <= 0 {
			return fmt.Errorf("expired (run 'hr login')")
		}
		if remaining < time.Hour {
			return fmt.Errorf("%s as %s; sign in again soon", formatExpiry(remaining), session.Email)
		}
		return nil
	})

	// 4. Check Environment
	checkStep("EDITOR Variable", func() error {
		if os.Getenv("EDITOR") == "" {
			return fmt.Errorf("not set (using fallback 'vi')")
		}
		return nil
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking local data..."))

	checkStep("NSN Catalog", func() error {
		count, err := catalogStore.Count(getContext())
		if err != nil {
			return fmt.Errorf("unreadable: %v", err)
		}
		if count == 0 {
			return fmt.Errorf("empty (lookups will fill it while online)")
		}
		fmt.Printf("    %s\n", ui.StyleMuted.Render(fmt.Sprintf("%d cached records", count)))
		return nil
	})

	checkStep("Offline Queue", func() error {
		ops, err := queueStore.List(getContext())
		if err != nil {
			return fmt.Errorf("unreadable: %v", err)
		}
		if len(ops) == 0 {
			return nil
		}

		oldest := time.Duration(0)
		for _, op := range ops {
			if age := op.Age(); age > oldest {
				oldest = age
			}
		}
		if oldest > 24*time.Hour {
			return fmt.Errorf("%d operations waiting, oldest %s old (is 'hr daemon' running?)", len(ops), formatAge(oldest))
		}
		return fmt.Errorf("%d operations waiting (run 'hr sync')", len(ops))
	})

	checkStep("Cached Collections", func() error {
		var ignored json.RawMessage
		fetchedAt, err := cacheStore.Get(getContext(), "properties", &ignored)
		if err != nil {
			if errors.Is(err, ports.ErrCacheMiss) {
				return fmt.Errorf("no property cache yet (run 'hr list' while online)")
			}
			return fmt.Errorf("unreadable: %v", err)
		}
		fmt.Printf("    %s\n", ui.StyleMuted.Render("properties cached "+formatAge(time.Since(fetchedAt))+" ago"))
		return nil
	})
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess(ui.IconSuccess), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError(ui.IconError), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
