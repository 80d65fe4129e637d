package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/pkg/ui"
)

// cleanTargets maps a collection name to the cache keys behind it.
// Documents are cached per box, so one name covers both files.
var cleanTargets = map[string][]string{
	"properties":  {"properties"},
	"transfers":   {"transfers"},
	"connections": {"connections"},
	"documents":   {"documents:inbox", "documents:sent"},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [collection]",
	Short: "Clear cached server data",
	Long: `Remove cached collections so the next read fetches fresh data.

If no argument is provided, this command clears every cached collection.
If a collection name is provided, only that collection is dropped.
The NSN catalog, the offline queue, and your session are never touched.

Examples:
  hr clean              # Drop all cached collections (fixes stale listings)
  hr clean properties   # Re-fetch the property book on the next 'hr list'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	// 1. Case: Clean All (No arguments)
	if len(args) == 0 {
		fmt.Print(ui.StyleWarning.Render("Clearing cached collections... "))

		if err := cacheStore.InvalidateAll(ctx); err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}
		// Sweep leftover files the store no longer tracks
		if err := appVault.CleanCache(); err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}

		fmt.Println(ui.FormatSuccess("Done"))
		fmt.Println(ui.FormatMuted("All cached collections removed. The NSN catalog and offline queue are untouched."))
		return nil
	}

	// 2. Case: Clean Specific Collection
	name := strings.ToLower(args[0])
	keys, ok := cleanTargets[name]
	if !ok {
		fmt.Println(ui.FormatError("Unknown collection: " + name))
		return fmt.Errorf("valid collections: %s", strings.Join(cleanTargetNames(), ", "))
	}

	fmt.Printf("%s '%s' cache... ", ui.StyleWarning.Render("Clearing"), name)

	for _, key := range keys {
		if err := cacheStore.Invalidate(ctx, key); err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}
	}

	fmt.Println(ui.FormatSuccess("Done"))
	return nil
}

func cleanTargetNames() []string {
	return []string{"properties", "transfers", "connections", "documents"}
}
