package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/pkg/ui"
)

var syncClearYes bool

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay queued offline operations",
	Long: `Replay the offline operation queue against the server.

Operations replay oldest first. A failed operation is logged and skipped
so one bad entry cannot block the rest.

Examples:
  hr sync
  hr sync status
  hr sync clear`,
	RunE: runSyncReplay,
}

// syncStatusCmd represents the sync status subcommand
var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List queued operations without replaying them",
	RunE:  runSyncStatus,
}

// syncClearCmd represents the sync clear subcommand
var syncClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every queued operation",
	RunE:  runSyncClear,
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncClearCmd)
	syncClearCmd.Flags().BoolVarP(&syncClearYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runSyncReplay(cmd *cobra.Command, args []string) error {
	resp, err := syncService.Replay(getContext())
	if err != nil {
		fmt.Println(ui.FormatError("Replay failed"))
		return err
	}

	if resp.Offline {
		fmt.Println(ui.FormatOffline(fmt.Sprintf("Server unreachable; %d operations still queued", resp.Remaining)))
		return nil
	}

	if resp.Replayed == 0 && resp.Failed == 0 {
		fmt.Println(ui.FormatSuccess("Queue is empty; nothing to replay"))
		return nil
	}

	if resp.Replayed > 0 {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Replayed %d operations", resp.Replayed)))
	}
	if resp.Failed > 0 {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d operations failed and stay queued", resp.Failed)))
		for _, failure := range resp.Failures {
			fmt.Println(ui.FormatMuted(fmt.Sprintf("  %s  %s: %s", shortOpID(failure.ID), failure.Summary, failure.Error)))
		}
	}

	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	resp, err := syncService.Status(getContext())
	if err != nil {
		fmt.Println(ui.FormatError("Failed to read the queue"))
		return err
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatSuccess("Queue is empty"))
		return nil
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("Queued operations (%d)", resp.Total)))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Width: 8, Align: "left"},
		{Header: "Operation", Width: 36, Align: "left"},
		{Header: "Age", Width: 8, Align: "right"},
	})

	for i := range resp.Operations {
		op := &resp.Operations[i]
		table.AddRow([]string{
			shortOpID(op.ID),
			truncate(op.Summary(), 36),
			formatAge(op.Age()),
		})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatInfo("Replay with: hr sync"))

	return nil
}

func runSyncClear(cmd *cobra.Command, args []string) error {
	pending, err := syncService.Pending(getContext())
	if err != nil {
		fmt.Println(ui.FormatError("Failed to read the queue"))
		return err
	}
	if pending == 0 {
		fmt.Println(ui.FormatSuccess("Queue is already empty"))
		return nil
	}

	if !syncClearYes && !confirm(fmt.Sprintf("Drop %d queued operations? They will never reach the server", pending)) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}

	cleared, err := syncService.Clear(getContext())
	if err != nil {
		fmt.Println(ui.FormatError("Failed to clear the queue"))
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Dropped %d operations", cleared)))

	return nil
}

// shortOpID shortens a uuid for table display
func shortOpID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
