package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <serial> <new-status>",
	Short: "Update a property's status",
	Long: `Update a property's status.

Valid statuses: active, inactive, lost, damaged, in_repair, maintenance.
Offline, the change is queued by serial and applied on the next replay.

Examples:
  hr status W123456 damaged
  hr status W123456 active`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	req := services.UpdateStatusRequest{
		Serial: args[0],
		Status: args[1],
	}

	resp, err := propertyService.UpdateStatus(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to update status"))
		return err
	}

	if resp.Queued {
		fmt.Println(ui.FormatQueued("Server unreachable; status change queued for replay"))
		fmt.Println(ui.FormatMuted("operation " + resp.OperationID))
		return nil
	}

	fmt.Println(ui.FormatSuccess("Status updated"))
	fmt.Printf("%s %s\n", ui.FormatBold(resp.Property.DisplayName()), ui.StatusBadge(resp.Property.Status))

	return nil
}
