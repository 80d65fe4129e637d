package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <serial>",
	Short: "Record that you have eyes on a property",
	Long: `Record a sensitive-items style verification: you physically sighted
the item just now. Offline, the verification is queued for replay.

Examples:
  hr verify W123456`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	resp, err := propertyService.Verify(getContext(), services.VerifyPropertyRequest{Serial: args[0]})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to verify property"))
		return err
	}

	if resp.Queued {
		fmt.Println(ui.FormatQueued("Server unreachable; verification queued for replay"))
		fmt.Println(ui.FormatMuted("operation " + resp.OperationID))
		return nil
	}

	fmt.Println(ui.FormatSuccess("Verified " + resp.Property.DisplayName()))
	if resp.Property.VerifiedAt != nil {
		fmt.Println(ui.FormatMuted("seen " + resp.Property.VerifiedAt.Local().Format("2006-01-02 15:04")))
	}

	return nil
}
