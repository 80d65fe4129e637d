package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	createName        string
	createSerial      string
	createDescription string
	createCategory    string
	createNSN         string
	createLIN         string
	createLocation    string
	createQuantity    int
	createCondition   string
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a property record",
	Long: `Create a property record in the property book.

Offline, the record is queued and created on the next replay. An NSN can
fill in the name and LIN from the reference catalog.

Examples:
  hr create --name "M4 Carbine" --serial W123456 --category weapon
  hr create --nsn 5855-01-534-1337 --serial N9001
  hr create --name "Radio Set" --serial R445 --location "Arms Room" --quantity 2`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createName, "name", "n", "", "Item name")
	createCmd.Flags().StringVarP(&createSerial, "serial", "s", "", "Serial number (required)")
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Description")
	createCmd.Flags().StringVar(&createCategory, "category", "", "Category (weapon, optic, comms, ...)")
	createCmd.Flags().StringVar(&createNSN, "nsn", "", "National Stock Number")
	createCmd.Flags().StringVar(&createLIN, "lin", "", "Line Item Number")
	createCmd.Flags().StringVar(&createLocation, "location", "", "Storage location")
	createCmd.Flags().IntVar(&createQuantity, "quantity", 1, "Quantity")
	createCmd.Flags().StringVar(&createCondition, "condition", "", "Condition (serviceable, unserviceable, ...)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	input := domain.PropertyInput{
		Name:         createName,
		SerialNumber: createSerial,
		Description:  createDescription,
		Category:     createCategory,
		NSN:          createNSN,
		LIN:          createLIN,
		Location:     createLocation,
		Quantity:     createQuantity,
		Condition:    createCondition,
	}

	ctx := getContext()

	// Fill the name from the reference catalog when only an NSN was given
	if input.NSN != "" && input.Name == "" {
		if lookup, err := nsnService.Lookup(ctx, input.NSN); err == nil {
			input.Name = lookup.Record.Nomenclature
			if input.LIN == "" {
				input.LIN = lookup.Record.LIN
			}
			fmt.Println(ui.FormatInfo("Filled from NSN catalog: " + lookup.Record.Nomenclature))
		}
	}

	resp, err := propertyService.Create(ctx, services.CreatePropertyRequest{Input: input})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to create property"))
		return err
	}

	if resp.Queued {
		fmt.Println(ui.FormatQueued("Server unreachable; create queued for replay"))
		fmt.Println(ui.FormatMuted("operation " + resp.OperationID))
		fmt.Println(ui.FormatInfo("Run 'hr sync' when the server is back"))
		return nil
	}

	fmt.Println(ui.FormatSuccess("Created " + resp.Property.DisplayName()))
	fmt.Println(ui.RenderKeyValue("Serial", resp.Property.SerialNumber))
	fmt.Println(ui.RenderKeyValue("ID", strconv.Itoa(resp.Property.ID)))

	return nil
}
