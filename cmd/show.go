package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	showCopy bool
	showJSON bool
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <serial|id>",
	Short: "Show one property in detail",
	Long: `Show a property detail card.

The reference is a serial number or a numeric id. Numeric references are
tried as ids first, then as serials.

Examples:
  hr show W123456
  hr show 42
  hr show W123456 --copy
  hr show W123456 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVarP(&showCopy, "copy", "c", false, "Copy the serial number to the clipboard")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print raw JSON instead of a card")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	resp, err := propertyService.Show(ctx, services.ShowPropertyRequest{Ref: args[0]})
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			fmt.Println(ui.FormatWarning("No property found for: " + args[0]))
			return nil
		}
		fmt.Println(ui.FormatError("Failed to show property"))
		return err
	}

	property := resp.Property

	if showJSON {
		data, err := json.MarshalIndent(property, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode property: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(renderPropertyCard(property))
	if resp.Offline {
		fmt.Println(ui.FormatOffline("Server unreachable; shown from the cache"))
	}

	if showCopy {
		if err := clipboard.WriteAll(property.SerialNumber); err != nil {
			fmt.Println(ui.FormatWarning("Failed to copy serial: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Serial " + property.SerialNumber + " copied to clipboard"))
		}
	}

	return nil
}

func renderPropertyCard(p *domain.Property) string {
	card := ui.NewCard(p.DisplayName())
	card.Add("Serial", p.SerialNumber)
	card.Add("Status", ui.StatusBadge(p.Status))
	card.Add("Verified", ui.VerifiedBadge(p.Verified))
	if p.VerifiedAt != nil {
		card.Add("Last seen", p.VerifiedAt.Local().Format("2006-01-02 15:04"))
	}
	card.Add("Category", p.Category)
	card.Add("Condition", p.Condition)
	card.Add("NSN", p.NSN)
	card.Add("LIN", p.LIN)
	card.Add("Location", p.Location)
	if p.Quantity > 1 {
		card.Add("Quantity", strconv.Itoa(p.Quantity))
	}
	if p.UnitPrice > 0 {
		card.Add("Unit price", fmt.Sprintf("$%.2f", p.UnitPrice))
	}
	if p.AssignedToUserID != nil {
		card.Add("Assigned to", "user "+strconv.Itoa(*p.AssignedToUserID))
	}
	if len(p.Components) > 0 {
		card.Add("Components", strconv.Itoa(len(p.Components)))
	}
	card.Add("Description", p.Description)
	card.Footer = fmt.Sprintf("id %d · created %s", p.ID, p.CreatedAt.Local().Format("2006-01-02"))

	rendered := card.Render()

	// Components get their own lines under the card
	if len(p.Components) > 0 {
		items := make([]string, 0, len(p.Components))
		for _, comp := range p.Components {
			line := comp.Name
			if comp.SerialNumber != "" {
				line += " (" + comp.SerialNumber + ")"
			}
			items = append(items, line)
		}
		rendered += "\n" + ui.RenderSimpleList(items)
	}

	return rendered
}
