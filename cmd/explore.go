package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:     "explore [query]",
	Short:   "Fuzzy-find a property and show its card (alias: x)",
	Aliases: []string{"x"},
	Long: `Browse the property book with fuzzy search.
If no query is provided, shows an interactive picker with a preview pane.

Examples:
  hr explore
  hr explore rifle
  hr explore W123`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	listResp, err := propertyService.List(ctx, services.ListPropertiesRequest{})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load properties"))
		return err
	}

	properties := listResp.Properties
	useFuzzyFinder := len(args) == 0

	// A query narrows the set before selection
	if !useFuzzyFinder {
		query := strings.ToLower(args[0])
		var matches []domain.Property
		for _, p := range properties {
			if strings.Contains(strings.ToLower(p.DisplayName()), query) ||
				strings.Contains(strings.ToLower(p.SerialNumber), query) {
				matches = append(matches, p)
			}
		}
		properties = matches
	}

	if len(properties) == 0 {
		if useFuzzyFinder {
			fmt.Println(ui.FormatWarning("No properties found"))
			fmt.Println(ui.FormatInfo("Add your first item with: hr create -n \"Item name\" -s SERIAL"))
		} else {
			fmt.Println(ui.FormatWarning("No properties found matching: " + args[0]))
		}
		return nil
	}

	var selected *domain.Property
	if len(properties) == 1 {
		selected = &properties[0]
	} else if useFuzzyFinder {
		// Use fuzzy finder when no query was provided
		idx, err := fuzzyfinder.Find(
			properties,
			func(i int) string {
				return properties[i].DisplayName() + " · " + properties[i].SerialNumber
			},
			fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
				if i == -1 {
					return ""
				}
				p := properties[i]
				preview := fmt.Sprintf("Name: %s\nSerial: %s\nStatus: %s",
					p.DisplayName(),
					p.SerialNumber,
					p.Status)
				if p.Category != "" {
					preview += "\nCategory: " + p.Category
				}
				if p.Location != "" {
					preview += "\nLocation: " + p.Location
				}
				if p.Description != "" {
					preview += "\n\n" + p.Description
				}
				return preview
			}),
		)
		if err != nil {
			// User cancelled (Ctrl+C or ESC)
			fmt.Println(ui.FormatInfo("Operation cancelled."))
			return nil
		}
		selected = &properties[idx]
	} else {
		// Use numbered list when query was provided
		fmt.Println(ui.FormatInfo(fmt.Sprintf("Found %d matches:", len(properties))))
		fmt.Println()

		for i, p := range properties {
			fmt.Printf("  %d. %s %s\n",
				i+1,
				ui.StyleBold.Render(p.DisplayName()),
				ui.StyleMuted.Render("("+p.SerialNumber+")"))
		}
		fmt.Println()

		// Prompt for selection with retry loop
		reader := bufio.NewReader(os.Stdin)
		var selection int
		for {
			fmt.Print(ui.StyleInfo.Render("Select a property (1-" + strconv.Itoa(len(properties)) + "): "))

			input, err := reader.ReadString('\n')
			if err != nil {
				fmt.Println(ui.FormatWarning("Invalid input. Please enter a number."))
				continue
			}

			selection, err = strconv.Atoi(strings.TrimSpace(input))
			if err != nil {
				fmt.Println(ui.FormatWarning("Invalid input. Please enter a number."))
				continue
			}

			if selection < 1 || selection > len(properties) {
				fmt.Println(ui.FormatWarning(fmt.Sprintf("Please enter a number between 1 and %d.", len(properties))))
				continue
			}

			selected = &properties[selection-1]
			break
		}
		fmt.Println()
	}

	// The list payload is a summary; the detail endpoint has components
	resp, err := propertyService.Show(ctx, services.ShowPropertyRequest{Ref: selected.SerialNumber})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to show property"))
		return err
	}

	fmt.Println(renderPropertyCard(resp.Property))
	if resp.Offline {
		fmt.Println(ui.FormatOffline("Server unreachable; shown from the cache"))
	}

	return nil
}
