package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	listStatusFilter   string
	listCategoryFilter string
	listAssigned       bool
	listRefresh        bool
	listSortBy         string
	listReverse        bool
	listJSON           bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the property book",
	Aliases: []string{"ls"},
	Long: `List properties in a table.

Listings are served from the local cache while it is fresh. When the
server is unreachable a stale cache still answers, marked as offline
data.

Examples:
  hr list
  hr list --status lost
  hr list --category weapon --sort serial
  hr list --assigned --json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatusFilter, "status", "", "Filter by status (active, lost, damaged, ...)")
	listCmd.Flags().StringVar(&listCategoryFilter, "category", "", "Filter by category")
	listCmd.Flags().BoolVar(&listAssigned, "assigned", false, "Only properties assigned to a user")
	listCmd.Flags().BoolVar(&listRefresh, "refresh", false, "Bypass the cache and refetch")
	// Sort defaults to "name", but we handle config override in runList
	listCmd.Flags().StringVar(&listSortBy, "sort", "name", "Sort by field (name, serial, status, category, date)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse sort order")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print raw JSON instead of a table")
}

func runList(cmd *cobra.Command, args []string) error {
	// If the flag was NOT changed by the user, use the config default
	if !cmd.Flags().Changed("sort") {
		listSortBy = appConfig.DefaultSort
	}
	if !cmd.Flags().Changed("reverse") {
		listReverse = appConfig.ReverseSort
	}

	req := services.ListPropertiesRequest{
		Status:   listStatusFilter,
		Category: listCategoryFilter,
		Assigned: listAssigned,
		Refresh:  listRefresh,
	}

	ctx := getContext()
	resp, err := propertyService.List(ctx, req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list properties"))
		return err
	}

	sortProperties(resp.Properties, listSortBy, listReverse)

	if listJSON {
		data, err := json.MarshalIndent(resp.Properties, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode properties: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	// Handle empty results
	if resp.Total == 0 {
		if listStatusFilter != "" || listCategoryFilter != "" {
			fmt.Println(ui.FormatWarning("No properties match the filter"))
		} else {
			fmt.Println(ui.FormatWarning("No properties found"))
			fmt.Println(ui.FormatInfo("Create one with: hr create --name \"M4 Carbine\" --serial W123456"))
		}
		return nil
	}

	// Print header
	title := "Property Book"
	if listStatusFilter != "" || listCategoryFilter != "" {
		var filters []string
		if listStatusFilter != "" {
			filters = append(filters, "status: "+listStatusFilter)
		}
		if listCategoryFilter != "" {
			filters = append(filters, "category: "+listCategoryFilter)
		}
		title = fmt.Sprintf("Property Book (%s)", strings.Join(filters, ", "))
	}
	fmt.Println(ui.FormatTitle(title))
	fmt.Println()

	// Create table
	table := ui.NewTable([]ui.TableColumn{
		{Header: "Name", Width: 30, Align: "left"},
		{Header: "Serial", Width: 14, Align: "left"},
		{Header: "Status", Width: 10, Align: "left"},
		{Header: "Category", Width: 14, Align: "left"},
		{Header: "Qty", Width: 4, Align: "right"},
		{Header: "Ver", Width: 3, Align: "left"},
	})

	// Add rows
	for _, property := range resp.Properties {
		table.AddRow([]string{
			truncate(property.DisplayName(), 30),
			property.SerialNumber,
			ui.StatusBadge(property.Status),
			truncate(property.Category, 14),
			strconv.Itoa(property.Quantity),
			ui.VerifiedBadge(property.Verified),
		})
	}

	// Render table
	fmt.Print(table.Render())
	fmt.Println()

	// Print summary with data provenance
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d properties", resp.Total)))
	printProvenance(resp.FromCache, resp.Offline, resp.CacheAge)

	return nil
}

// sortProperties orders the listing for display. The server order is
// whatever the API returned; sorting is purely presentational.
func sortProperties(props []domain.Property, field string, reverse bool) {
	less := func(a, b *domain.Property) bool {
		switch field {
		case "serial":
			return a.SerialNumber < b.SerialNumber
		case "status":
			return a.Status < b.Status
		case "category":
			return a.Category < b.Category
		case "date":
			return a.CreatedAt.Before(b.CreatedAt)
		default: // name
			return strings.ToLower(a.DisplayName()) < strings.ToLower(b.DisplayName())
		}
	}

	sort.SliceStable(props, func(i, j int) bool {
		if reverse {
			return less(&props[j], &props[i])
		}
		return less(&props[i], &props[j])
	})
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
