package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var nsnSearchLimit int

// nsnCmd represents the nsn command
var nsnCmd = &cobra.Command{
	Use:   "nsn <nsn>",
	Short: "Look up an NSN in the reference catalog",
	Long: `Look up a National Stock Number.

The local catalog answers first; misses are fetched from the server and
written through, so repeat lookups work offline.

Examples:
  hr nsn 5855-01-534-1337
  hr nsn 5855015341337
  hr nsn search "night vision"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNSNLookup,
}

// nsnSearchCmd represents the nsn search subcommand
var nsnSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog by nomenclature",
	Args:  cobra.ExactArgs(1),
	RunE:  runNSNSearch,
}

func init() {
	nsnCmd.AddCommand(nsnSearchCmd)
	nsnSearchCmd.Flags().IntVar(&nsnSearchLimit, "limit", 20, "Maximum results")
}

func runNSNLookup(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	resp, err := nsnService.Lookup(getContext(), args[0])
	if err != nil {
		fmt.Println(ui.FormatError("NSN lookup failed"))
		return err
	}

	record := resp.Record
	card := ui.NewCard(record.Nomenclature)
	card.Add("NSN", record.NSN)
	card.Add("LIN", record.LIN)
	card.Add("FSC", record.FSC)
	card.Add("NIIN", record.NIIN)
	if record.UnitPrice > 0 {
		card.Add("Unit price", fmt.Sprintf("$%.2f", record.UnitPrice))
	}
	card.Add("Manufacturer", record.Manufacturer)
	card.Add("Part number", record.PartNumber)
	card.Footer = "source: " + resp.Source
	fmt.Println(card.Render())

	return nil
}

func runNSNSearch(cmd *cobra.Command, args []string) error {
	req := services.SearchNSNRequest{
		Query: args[0],
		Limit: nsnSearchLimit,
	}

	resp, err := nsnService.Search(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("NSN search failed"))
		return err
	}

	if len(resp.Records) == 0 {
		fmt.Println(ui.FormatWarning("No catalog entries match: " + args[0]))
		if n, err := nsnService.CatalogCount(getContext()); err == nil && n == 0 {
			fmt.Println(ui.FormatMuted("The local catalog is empty; lookups fill it while online."))
		}
		if resp.Offline {
			fmt.Println(ui.FormatOffline("Server unreachable; only the local catalog was searched"))
		}
		return nil
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("NSN catalog (%d matches)", len(resp.Records))))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "NSN", Width: 16, Align: "left"},
		{Header: "LIN", Width: 7, Align: "left"},
		{Header: "Nomenclature", Width: 40, Align: "left"},
		{Header: "Price", Width: 10, Align: "right"},
	})

	for _, record := range resp.Records {
		price := ""
		if record.UnitPrice > 0 {
			price = fmt.Sprintf("$%.2f", record.UnitPrice)
		}
		table.AddRow([]string{
			record.NSN,
			record.LIN,
			truncate(record.Nomenclature, 40),
			price,
		})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted("source: " + resp.Source))
	if resp.Offline {
		fmt.Println(ui.FormatOffline("Server unreachable; only the local catalog was searched"))
	}

	return nil
}
