package cmd

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	statsRefresh bool
	statsHTML    string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show property book statistics",
	Long: `Aggregate the property book and transfer history.

Includes:
  - Counts by status, category, and condition
  - Total book value
  - Transfer activity
  - Optional HTML charts via --html`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsRefresh, "refresh", false, "Bypass the cache and refetch")
	statsCmd.Flags().StringVar(&statsHTML, "html", "", "Write an HTML chart report to this file")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	resp, err := statsService.Execute(ctx, services.StatsRequest{Refresh: statsRefresh})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to aggregate statistics"))
		return err
	}

	fmt.Println(ui.FormatTitle("Property Book Analytics"))
	fmt.Println()

	// --- General Stats (Tabular) ---
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Total Properties:"), resp.TotalProperties)

	verifiedPct := 0.0
	if resp.TotalProperties > 0 {
		verifiedPct = float64(resp.Verified) / float64(resp.TotalProperties) * 100
	}
	fmt.Fprintf(w, "%s\t%d (%.0f%%)\n", ui.StyleBold.Render("Verified:"), resp.Verified, verifiedPct)
	fmt.Fprintf(w, "%s\t$%.2f\n", ui.StyleBold.Render("Book Value:"), resp.TotalValue)
	fmt.Fprintf(w, "%s\t%d (%d pending)\n", ui.StyleBold.Render("Transfers:"), resp.TotalTransfers, resp.PendingTransfers)
	w.Flush()

	fmt.Println()
	renderCountBars("By Status", resp.ByStatus)
	renderCountBars("By Category", resp.ByCategory)
	renderCountBars("By Condition", resp.ByCondition)
	renderCountBars("Transfers", resp.TransfersByStatus)

	if resp.Offline {
		fmt.Println(ui.FormatOffline("Server unreachable; aggregated from cached data"))
	} else if resp.FromCache {
		fmt.Println(ui.FormatMuted("aggregated from cached data"))
	}

	if statsHTML != "" {
		if err := writeStatsHTML(resp, statsHTML); err != nil {
			fmt.Println(ui.FormatError("Failed to write HTML report"))
			return err
		}
		fmt.Println(ui.FormatSuccess("HTML report written to " + statsHTML))
	}

	return nil
}

type countPair struct {
	Name  string
	Count int
}

// sortedCounts orders a count map by count desc, then name, for stable
// display
func sortedCounts(counts map[string]int) []countPair {
	sorted := make([]countPair, 0, len(counts))
	for k, v := range counts {
		sorted = append(sorted, countPair{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// renderCountBars displays a horizontal bar chart for one count map
func renderCountBars(header string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	fmt.Println(ui.StyleHeader.Render(header))

	sorted := sortedCounts(counts)
	maxCount := sorted[0].Count
	barWidth := 20

	for _, pair := range sorted {
		length := int(math.Ceil(float64(pair.Count) / float64(maxCount) * float64(barWidth)))
		bar := strings.Repeat("█", length)

		fmt.Printf("%s %-15s %s\n",
			ui.StyleAccent.Render(bar),
			pair.Name,
			ui.StyleMuted.Render(fmt.Sprintf("%d", pair.Count)),
		)
	}
	fmt.Println()
}

// writeStatsHTML renders the aggregates as an HTML page of charts
func writeStatsHTML(resp *services.StatsResponse, path string) error {
	statusBar := charts.NewBar()
	statusBar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Properties by status"}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "HandReceipt stats"}),
	)
	names, values := chartSeries(resp.ByStatus)
	statusBar.SetXAxis(names).AddSeries("properties", values)

	categoryPie := charts.NewPie()
	categoryPie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Properties by category"}),
	)
	categoryPie.AddSeries("categories", pieSeries(resp.ByCategory)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}: {c}",
		}))

	transferBar := charts.NewBar()
	transferBar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Transfers by status"}),
	)
	names, values = chartSeries(resp.TransfersByStatus)
	transferBar.SetXAxis(names).AddSeries("transfers", values)

	page := components.NewPage()
	page.AddCharts(statusBar, categoryPie, transferBar)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return page.Render(f)
}

func chartSeries(counts map[string]int) ([]string, []opts.BarData) {
	sorted := sortedCounts(counts)
	names := make([]string, 0, len(sorted))
	values := make([]opts.BarData, 0, len(sorted))
	for _, pair := range sorted {
		names = append(names, pair.Name)
		values = append(values, opts.BarData{Value: pair.Count})
	}
	return names, values
}

func pieSeries(counts map[string]int) []opts.PieData {
	sorted := sortedCounts(counts)
	values := make([]opts.PieData, 0, len(sorted))
	for _, pair := range sorted {
		values = append(values, opts.PieData{Name: pair.Name, Value: pair.Count})
	}
	return values
}
