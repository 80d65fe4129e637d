package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	importForce      bool
	importReviewOnly bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <scan-or-items-file>",
	Short: "Import property from a DA 2062 scan or an items file",
	Long: `Import property records from a hand receipt.

Image and PDF files are uploaded for server-side OCR; .json files are
parsed locally. Every batch is reviewed for duplicate serials before
anything is created: exact matches are dropped, near matches stop the
import unless --force is given.

Examples:
  hr import da2062.jpg
  hr import items.json
  hr import da2062.pdf --review-only
  hr import da2062.jpg --force`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importForce, "force", false, "Import despite near-duplicate flags")
	importCmd.Flags().BoolVar(&importReviewOnly, "review-only", false, "Stop after the duplicate review")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := getContext()

	// 1. Scan
	scan, err := importService.Scan(ctx, services.ScanRequest{Path: path})
	if err != nil {
		fmt.Println(ui.FormatError("Scan failed"))
		return err
	}

	printScanSummary(scan)

	if len(scan.Result.Items) == 0 {
		fmt.Println(ui.FormatWarning("The scan produced no items"))
		return nil
	}

	// 2. Review only: show the duplicate flags and stop
	if importReviewOnly {
		review, err := importService.Review(ctx, services.ReviewRequest{Items: scan.Result.Items})
		if err != nil {
			fmt.Println(ui.FormatError("Duplicate review failed"))
			return err
		}
		if review.ExistingUnavailable {
			fmt.Println(ui.FormatOffline("Property book unavailable; only in-batch duplicates were checked"))
		}
		if len(review.Flags) == 0 {
			fmt.Println(ui.FormatSuccess("No duplicate serials flagged"))
			return nil
		}
		printDuplicateFlags(review.Flags, scan.Result.Items)
		return nil
	}

	// 3. Import
	req := services.ImportRequest{
		Items:     scan.Result.Items,
		SourceRef: filepath.Base(path),
		Force:     importForce,
	}

	resp, err := importService.Import(ctx, req)
	if err != nil {
		if errors.Is(err, services.ErrDuplicatesFlagged) && resp != nil {
			fmt.Println(ui.FormatWarning("Import stopped: likely duplicates"))
			fmt.Println()
			printDuplicateFlags(resp.Flags, scan.Result.Items)
			fmt.Println()
			fmt.Println(ui.FormatInfo("Re-run with --force to import them anyway"))
			return err
		}
		fmt.Println(ui.FormatError("Import failed"))
		return err
	}

	printImportOutcome(resp)

	return nil
}

func printScanSummary(scan *services.ScanResponse) {
	source := "items file"
	if scan.Uploaded {
		source = "server OCR"
	}

	title := fmt.Sprintf("Scanned %d items (%s)", len(scan.Result.Items), source)
	if scan.Result.FormNumber != "" {
		title += " from " + scan.Result.FormNumber
	}
	fmt.Println(ui.FormatTitle(title))

	needReview := 0
	for _, item := range scan.Result.Items {
		if item.NeedsReview {
			needReview++
		}
	}
	if needReview > 0 {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d items have low-confidence fields", needReview)))
	}
	fmt.Println()
}

func printDuplicateFlags(flags []domain.DuplicateFlag, items []domain.ScanItem) {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "Item", Width: 26, Align: "left"},
		{Header: "Serial", Width: 14, Align: "left"},
		{Header: "Matches", Width: 14, Align: "left"},
		{Header: "Similarity", Width: 10, Align: "right"},
		{Header: "Where", Width: 8, Align: "left"},
	})

	for _, flag := range flags {
		name := ""
		if flag.ItemIndex >= 0 && flag.ItemIndex < len(items) {
			name = items[flag.ItemIndex].Name
		}
		similarity := fmt.Sprintf("%.0f%%", flag.Similarity*100)
		if flag.Exact {
			similarity = ui.StyleError.Render("exact")
		}
		where := "book"
		if flag.InBatch {
			where = "batch"
		}
		table.AddRow([]string{
			truncate(name, 26),
			flag.Serial,
			flag.MatchedTo,
			similarity,
			where,
		})
	}

	fmt.Print(table.Render())
}

func printImportOutcome(resp *services.ImportResponse) {
	result := resp.Result

	if result.CreatedCount > 0 {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Imported %d properties", result.CreatedCount)))
	}
	if len(resp.Skipped) > 0 {
		serials := make([]string, 0, len(resp.Skipped))
		for _, item := range resp.Skipped {
			serials = append(serials, item.SerialNumber)
		}
		fmt.Println(ui.FormatWarning(fmt.Sprintf("Skipped %d exact duplicates", len(resp.Skipped))))
		fmt.Println(ui.RenderSimpleList(serials))
	}
	if len(resp.Flags) > 0 {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d near-duplicate flags overridden by --force", len(resp.Flags))))
	}
	if result.FailedCount > 0 {
		fmt.Println(ui.FormatError(fmt.Sprintf("%d items failed", result.FailedCount)))
		for _, failed := range result.Failed {
			line := failed.Item.SerialNumber + ": " + failed.Reason
			fmt.Println(ui.FormatMuted("  " + line))
		}
	}
	if result.CreatedCount > 0 {
		fmt.Println()
		fmt.Println(ui.FormatMuted("Total in batch: " + strconv.Itoa(result.CreatedCount+result.FailedCount)))
	}
}
