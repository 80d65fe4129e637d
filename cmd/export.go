package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	exportFormat string
	exportStatus string
)

// exportProfile defines how one output format is produced
type exportProfile struct {
	Extension string
	Write     func(w io.Writer, properties []domain.Property) error
}

// Registry of supported formats
var exportProfiles = map[string]exportProfile{
	"csv":  {Extension: "csv", Write: writePropertyCSV},
	"json": {Extension: "json", Write: writePropertyJSON},
}

var exportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export the property book (CSV, JSON)",
	Long: `Write the property book to a file for spreadsheets or other tools.

Supported Formats:
  - csv (Default): One row per property, ready for a hand receipt spreadsheet.
  - json: The full records as the server returns them.

With no argument the file is written to the working directory. Pass '-'
to write to stdout for piping.

Examples:
  hr export                      # Write property-book.csv
  hr export -f json book.json    # Full records as JSON
  hr export -f json - | jq .     # Pipe to other tools
  hr export --status active      # Only active records`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format (csv, json)")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Only export properties with this status")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	profile, ok := exportProfiles[exportFormat]
	if !ok {
		return fmt.Errorf("unsupported format: %s (valid: csv, json)", exportFormat)
	}

	resp, err := propertyService.List(ctx, services.ListPropertiesRequest{Status: exportStatus})
	if err != nil {
		return err
	}
	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No properties to export."))
		return nil
	}

	dest := "property-book." + profile.Extension
	if len(args) > 0 {
		dest = args[0]
	}

	var out io.Writer = os.Stdout
	if dest != "-" {
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", dest, err)
		}
		defer f.Close()
		out = f
	}

	if err := profile.Write(out, resp.Properties); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	// Writing to stdout: the data is the output, say nothing else
	if dest == "-" {
		return nil
	}

	if resp.Offline {
		fmt.Println(ui.FormatOffline("Server unreachable; exported from the cache"))
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Exported %d records to %s", resp.Total, dest)))
	return nil
}

// writePropertyCSV flattens the listing into spreadsheet rows. The listing
// is a summary payload, so component rows are not included.
func writePropertyCSV(w io.Writer, properties []domain.Property) error {
	cw := csv.NewWriter(w)
	header := []string{"Name", "Serial", "NSN", "LIN", "Category", "Status", "Condition", "Location", "Quantity", "Verified", "Updated"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range properties {
		p := &properties[i]
		verified := ""
		if p.VerifiedAt != nil {
			verified = p.VerifiedAt.Format(appConfig.DisplayDateFormat)
		}
		row := []string{
			p.Name,
			p.SerialNumber,
			p.NSN,
			p.LIN,
			p.Category,
			p.Status,
			p.Condition,
			p.Location,
			strconv.Itoa(p.Quantity),
			verified,
			p.UpdatedAt.Format(appConfig.DisplayDateFormat),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writePropertyJSON(w io.Writer, properties []domain.Property) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(properties)
}
