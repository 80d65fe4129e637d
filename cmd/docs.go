package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	docsBox        string
	docsUnreadOnly bool
	docsRefresh    bool

	docsSendProperty  string
	docsSendRecipient int
	docsSendForm      string
	docsSendFault     string
)

// docsCmd represents the docs command group
var docsCmd = &cobra.Command{
	Use:     "docs",
	Short:   "Read and send documents",
	Aliases: []string{"documents", "doc"},
	Long: `Work with the document inbox: maintenance forms and transfer
paperwork exchanged between users.

Examples:
  hr docs
  hr docs --box sent
  hr docs read 12
  hr docs archive 12
  hr docs send --property W123456 --to 8 --form DA2404 "annual service due"
  hr docs bulk read 3 4 5`,
	RunE: runDocsList,
}

// docsListCmd represents the docs list subcommand
var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE:  runDocsList,
}

// docsReadCmd represents the docs read subcommand
var docsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Read a document (renders the form as markdown)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsRead,
}

var docsArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsArchive,
}

var docsSendCmd = &cobra.Command{
	Use:   "send <description>",
	Short: "Send a maintenance form for a property",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsSend,
}

var docsBulkCmd = &cobra.Command{
	Use:   "bulk <read|archive|delete> <id>...",
	Short: "Apply one operation to many documents",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDocsBulk,
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsReadCmd)
	docsCmd.AddCommand(docsArchiveCmd)
	docsCmd.AddCommand(docsSendCmd)
	docsCmd.AddCommand(docsBulkCmd)

	for _, c := range []*cobra.Command{docsCmd, docsListCmd} {
		c.Flags().StringVar(&docsBox, "box", "inbox", "Which box to list (inbox, sent, all)")
		c.Flags().BoolVar(&docsUnreadOnly, "unread", false, "Only unread documents")
		c.Flags().BoolVar(&docsRefresh, "refresh", false, "Bypass the cache and refetch")
	}

	docsSendCmd.Flags().StringVar(&docsSendProperty, "property", "", "Property serial or id (required)")
	docsSendCmd.Flags().IntVar(&docsSendRecipient, "to", 0, "Recipient user id (required)")
	docsSendCmd.Flags().StringVar(&docsSendForm, "form", domain.FormSubtypeDA2404, "Form type (DA2404 or DA5988E)")
	docsSendCmd.Flags().StringVar(&docsSendFault, "fault", "", "Fault description")
}

func runDocsList(cmd *cobra.Command, args []string) error {
	req := services.ListDocumentsRequest{
		Box:        docsBox,
		UnreadOnly: docsUnreadOnly,
		Refresh:    docsRefresh,
	}

	resp, err := documentService.List(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list documents"))
		return err
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No documents in " + docsBox))
		return nil
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("Documents (%s)", docsBox)))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Width: 4, Align: "right"},
		{Header: "", Width: 2, Align: "left"},
		{Header: "Title", Width: 34, Align: "left"},
		{Header: "Form", Width: 8, Align: "left"},
		{Header: "Serial", Width: 12, Align: "left"},
		{Header: "Sent", Width: 10, Align: "left"},
	})

	for i := range resp.Documents {
		doc := &resp.Documents[i]
		marker := " "
		if doc.Unread() {
			marker = ui.StyleWarning.Render(ui.IconDocument)
		}
		table.AddRow([]string{
			strconv.Itoa(doc.ID),
			marker,
			truncate(doc.Title, 34),
			doc.Subtype,
			doc.SerialNumber,
			doc.SentAt.Local().Format("2006-01-02"),
		})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d documents, %d unread", resp.Total, resp.Unread)))
	printProvenance(resp.FromCache, resp.Offline, resp.CacheAge)

	return nil
}

func runDocsRead(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("document id must be a number: %q", args[0])
	}

	resp, err := documentService.Read(getContext(), id)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to read document"))
		return err
	}

	rendered, err := renderDocumentMarkdown(resp.Document)
	if err != nil {
		// Unrenderable terminals still get the plain text
		fmt.Println(ui.FormatTitle(resp.Document.Title))
		fmt.Println()
		fmt.Println(resp.Document.Description)
	} else {
		fmt.Print(rendered)
	}

	if !resp.MarkedRead && resp.Document.Unread() {
		fmt.Println(ui.FormatWarning("Could not mark the document as read"))
	}

	return nil
}

// renderDocumentMarkdown builds a markdown view of the document and renders
// it for the terminal.
func renderDocumentMarkdown(doc *domain.Document) (string, error) {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", doc.Title)
	fmt.Fprintf(&md, "**Form:** %s  \n", documentFormLabel(doc))
	fmt.Fprintf(&md, "**From:** user %d  \n", doc.SenderUserID)
	fmt.Fprintf(&md, "**Sent:** %s\n\n", doc.SentAt.Local().Format("2006-01-02 15:04"))
	if doc.SerialNumber != "" {
		fmt.Fprintf(&md, "**Serial:** `%s`\n\n", doc.SerialNumber)
	}

	if doc.Description != "" {
		md.WriteString(doc.Description)
		md.WriteString("\n\n")
	}

	if len(doc.FormData) > 0 {
		var pretty map[string]any
		if err := json.Unmarshal(doc.FormData, &pretty); err == nil && len(pretty) > 0 {
			md.WriteString("## Form data\n\n")
			data, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Fprintf(&md, "```json\n%s\n```\n", data)
		}
	}

	if len(doc.Attachments) > 0 {
		md.WriteString("## Attachments\n\n")
		for _, att := range doc.Attachments {
			fmt.Fprintf(&md, "- %s\n", att)
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md.String())
}

func documentFormLabel(doc *domain.Document) string {
	if doc.Subtype != "" {
		return doc.Subtype
	}
	return doc.Type
}

func runDocsArchive(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("document id must be a number: %q", args[0])
	}

	doc, err := documentService.Archive(getContext(), id)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to archive document"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Archived: " + doc.Title))

	return nil
}

func runDocsSend(cmd *cobra.Command, args []string) error {
	if docsSendProperty == "" {
		return fmt.Errorf("--property is required")
	}
	if docsSendRecipient <= 0 {
		return fmt.Errorf("--to is required")
	}

	ctx := getContext()

	shown, err := propertyService.Show(ctx, services.ShowPropertyRequest{Ref: docsSendProperty})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to resolve property " + docsSendProperty))
		return err
	}

	req := services.SendMaintenanceRequest{
		Input: domain.MaintenanceFormInput{
			PropertyID:       shown.Property.ID,
			RecipientUserID:  docsSendRecipient,
			FormType:         strings.ToUpper(docsSendForm),
			Description:      args[0],
			FaultDescription: docsSendFault,
		},
	}

	resp, err := documentService.SendMaintenance(ctx, req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to send maintenance form"))
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Sent %s for %s (document #%d)",
		resp.Document.Subtype, shown.Property.DisplayName(), resp.Document.ID)))

	return nil
}

func runDocsBulk(cmd *cobra.Command, args []string) error {
	op := strings.ToLower(args[0])

	ids := make([]int, 0, len(args)-1)
	for _, raw := range args[1:] {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("document id must be a number: %q", raw)
		}
		ids = append(ids, id)
	}

	count, err := documentService.Bulk(getContext(), ids, op)
	if err != nil {
		fmt.Println(ui.FormatError("Bulk operation failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s applied to %d documents", op, count)))

	return nil
}
