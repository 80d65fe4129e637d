package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	transferStatusFilter string
	transferPendingOnly  bool
	transferRefresh      bool
	transferJSON         bool

	transferNotes      string
	transferToUser     int
	transferProperty   string
	transferComponents bool
)

// transferCmd represents the transfer command group
var transferCmd = &cobra.Command{
	Use:     "transfer",
	Short:   "Request, offer, and decide property transfers",
	Aliases: []string{"transfers", "xfer"},
	Long: `Work with property transfers.

A request asks for custody of an item by serial number; an offer hands a
held item to another user. Pending transfers are decided with approve,
reject, cancel, or complete.

Examples:
  hr transfer
  hr transfer request W123456 --notes "range detail"
  hr transfer offer --property W123456 --to 8
  hr transfer approve 17
  hr transfer approve`,
	RunE: runTransferList,
}

// transferListCmd represents the transfer list subcommand
var transferListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transfers",
	RunE:  runTransferList,
}

// transferShowCmd represents the transfer show subcommand
var transferShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one transfer in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransferShow,
}

// transferRequestCmd represents the transfer request subcommand
var transferRequestCmd = &cobra.Command{
	Use:   "request <serial>",
	Short: "Request custody of an item by serial number",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransferRequest,
}

// transferOfferCmd represents the transfer offer subcommand
var transferOfferCmd = &cobra.Command{
	Use:   "offer",
	Short: "Offer a held item to another user",
	RunE:  runTransferOffer,
}

var transferApproveCmd = &cobra.Command{
	Use:   "approve [id]",
	Short: "Approve a pending transfer",
	Args:  cobra.MaximumNArgs(1),
	RunE:  transferResolveRunE("approve"),
}

var transferRejectCmd = &cobra.Command{
	Use:   "reject [id]",
	Short: "Reject a pending transfer",
	Args:  cobra.MaximumNArgs(1),
	RunE:  transferResolveRunE("reject"),
}

var transferCancelCmd = &cobra.Command{
	Use:   "cancel [id]",
	Short: "Cancel a transfer you initiated",
	Args:  cobra.MaximumNArgs(1),
	RunE:  transferResolveRunE("cancel"),
}

var transferCompleteCmd = &cobra.Command{
	Use:   "complete [id]",
	Short: "Mark an approved transfer as handed over",
	Args:  cobra.MaximumNArgs(1),
	RunE:  transferResolveRunE("complete"),
}

func init() {
	transferCmd.AddCommand(transferListCmd)
	transferCmd.AddCommand(transferShowCmd)
	transferCmd.AddCommand(transferRequestCmd)
	transferCmd.AddCommand(transferOfferCmd)
	transferCmd.AddCommand(transferApproveCmd)
	transferCmd.AddCommand(transferRejectCmd)
	transferCmd.AddCommand(transferCancelCmd)
	transferCmd.AddCommand(transferCompleteCmd)

	for _, c := range []*cobra.Command{transferCmd, transferListCmd} {
		c.Flags().StringVar(&transferStatusFilter, "status", "", "Filter by status (pending, approved, ...)")
		c.Flags().BoolVar(&transferPendingOnly, "pending", false, "Only transfers awaiting a decision")
		c.Flags().BoolVar(&transferRefresh, "refresh", false, "Bypass the cache and refetch")
		c.Flags().BoolVar(&transferJSON, "json", false, "Print raw JSON instead of a table")
	}

	transferRequestCmd.Flags().StringVar(&transferNotes, "notes", "", "Note for the holder")

	transferOfferCmd.Flags().StringVar(&transferProperty, "property", "", "Property serial or id (required)")
	transferOfferCmd.Flags().IntVar(&transferToUser, "to", 0, "Recipient user id (required)")
	transferOfferCmd.Flags().BoolVar(&transferComponents, "components", false, "Include attached components")
	transferOfferCmd.Flags().StringVar(&transferNotes, "notes", "", "Note for the recipient")
}

func runTransferList(cmd *cobra.Command, args []string) error {
	req := services.ListTransfersRequest{
		Status:  transferStatusFilter,
		Pending: transferPendingOnly,
		Refresh: transferRefresh,
	}

	ctx := getContext()
	resp, err := transferService.List(ctx, req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list transfers"))
		return err
	}

	if transferJSON {
		data, err := json.MarshalIndent(resp.Transfers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode transfers: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No transfers found"))
		return nil
	}

	fmt.Println(ui.FormatTitle("Transfers"))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Width: 4, Align: "right"},
		{Header: "Item", Width: 26, Align: "left"},
		{Header: "Type", Width: 8, Align: "left"},
		{Header: "Status", Width: 10, Align: "left"},
		{Header: "From", Width: 5, Align: "right"},
		{Header: "To", Width: 5, Align: "right"},
		{Header: "Requested", Width: 10, Align: "left"},
	})

	for i := range resp.Transfers {
		t := &resp.Transfers[i]
		table.AddRow([]string{
			strconv.Itoa(t.ID),
			truncate(transferItemLabel(t), 26),
			t.TransferType,
			ui.StatusBadge(t.Status),
			strconv.Itoa(t.FromUserID),
			strconv.Itoa(t.ToUserID),
			t.RequestDate.Local().Format("2006-01-02"),
		})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d transfers", resp.Total)))
	printProvenance(resp.FromCache, resp.Offline, resp.CacheAge)

	return nil
}

func runTransferShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("transfer id must be a number: %q", args[0])
	}

	transfer, err := transferService.Get(getContext(), id)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to show transfer"))
		return err
	}

	card := ui.NewCard(fmt.Sprintf("Transfer #%d", transfer.ID))
	card.Add("Item", transferItemLabel(transfer))
	card.Add("Type", transfer.TransferType)
	card.Add("Status", ui.StatusBadge(transfer.Status))
	card.Add("From", "user "+strconv.Itoa(transfer.FromUserID))
	card.Add("To", "user "+strconv.Itoa(transfer.ToUserID))
	if transfer.IncludeComponents {
		card.Add("Components", "included")
	}
	card.Add("Notes", transfer.Notes)
	card.Add("Requested", transfer.RequestDate.Local().Format("2006-01-02 15:04"))
	if transfer.ResolvedDate != nil {
		card.Add("Resolved", transfer.ResolvedDate.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println(card.Render())

	return nil
}

func runTransferRequest(cmd *cobra.Command, args []string) error {
	req := services.RequestTransferRequest{
		Serial: args[0],
		Notes:  transferNotes,
	}

	resp, err := transferService.Request(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to request transfer"))
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Transfer #%d requested for %s",
		resp.Transfer.ID, resp.Transfer.RequestedSerialNumber)))
	fmt.Println(ui.FormatMuted("The current holder has to approve it"))

	return nil
}

func runTransferOffer(cmd *cobra.Command, args []string) error {
	if transferProperty == "" {
		return fmt.Errorf("--property is required")
	}
	if transferToUser <= 0 {
		return fmt.Errorf("--to is required")
	}

	ctx := getContext()

	// Resolve serial or id to the held record
	shown, err := propertyService.Show(ctx, services.ShowPropertyRequest{Ref: transferProperty})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to resolve property " + transferProperty))
		return err
	}

	req := services.OfferTransferRequest{
		PropertyID:        shown.Property.ID,
		ToUserID:          transferToUser,
		IncludeComponents: transferComponents,
		Notes:             transferNotes,
	}

	resp, err := transferService.Offer(ctx, req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to offer transfer"))
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Transfer #%d offered: %s to user %d",
		resp.Transfer.ID, shown.Property.DisplayName(), transferToUser)))

	return nil
}

// transferResolveRunE builds the RunE for one decision action. Without an
// id argument, a fuzzy picker over pending transfers selects one.
func transferResolveRunE(action string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var id int
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("transfer id must be a number: %q", args[0])
			}
			id = parsed
		} else {
			picked, ok, err := pickPendingTransfer()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(ui.FormatInfo("Operation cancelled."))
				return nil
			}
			id = picked
		}

		resp, err := transferService.Resolve(getContext(), services.ResolveTransferRequest{ID: id, Action: action})
		if err != nil {
			fmt.Println(ui.FormatError("Failed to " + action + " transfer"))
			return err
		}

		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Transfer #%d %s", resp.Transfer.ID, resp.Transfer.Status)))
		return nil
	}
}

// pickPendingTransfer opens a fuzzy finder over transfers awaiting a
// decision. ok is false when the user cancelled.
func pickPendingTransfer() (id int, ok bool, err error) {
	resp, err := transferService.List(getContext(), services.ListTransfersRequest{Pending: true})
	if err != nil {
		return 0, false, err
	}
	if resp.Total == 0 {
		return 0, false, fmt.Errorf("no pending transfers")
	}

	idx, err := fuzzyfinder.Find(
		resp.Transfers,
		func(i int) string {
			t := &resp.Transfers[i]
			return fmt.Sprintf("#%d %s (%s)", t.ID, transferItemLabel(t), t.TransferType)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			t := &resp.Transfers[i]
			return fmt.Sprintf("Item: %s\nType: %s\nFrom: user %d\nTo: user %d\nRequested: %s",
				transferItemLabel(t),
				t.TransferType,
				t.FromUserID,
				t.ToUserID,
				t.RequestDate.Local().Format("2006-01-02 15:04"))
		}),
	)
	if err != nil {
		// User cancelled (Ctrl+C or ESC)
		return 0, false, nil
	}

	return resp.Transfers[idx].ID, true, nil
}

func transferItemLabel(t *domain.Transfer) string {
	if t.PropertyName != "" {
		return t.PropertyName
	}
	if t.SerialNumber != "" {
		return t.SerialNumber
	}
	if t.RequestedSerialNumber != "" {
		return t.RequestedSerialNumber + " (by serial)"
	}
	return "property " + strconv.Itoa(t.PropertyID)
}
