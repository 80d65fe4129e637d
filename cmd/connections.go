package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/domain"
	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	connectionsStatusFilter string
	connectionsRefresh      bool
)

// connectionsCmd represents the connections command group
var connectionsCmd = &cobra.Command{
	Use:     "connections",
	Short:   "Manage your user connections",
	Aliases: []string{"conn", "connection"},
	Long: `Manage the users you can transfer property with.

A connection target is a numeric user id, or a name/email search; an
ambiguous search lists the candidates instead of guessing.

Examples:
  hr connections
  hr connections request chen
  hr connections request 42
  hr connections accept 7
  hr connections search reyes`,
	RunE: runConnectionsList,
}

// connectionsListCmd represents the connections list subcommand
var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connections",
	RunE:  runConnectionsList,
}

var connectionsRequestCmd = &cobra.Command{
	Use:   "request <user-id|search>",
	Short: "Send a connection request",
	Args:  cobra.ExactArgs(1),
	RunE:  runConnectionsRequest,
}

var connectionsAcceptCmd = &cobra.Command{
	Use:   "accept <id>",
	Short: "Accept a pending connection request",
	Args:  cobra.ExactArgs(1),
	RunE:  runConnectionsAccept,
}

var connectionsBlockCmd = &cobra.Command{
	Use:   "block <id>",
	Short: "Block a connection",
	Args:  cobra.ExactArgs(1),
	RunE:  runConnectionsBlock,
}

var connectionsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search users by name or email",
	Args:  cobra.ExactArgs(1),
	RunE:  runConnectionsSearch,
}

func init() {
	connectionsCmd.AddCommand(connectionsListCmd)
	connectionsCmd.AddCommand(connectionsRequestCmd)
	connectionsCmd.AddCommand(connectionsAcceptCmd)
	connectionsCmd.AddCommand(connectionsBlockCmd)
	connectionsCmd.AddCommand(connectionsSearchCmd)

	for _, c := range []*cobra.Command{connectionsCmd, connectionsListCmd} {
		c.Flags().StringVar(&connectionsStatusFilter, "status", "", "Filter by status (pending, accepted, blocked)")
		c.Flags().BoolVar(&connectionsRefresh, "refresh", false, "Bypass the cache and refetch")
	}
}

func runConnectionsList(cmd *cobra.Command, args []string) error {
	req := services.ListConnectionsRequest{
		Status:  connectionsStatusFilter,
		Refresh: connectionsRefresh,
	}

	resp, err := connectionService.List(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list connections"))
		return err
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No connections found"))
		fmt.Println(ui.FormatInfo("Send a request with: hr connections request <name>"))
		return nil
	}

	fmt.Println(ui.FormatTitle("Connections"))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Width: 4, Align: "right"},
		{Header: "Name", Width: 24, Align: "left"},
		{Header: "Rank", Width: 6, Align: "left"},
		{Header: "Unit", Width: 18, Align: "left"},
		{Header: "Status", Width: 10, Align: "left"},
		{Header: "Since", Width: 10, Align: "left"},
	})

	for i := range resp.Connections {
		conn := &resp.Connections[i]
		rank, unit := "", ""
		if conn.ConnectedUser != nil {
			rank = conn.ConnectedUser.Rank
			unit = conn.ConnectedUser.Unit
		}
		table.AddRow([]string{
			strconv.Itoa(conn.ID),
			truncate(connectionPeerLabel(conn), 24),
			rank,
			truncate(unit, 18),
			ui.StatusBadge(conn.ConnectionStatus),
			conn.CreatedAt.Local().Format("2006-01-02"),
		})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d connections", resp.Total)))
	printProvenance(resp.FromCache, resp.Offline, resp.CacheAge)

	return nil
}

func runConnectionsRequest(cmd *cobra.Command, args []string) error {
	resp, err := connectionService.Request(getContext(), services.RequestConnectionRequest{Target: args[0]})
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			fmt.Println(ui.FormatWarning("No users match: " + args[0]))
			return nil
		}
		fmt.Println(ui.FormatError("Failed to request connection"))
		return err
	}

	// Ambiguous search: list the candidates and let the user pick by id
	if resp.Connection == nil {
		fmt.Println(ui.FormatInfo(fmt.Sprintf("Found %d matches:", len(resp.Candidates))))
		fmt.Println()
		printUserTable(resp.Candidates)
		fmt.Println()
		fmt.Println(ui.FormatInfo("Re-run with the user id: hr connections request <id>"))
		return nil
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Connection request sent to user %d", resp.Connection.ConnectedUserID)))

	return nil
}

func runConnectionsAccept(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("connection id must be a number: %q", args[0])
	}

	conn, err := connectionService.Accept(getContext(), id)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to accept connection"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Connected with " + connectionPeerLabel(conn)))

	return nil
}

func runConnectionsBlock(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("connection id must be a number: %q", args[0])
	}

	conn, err := connectionService.Block(getContext(), id)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to block connection"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Blocked " + connectionPeerLabel(conn)))

	return nil
}

func runConnectionsSearch(cmd *cobra.Command, args []string) error {
	users, err := connectionService.SearchUsers(getContext(), args[0])
	if err != nil {
		fmt.Println(ui.FormatError("Search failed"))
		return err
	}

	if len(users) == 0 {
		fmt.Println(ui.FormatWarning("No users match: " + args[0]))
		return nil
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("Users (%d)", len(users))))
	fmt.Println()
	printUserTable(users)

	return nil
}

func printUserTable(users []domain.User) {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Width: 4, Align: "right"},
		{Header: "Name", Width: 24, Align: "left"},
		{Header: "Rank", Width: 6, Align: "left"},
		{Header: "Unit", Width: 18, Align: "left"},
		{Header: "Email", Width: 28, Align: "left"},
	})
	for _, user := range users {
		table.AddRow([]string{
			strconv.Itoa(user.ID),
			truncate(user.DisplayName(), 24),
			user.Rank,
			truncate(user.Unit, 18),
			truncate(user.Email, 28),
		})
	}
	fmt.Print(table.Render())
}

func connectionPeerLabel(c *domain.UserConnection) string {
	if c.ConnectedUser != nil {
		return c.ConnectedUser.DisplayName()
	}
	return "user " + strconv.Itoa(c.ConnectedUserID)
}
