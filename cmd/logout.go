package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/pkg/ui"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	resp, err := authService.Logout(getContext())
	if err != nil {
		fmt.Println(ui.FormatError("Logout failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Signed out"))
	if !resp.ServerNotified {
		fmt.Println(ui.FormatMuted("Server unreachable; the local session was cleared anyway"))
	}

	return nil
}
