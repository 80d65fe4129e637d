package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and session expiry",
	RunE:  runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	resp, err := authService.WhoAmI(getContext())
	if err != nil {
		if errors.Is(err, ports.ErrNoSession) {
			fmt.Println(ui.FormatWarning("Not signed in"))
			fmt.Println(ui.FormatInfo("Run 'hr login' first"))
			return nil
		}
		fmt.Println(ui.FormatError("Failed to load session"))
		return err
	}

	// Offline fallback only knows what the stored session knows
	if resp.Offline {
		fmt.Println(ui.FormatOffline("Server unreachable; showing the stored session"))
		fmt.Println()
		fmt.Println(ui.RenderKeyValue("Email", resp.Session.Email))
		fmt.Println(ui.RenderKeyValue("User ID", strconv.Itoa(resp.Session.UserID)))
		fmt.Println(ui.RenderKeyValue("Session", formatExpiry(resp.ExpiresIn)))
		return nil
	}

	card := ui.NewCard("Session")
	card.Add("Name", resp.User.DisplayName())
	card.Add("Email", resp.User.Email)
	if resp.User.Rank != "" {
		card.Add("Rank", resp.User.Rank)
	}
	if resp.User.Unit != "" {
		card.Add("Unit", resp.User.Unit)
	}
	card.Add("Session", formatExpiry(resp.ExpiresIn))
	fmt.Println(card.Render())

	return nil
}

func formatExpiry(in time.Duration) string {
	if in <= 0 {
		return "expired"
	}
	return "expires in " + in.Round(time.Minute).String()
}
