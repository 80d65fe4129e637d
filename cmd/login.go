package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/handreceipt/hr-cli/internal/core/ports"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	loginEmail    string
	loginPassword string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the HandReceipt server",
	Long: `Sign in and store the session tokens in the vault.

Prompts for anything not given via flags. The password prompt does not
echo.

Examples:
  hr login
  hr login --email reyes@example.mil`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(loginEmail)
	if email == "" {
		fmt.Print(ui.StyleInfo.Render("Email: "))
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	password := loginPassword
	if password == "" {
		fmt.Print(ui.StyleInfo.Render("Password: "))
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	req := services.LoginRequest{
		Email:    email,
		Password: password,
	}

	resp, err := authService.Login(getContext(), req)
	if err != nil {
		if errors.Is(err, ports.ErrUnauthorized) {
			fmt.Println(ui.FormatError("Invalid email or password"))
			return err
		}
		fmt.Println(ui.FormatError("Login failed"))
		return err
	}

	name := email
	if resp.User != nil {
		name = resp.User.DisplayName()
	}
	fmt.Println(ui.FormatSuccess("Signed in as " + name))
	if !resp.ExpiresAt.IsZero() {
		fmt.Println(ui.FormatMuted("Session expires " + resp.ExpiresAt.Local().Format("2006-01-02 15:04")))
	}

	return nil
}
