package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Check the configured API token",
	Long:  `Calls the carrier with the configured token and shows the account behind it.`,
	Args:  cobra.NoArgs,
	RunE:  runAccount,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errors.New("account service not configured")
	}

	account, err := accountService.Verify(cmd.Context())
	if err != nil {
		return fmt.Errorf("account check failed: %w", err)
	}

	cmd.Println(successStyle.Render("Token is valid"))
	cmd.Println(field("Account", account.DisplayName()))
	if account.Email != "" {
		cmd.Println(field("Email", account.Email))
	}
	if account.ID != "" {
		cmd.Println(field("ID", account.ID))
	}
	return nil
}
