// Package cli implements the envio command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/envio-cli/internal/core/ports/driving"
	"github.com/custodia-labs/envio-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services injected by main.
var (
	quoteService    driving.QuoteService
	labelService    driving.LabelService
	accountService  driving.AccountService
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "envio",
	Short: "Quote shipments and buy Melhor Envio labels",
	Long: `envio quotes shipping services and purchases labels through the
Melhor Envio API.

A label is bought in three steps: the order is added to the cart, paid for
at checkout and then generated. If a later step fails, the order created in
the cart is removed or cancelled so no balance is left tied up.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every carrier call to stderr")
}

// Services holds the driving ports used by the commands.
type Services struct {
	Quote    driving.QuoteService
	Label    driving.LabelService
	Account  driving.AccountService
	Settings driving.SettingsService
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	quoteService = s.Quote
	labelService = s.Label
	accountService = s.Account
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
