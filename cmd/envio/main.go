// Command envio quotes shipments and buys Melhor Envio labels.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/envio-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/envio-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/envio-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/envio-cli/internal/connectors/melhorenvio"
	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = ""

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	store, err := file.NewConfigStore("")
	if err != nil {
		return err
	}

	settingsService := services.NewSettingsService(store)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// The client resolves the token on every call so that
	// `envio settings token` takes effect without a restart.
	tokens := auth.NewDefaultTokenProvider(store)
	carrier := melhorenvio.NewClient(melhorenvio.ConfigFromSettings(settings.API), tokens)

	keys := domain.NewKeyGenerator(domain.NewRandomSource(), nil)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Quote:    services.NewQuoteService(carrier, settings.Defaults.Package),
		Label:    services.NewLabelService(carrier, keys, settings.Defaults),
		Account:  services.NewAccountService(carrier),
		Settings: settingsService,
	})

	return cli.Execute(ctx)
}
