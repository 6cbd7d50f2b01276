package mcp

import (
	"github.com/custodia-labs/envio-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Quote retrieves shipping quotes.
	Quote driving.QuoteService

	// Label purchases and prints labels.
	Label driving.LabelService

	// Account checks the configured token. Optional.
	Account driving.AccountService

	// Settings exposes the label defaults. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Quote == nil {
		return ErrMissingQuoteService
	}
	if p.Label == nil {
		return ErrMissingLabelService
	}
	return nil
}
