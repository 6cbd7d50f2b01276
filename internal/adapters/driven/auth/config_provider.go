package auth

import (
	"context"
	"strings"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
)

// Ensure ConfigTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ConfigTokenProvider)(nil)

// ConfigTokenProvider reads the token saved with `envio settings token`.
// The store is read on every call so a token set later in the process is seen.
type ConfigTokenProvider struct {
	store driven.ConfigStore
}

// NewConfigTokenProvider creates a provider backed by the config store.
func NewConfigTokenProvider(store driven.ConfigStore) *ConfigTokenProvider {
	return &ConfigTokenProvider{store: store}
}

// GetToken returns the stored token or domain.ErrAuthRequired.
func (p *ConfigTokenProvider) GetToken(_ context.Context) (string, error) {
	if token := p.token(); token != "" {
		return token, nil
	}
	return "", domain.ErrAuthRequired
}

// Source returns "config".
func (p *ConfigTokenProvider) Source() string {
	return "config"
}

// IsAuthenticated returns true if a token is stored.
func (p *ConfigTokenProvider) IsAuthenticated() bool {
	return p.token() != ""
}

func (p *ConfigTokenProvider) token() string {
	if p.store == nil {
		return ""
	}
	return strings.TrimSpace(p.store.GetString(driven.KeyAPIToken))
}
