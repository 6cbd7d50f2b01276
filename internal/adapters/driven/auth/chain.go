package auth

import (
	"context"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
)

// Ensure ChainTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ChainTokenProvider)(nil)

// ChainTokenProvider returns the token of the first authenticated provider.
type ChainTokenProvider struct {
	providers []driven.TokenProvider
}

// NewChainTokenProvider creates a provider trying each of providers in order.
func NewChainTokenProvider(providers ...driven.TokenProvider) *ChainTokenProvider {
	return &ChainTokenProvider{providers: providers}
}

// NewDefaultTokenProvider prefers ENVIO_TOKEN over the token in the config store.
func NewDefaultTokenProvider(store driven.ConfigStore) *ChainTokenProvider {
	return NewChainTokenProvider(
		NewEnvTokenProvider(EnvTokenVar),
		NewConfigTokenProvider(store),
	)
}

// GetToken returns the first available token or domain.ErrAuthRequired.
func (c *ChainTokenProvider) GetToken(ctx context.Context) (string, error) {
	for _, p := range c.providers {
		if !p.IsAuthenticated() {
			continue
		}
		return p.GetToken(ctx)
	}
	return "", domain.ErrAuthRequired
}

// Source names the provider that currently supplies the token, or "none".
func (c *ChainTokenProvider) Source() string {
	if p := c.active(); p != nil {
		return p.Source()
	}
	return "none"
}

// IsAuthenticated returns true if any provider has a token.
func (c *ChainTokenProvider) IsAuthenticated() bool {
	return c.active() != nil
}

func (c *ChainTokenProvider) active() driven.TokenProvider {
	for _, p := range c.providers {
		if p.IsAuthenticated() {
			return p
		}
	}
	return nil
}
