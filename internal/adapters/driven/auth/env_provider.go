package auth

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
)

// EnvTokenVar is the environment variable holding the carrier API token.
//
//nolint:gosec // G101: variable name, not a credential.
const EnvTokenVar = "ENVIO_TOKEN"

// Ensure EnvTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*EnvTokenProvider)(nil)

// EnvTokenProvider reads the token from an environment variable on every call.
type EnvTokenProvider struct {
	name   string
	lookup func(string) (string, bool)
}

// NewEnvTokenProvider creates a provider for the given variable.
// An empty name defaults to EnvTokenVar.
func NewEnvTokenProvider(name string) *EnvTokenProvider {
	if name == "" {
		name = EnvTokenVar
	}
	return &EnvTokenProvider{name: name, lookup: os.LookupEnv}
}

// GetToken returns the variable's value or domain.ErrAuthRequired when unset.
func (p *EnvTokenProvider) GetToken(_ context.Context) (string, error) {
	if token := p.token(); token != "" {
		return token, nil
	}
	return "", domain.ErrAuthRequired
}

// Source returns "env".
func (p *EnvTokenProvider) Source() string {
	return "env"
}

// IsAuthenticated returns true if the variable is set.
func (p *EnvTokenProvider) IsAuthenticated() bool {
	return p.token() != ""
}

func (p *EnvTokenProvider) token() string {
	v, _ := p.lookup(p.name)
	return strings.TrimSpace(v)
}
