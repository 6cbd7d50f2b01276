package driven

import "context"

// TokenProvider supplies the bearer token for carrier API calls.
// Tokens are issued outside envio; providers only read them.
type TokenProvider interface {
	// GetToken returns the configured token.
	// Returns domain.ErrAuthRequired when none is available.
	GetToken(ctx context.Context) (string, error)

	// Source describes where the token comes from (e.g. "env", "config").
	Source() string

	// IsAuthenticated returns true if a token is available.
	IsAuthenticated() bool
}
