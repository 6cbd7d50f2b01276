package driving

import (
	"context"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

// AccountService checks access to the carrier API.
type AccountService interface {
	// Verify confirms the token works and returns the account behind it.
	Verify(ctx context.Context) (*domain.Account, error)
}
