package driving

import (
	"context"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

// QuoteService retrieves shipping quotes.
type QuoteService interface {
	// Quote returns the shipping options the carrier can serve.
	// Options flagged with an error are excluded.
	Quote(ctx context.Context, req domain.QuoteRequest) ([]domain.QuoteOption, error)
}
