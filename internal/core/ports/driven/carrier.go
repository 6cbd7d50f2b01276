package driven

import (
	"context"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

// CarrierAPI submits requests to the carrier-aggregation API and returns
// its structured responses. Transport, authentication and rate limiting are
// the implementation's concern.
//
// Errors returned by implementations may expose the carrier's structured
// error payload through the StructuredError interface.
type CarrierAPI interface {
	// Me returns the account that owns the configured token.
	Me(ctx context.Context) (*domain.Account, error)

	// Calculate returns every shipping option for the request, including
	// options the carrier flagged with an error.
	Calculate(ctx context.Context, req domain.QuoteRequest) ([]domain.QuoteOption, error)

	// AddToCart stages an order in the carrier cart.
	AddToCart(ctx context.Context, payload domain.OrderPayload) (*domain.RemoteOrder, error)

	// RemoveFromCart deletes an unpaid order from the cart.
	RemoveFromCart(ctx context.Context, orderID string) error

	// Checkout pays for the given cart orders.
	Checkout(ctx context.Context, orderIDs []string) error

	// Generate requests label rendering for paid orders.
	Generate(ctx context.Context, orderIDs []string) error

	// Cancel cancels a paid order.
	Cancel(ctx context.Context, orderID, description string) error

	// Print returns the rendered labels for the given orders.
	Print(ctx context.Context, mode domain.PrintMode, orderIDs []string) (*domain.Label, error)
}

// StructuredError is implemented by carrier errors that carry the decoded
// error payload of a failed call.
type StructuredError interface {
	error

	// Detail returns the payload flattened into one human-readable message.
	Detail() string

	// FieldErrors returns the per-field messages, or nil if the carrier sent none.
	FieldErrors() map[string][]string

	// HTTPStatus returns the HTTP status code of the failed call.
	HTTPStatus() int
}
