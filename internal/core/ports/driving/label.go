package driving

import (
	"context"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

// LabelService purchases and prints shipping labels.
type LabelService interface {
	// CreateLabel adds the order to the cart, pays for it and requests the
	// label. It returns the order created by the cart step.
	CreateLabel(ctx context.Context, req domain.LabelRequest) (*domain.RemoteOrder, error)

	// PrintLabel downloads the rendered label of an order.
	PrintLabel(ctx context.Context, orderID string, mode domain.PrintMode) (*domain.Label, error)
}
