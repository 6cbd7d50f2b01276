package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driving"
)

// Ensure AccountService implements the interface.
var _ driving.AccountService = (*AccountService)(nil)

// AccountService checks that the configured token reaches the carrier.
type AccountService struct {
	carrier driven.CarrierAPI
}

// NewAccountService creates an account service.
func NewAccountService(carrier driven.CarrierAPI) *AccountService {
	return &AccountService{carrier: carrier}
}

// Verify returns the account behind the token.
// Missing tokens surface as domain.ErrAuthRequired; every other failure wraps
// domain.ErrConnectionFailed.
func (s *AccountService) Verify(ctx context.Context) (*domain.Account, error) {
	ctx, span := tracer().Start(ctx, "AccountService.Verify")
	defer span.End()

	account, err := s.carrier.Me(ctx)
	if err != nil {
		recordError(span, err)
		if errors.Is(err, domain.ErrAuthRequired) || errors.Is(err, domain.ErrConnectionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrConnectionFailed, err)
	}
	return account, nil
}
