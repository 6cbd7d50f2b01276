package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driving"
	"github.com/custodia-labs/envio-cli/internal/logger"
)

// Ensure QuoteService implements the interface.
var _ driving.QuoteService = (*QuoteService)(nil)

// QuoteService retrieves shipping quotes from the carrier.
type QuoteService struct {
	carrier        driven.CarrierAPI
	defaultPackage domain.Package
	validate       *validator.Validate
}

// NewQuoteService creates a quote service. A zero defaultPackage falls back
// to domain.DefaultPackage.
func NewQuoteService(carrier driven.CarrierAPI, defaultPackage domain.Package) *QuoteService {
	return &QuoteService{
		carrier:        carrier,
		defaultPackage: defaultPackage.WithDefaults(domain.DefaultPackage()),
		validate:       newValidator(),
	}
}

// Quote returns the options the carrier can serve for the request.
// Options the carrier flagged with an error are excluded.
func (s *QuoteService) Quote(ctx context.Context, req domain.QuoteRequest) ([]domain.QuoteOption, error) {
	req.FromPostalCode = domain.NormalizeDigits(req.FromPostalCode)
	req.ToPostalCode = domain.NormalizeDigits(req.ToPostalCode)
	req.Package = req.Package.WithDefaults(s.defaultPackage)

	if err := checkRequired(s.validate, req); err != nil {
		return nil, err
	}

	ctx, span := tracer().Start(ctx, "QuoteService.Quote")
	defer span.End()
	span.SetAttributes(
		attribute.String("from_postal_code", req.FromPostalCode),
		attribute.String("to_postal_code", req.ToPostalCode),
	)

	options, err := s.carrier.Calculate(ctx, req)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("calculate shipping: %w", err)
	}

	available := make([]domain.QuoteOption, 0, len(options))
	for _, opt := range options {
		if !opt.Available() {
			logger.Debug("skipping service %d (%s): %s", opt.ID, opt.Name, opt.Error)
			continue
		}
		available = append(available, opt)
	}

	span.SetAttributes(
		attribute.Int("options_total", len(options)),
		attribute.Int("options_available", len(available)),
	)
	return available, nil
}
