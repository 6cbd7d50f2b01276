package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driving"
	"github.com/custodia-labs/envio-cli/internal/logger"
)

// Ensure LabelService implements the interface.
var _ driving.LabelService = (*LabelService)(nil)

// CompensationTimeout bounds the undo call made after a failed step.
const CompensationTimeout = 10 * time.Second

// cancelDescription is sent with the cancellation of a paid order whose label failed.
const cancelDescription = "label generation failed"

// LabelService runs the cart, checkout and generate workflow.
//
// Each step after the cart has a compensating action: a failed checkout removes
// the order from the cart and a failed generate cancels the paid order.
type LabelService struct {
	carrier  driven.CarrierAPI
	keys     *domain.KeyGenerator
	defaults domain.LabelDefaults
	validate *validator.Validate

	newRunID            func() string
	compensationTimeout time.Duration
}

// NewLabelService creates a label service.
func NewLabelService(carrier driven.CarrierAPI, keys *domain.KeyGenerator, defaults domain.LabelDefaults) *LabelService {
	return &LabelService{
		carrier:             carrier,
		keys:                keys,
		defaults:            defaults,
		validate:            newValidator(),
		newRunID:            uuid.NewString,
		compensationTimeout: CompensationTimeout,
	}
}

// CreateLabel purchases a label. It returns the order created by the cart step.
//
// Precondition failures return a *domain.MissingFieldError or
// domain.ErrInvalidLength before any remote call. Remote failures return a
// *domain.WorkflowError naming the failed step.
func (s *LabelService) CreateLabel(ctx context.Context, req domain.LabelRequest) (*domain.RemoteOrder, error) {
	req = normalizeLabelRequest(req)
	if err := checkRequired(s.validate, req); err != nil {
		return nil, err
	}

	taxID, err := domain.ParseTaxID(req.From.CompanyDocument)
	if err != nil {
		return nil, fmt.Errorf("sender company document: %w", err)
	}
	key, err := s.keys.Generate(taxID.String())
	if err != nil {
		return nil, fmt.Errorf("generate document key: %w", err)
	}

	payload := s.buildPayload(req, key)
	runID := s.newRunID()
	log := logger.With("run_id", runID, "service", req.ServiceID)

	ctx, span := tracer().Start(ctx, "LabelService.CreateLabel")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.Int("service_id", req.ServiceID),
	)

	// 1. Cart
	order, err := s.carrier.AddToCart(ctx, payload)
	if err != nil {
		return nil, s.fail(span, log, newWorkflowError(domain.StepCart, runID, "", err))
	}
	if order == nil || order.ID == "" {
		return nil, s.fail(span, log, newWorkflowError(domain.StepCart, runID, "", domain.ErrCartRejected))
	}
	log = log.With("order_id", order.ID)
	span.SetAttributes(attribute.String("order_id", order.ID))
	log.Debug("cart created")

	// 2. Checkout
	if err := s.step(ctx, func(ctx context.Context) error {
		return s.carrier.Checkout(ctx, []string{order.ID})
	}); err != nil {
		wfErr := newWorkflowError(domain.StepCheckout, runID, order.ID, err)
		s.compensate(ctx, wfErr, log, func(ctx context.Context) error {
			return s.carrier.RemoveFromCart(ctx, order.ID)
		})
		return nil, s.fail(span, log, wfErr)
	}
	log.Debug("checkout done")

	// 3. Generate
	if err := s.step(ctx, func(ctx context.Context) error {
		return s.carrier.Generate(ctx, []string{order.ID})
	}); err != nil {
		wfErr := newWorkflowError(domain.StepGenerate, runID, order.ID, err)
		s.compensate(ctx, wfErr, log, func(ctx context.Context) error {
			return s.carrier.Cancel(ctx, order.ID, cancelDescription)
		})
		return nil, s.fail(span, log, wfErr)
	}
	log.Info("label requested")
	span.AddEvent("label requested")

	return order, nil
}

// PrintLabel downloads the rendered label of an order.
func (s *LabelService) PrintLabel(ctx context.Context, orderID string, mode domain.PrintMode) (*domain.Label, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.NewMissingFieldError("order_id")
	}
	if mode == "" {
		mode = domain.PrintModePrivate
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: print mode %q", domain.ErrInvalidInput, mode)
	}

	ctx, span := tracer().Start(ctx, "LabelService.PrintLabel")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", orderID))

	label, err := s.carrier.Print(ctx, mode, []string{orderID})
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("print label: %w", err)
	}
	if label.OrderID == "" {
		label.OrderID = orderID
	}
	return label, nil
}

// step runs a remote call unless the context is already done.
func (s *LabelService) step(ctx context.Context, call func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return call(ctx)
}

// compensate undoes the cart step. It runs on a context detached from the
// caller's cancellation and bounded by the compensation timeout.
func (s *LabelService) compensate(
	ctx context.Context, wfErr *domain.WorkflowError, log *logger.Scoped, undo func(context.Context) error,
) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.compensationTimeout)
	defer cancel()

	if err := undo(cctx); err != nil {
		wfErr.CompensationErr = err
		log.Warn("compensation failed, order left on carrier", "step", string(wfErr.Step), "error", err)
		return
	}
	wfErr.Compensated = true
	log.Info("compensated failed step", "step", string(wfErr.Step))
}

// fail records the error on the span and logs it.
func (s *LabelService) fail(span trace.Span, log *logger.Scoped, wfErr *domain.WorkflowError) error {
	recordError(span, wfErr)
	span.SetAttributes(
		attribute.String("failed_step", string(wfErr.Step)),
		attribute.Bool("compensated", wfErr.Compensated),
	)
	log.Debug("workflow failed", "step", string(wfErr.Step), "error", wfErr.Error())
	return wfErr
}

// newWorkflowError builds a WorkflowError, keeping the carrier's structured detail.
func newWorkflowError(step domain.WorkflowStep, runID, orderID string, err error) *domain.WorkflowError {
	wfErr := &domain.WorkflowError{
		Step:    step,
		RunID:   runID,
		OrderID: orderID,
		Err:     err,
	}

	var structured driven.StructuredError
	if errors.As(err, &structured) {
		wfErr.Message = structured.Detail()
		wfErr.Fields = structured.FieldErrors()
		wfErr.StatusCode = structured.HTTPStatus()
	}
	return wfErr
}

// buildPayload resolves the order from the request and the label defaults.
func (s *LabelService) buildPayload(req domain.LabelRequest, key domain.DocumentKey) domain.OrderPayload {
	d := s.defaults

	product := req.Product
	if product.Name == "" {
		product.Name = d.Product.Name
	}
	if product.Quantity <= 0 {
		product.Quantity = d.Product.Quantity
	}
	if product.Quantity <= 0 {
		product.Quantity = 1
	}
	if !product.UnitaryValue.IsPositive() {
		product.UnitaryValue = d.Product.UnitaryValue
	}

	return domain.OrderPayload{
		ServiceID: req.ServiceID,
		From: domain.Party{
			Contact:         mergeContact(req.From.Contact, d.Sender.Contact),
			Address:         mergeAddress(req.From.Address, d.Sender.Address),
			CompanyDocument: req.From.CompanyDocument,
			PostalCode:      req.From.PostalCode,
		},
		To: domain.Party{
			Contact:    mergeContact(req.To.Contact, d.Recipient.Contact),
			Address:    mergeAddress(req.To.Address, d.Recipient.Address),
			Document:   req.To.Document,
			PostalCode: req.To.PostalCode,
		},
		Products: []domain.Product{product},
		Volumes:  []domain.Package{req.Package.WithDefaults(d.Package.WithDefaults(domain.DefaultPackage()))},
		Options: domain.OrderOptions{
			InsuranceValue: product.UnitaryValue,
			NonCommercial:  true,
			Invoice:        domain.Invoice{Key: key},
		},
	}
}

// normalizeLabelRequest trims text fields and reduces documents and postal codes to digits.
func normalizeLabelRequest(req domain.LabelRequest) domain.LabelRequest {
	req.From.Contact = trimContact(req.From.Contact)
	req.From.Address = trimAddress(req.From.Address)
	req.From.CompanyDocument = domain.NormalizeDigits(req.From.CompanyDocument)
	req.From.PostalCode = domain.NormalizeDigits(req.From.PostalCode)

	req.To.Contact = trimContact(req.To.Contact)
	req.To.Address = trimAddress(req.To.Address)
	req.To.Document = domain.NormalizeDigits(req.To.Document)
	req.To.PostalCode = domain.NormalizeDigits(req.To.PostalCode)

	req.Product.Name = strings.TrimSpace(req.Product.Name)
	return req
}

func trimContact(c domain.Contact) domain.Contact {
	return domain.Contact{
		Name:  strings.TrimSpace(c.Name),
		Phone: domain.NormalizeDigits(c.Phone),
		Email: strings.TrimSpace(c.Email),
	}
}

func trimAddress(a domain.Address) domain.Address {
	return domain.Address{
		Street:     strings.TrimSpace(a.Street),
		Number:     strings.TrimSpace(a.Number),
		Complement: strings.TrimSpace(a.Complement),
		District:   strings.TrimSpace(a.District),
		City:       strings.TrimSpace(a.City),
		StateAbbr:  strings.ToUpper(strings.TrimSpace(a.StateAbbr)),
		CountryID:  strings.ToUpper(strings.TrimSpace(a.CountryID)),
	}
}

func mergeContact(c, def domain.Contact) domain.Contact {
	return domain.Contact{
		Name:  firstNonEmpty(c.Name, def.Name),
		Phone: firstNonEmpty(c.Phone, def.Phone),
		Email: firstNonEmpty(c.Email, def.Email),
	}
}

// mergeAddress uses the request address when it names a street, otherwise the default.
// Fields of the two addresses are never mixed.
func mergeAddress(a, def domain.Address) domain.Address {
	if a.Street == "" {
		return def
	}
	if a.CountryID == "" {
		a.CountryID = firstNonEmpty(def.CountryID, "BR")
	}
	return a
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
