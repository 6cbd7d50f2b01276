package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
)

// mockCarrier implements driven.CarrierAPI, recording every call.
type mockCarrier struct {
	mu    sync.Mutex
	calls []string

	account *domain.Account
	meErr   error

	options      []domain.QuoteOption
	calculateErr error
	lastQuote    domain.QuoteRequest

	order       *domain.RemoteOrder
	cartErr     error
	lastPayload domain.OrderPayload

	checkoutFn  func(ctx context.Context) error
	generateErr error
	removeErr   error
	cancelErr   error

	label    *domain.Label
	printErr error
	lastMode domain.PrintMode
}

var _ driven.CarrierAPI = (*mockCarrier)(nil)

func (m *mockCarrier) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockCarrier) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockCarrier) count(call string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockCarrier) Me(_ context.Context) (*domain.Account, error) {
	m.record("me")
	return m.account, m.meErr
}

func (m *mockCarrier) Calculate(_ context.Context, req domain.QuoteRequest) ([]domain.QuoteOption, error) {
	m.record("calculate")
	m.lastQuote = req
	return m.options, m.calculateErr
}

func (m *mockCarrier) AddToCart(_ context.Context, payload domain.OrderPayload) (*domain.RemoteOrder, error) {
	m.record("cart")
	m.lastPayload = payload
	return m.order, m.cartErr
}

func (m *mockCarrier) RemoveFromCart(_ context.Context, _ string) error {
	m.record("remove")
	return m.removeErr
}

func (m *mockCarrier) Checkout(ctx context.Context, _ []string) error {
	m.record("checkout")
	if m.checkoutFn != nil {
		return m.checkoutFn(ctx)
	}
	return nil
}

func (m *mockCarrier) Generate(_ context.Context, _ []string) error {
	m.record("generate")
	return m.generateErr
}

func (m *mockCarrier) Cancel(ctx context.Context, _, _ string) error {
	m.record("cancel")
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return m.cancelErr
}

func (m *mockCarrier) Print(_ context.Context, mode domain.PrintMode, ids []string) (*domain.Label, error) {
	m.record("print")
	m.lastMode = mode
	if m.printErr != nil {
		return nil, m.printErr
	}
	if m.label != nil {
		return m.label, nil
	}
	return &domain.Label{ContentType: "application/pdf", Content: []byte("%PDF")}, nil
}

// structuredErr is a carrier error exposing its payload.
type structuredErr struct {
	status int
	detail string
	fields map[string][]string
}

func (e *structuredErr) Error() string                    { return "carrier error: " + e.detail }
func (e *structuredErr) Detail() string                   { return e.detail }
func (e *structuredErr) FieldErrors() map[string][]string { return e.fields }
func (e *structuredErr) HTTPStatus() int                  { return e.status }

var _ driven.StructuredError = (*structuredErr)(nil)

// sequenceSource returns the queued values modulo n.
type sequenceSource struct {
	mu     sync.Mutex
	values []int64
	next   int
}

func (s *sequenceSource) Int64N(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}
