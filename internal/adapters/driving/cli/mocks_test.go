package cli

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/envio-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/services"
)

type mockQuoteService struct {
	options []domain.QuoteOption
	err     error
	lastReq domain.QuoteRequest
}

func (m *mockQuoteService) Quote(_ context.Context, req domain.QuoteRequest) ([]domain.QuoteOption, error) {
	m.lastReq = req
	return m.options, m.err
}

type mockLabelService struct {
	order     *domain.RemoteOrder
	label     *domain.Label
	err       error
	lastReq   domain.LabelRequest
	lastOrder string
	lastMode  domain.PrintMode
}

func (m *mockLabelService) CreateLabel(_ context.Context, req domain.LabelRequest) (*domain.RemoteOrder, error) {
	m.lastReq = req
	return m.order, m.err
}

func (m *mockLabelService) PrintLabel(
	_ context.Context,
	orderID string,
	mode domain.PrintMode,
) (*domain.Label, error) {
	m.lastOrder = orderID
	m.lastMode = mode
	return m.label, m.err
}

type mockAccountService struct {
	account *domain.Account
	err     error
}

func (m *mockAccountService) Verify(_ context.Context) (*domain.Account, error) {
	return m.account, m.err
}

type testServices struct {
	quote    *mockQuoteService
	label    *mockLabelService
	account  *mockAccountService
	settings *services.SettingsService
}

// setupTestServices installs mock services and returns a cleanup function
// that restores the previous ones.
func setupTestServices() (*testServices, func()) {
	origQuote := quoteService
	origLabel := labelService
	origAccount := accountService
	origSettings := settingsService

	ts := &testServices{
		quote: &mockQuoteService{
			options: []domain.QuoteOption{
				{
					ID:           1,
					Name:         "PAC",
					Company:      "Correios",
					Price:        decimal.RequireFromString("23.5"),
					DeliveryTime: 7,
				},
				{
					ID:           2,
					Name:         "SEDEX",
					Company:      "Correios",
					Price:        decimal.RequireFromString("41.2"),
					DeliveryTime: 2,
				},
			},
		},
		label: &mockLabelService{
			order: &domain.RemoteOrder{
				ID:       "order-1",
				Protocol: "ORD-2026",
				Status:   "released",
				Price:    decimal.RequireFromString("23.5"),
			},
			label: &domain.Label{
				OrderID:     "order-1",
				ContentType: "application/pdf",
				Content:     []byte("%PDF-1.4"),
			},
		},
		account: &mockAccountService{
			account: &domain.Account{ID: "acc-1", FirstName: "Ana", LastName: "Souza", Email: "ana@example.com"},
		},
		settings: services.NewSettingsService(memory.NewConfigStore()),
	}

	SetServices(Services{
		Quote:    ts.quote,
		Label:    ts.label,
		Account:  ts.account,
		Settings: ts.settings,
	})

	return ts, func() {
		quoteService = origQuote
		labelService = origLabel
		accountService = origAccount
		settingsService = origSettings
	}
}
