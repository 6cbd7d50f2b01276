package mcp

import (
	"context"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

// mockQuoteService is a mock implementation of driving.QuoteService.
type mockQuoteService struct {
	options []domain.QuoteOption
	err     error
	lastReq domain.QuoteRequest
}

func (m *mockQuoteService) Quote(_ context.Context, req domain.QuoteRequest) ([]domain.QuoteOption, error) {
	m.lastReq = req
	return m.options, m.err
}

// mockLabelService is a mock implementation of driving.LabelService.
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

// mockAccountService is a mock implementation of driving.AccountService.
type mockAccountService struct {
	account *domain.Account
	err     error
}

func (m *mockAccountService) Verify(_ context.Context) (*domain.Account, error) {
	return m.account, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return m.err
}

func (m *mockSettingsService) SetToken(_ string) error {
	return m.err
}

func (m *mockSettingsService) SetEnvironment(_ domain.Environment) error {
	return m.err
}

func (m *mockSettingsService) SetSender(_ domain.SenderDefaults) error {
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func newTestServer(t interface{ Fatalf(string, ...any) }, ports *Ports) *Server {
	server, err := NewServer(ports)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return server
}
