package melhorenvio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
)

// mockTokenProvider implements driven.TokenProvider for testing.
type mockTokenProvider struct {
	token string
	err   error
}

func (p *mockTokenProvider) GetToken(_ context.Context) (string, error) {
	return p.token, p.err
}

func (p *mockTokenProvider) Source() string {
	return "test"
}

func (p *mockTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}

// recordedRequest captures what the fake carrier received.
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// newTestClient starts a fake carrier serving handler and returns a client for it.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL:           srv.URL + "/api/v2/",
		UserAgent:         "envio-test (dev@example.com)",
		RequestsPerSecond: 1000,
	}, &mockTokenProvider{token: "secret-token"})

	return client, &requests
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_ImplementsInterface(t *testing.T) {
	var _ driven.CarrierAPI = (*Client)(nil)
}

func TestClient_Headers(t *testing.T) {
	client, reqs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"acc-1","firstname":"Ana","lastname":"Lima","email":"ana@example.com"}`)
	})

	account, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, "Ana Lima", account.DisplayName())

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/v2/me", got.Path)
	assert.Equal(t, "Bearer secret-token", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "envio-test (dev@example.com)", got.Header.Get("User-Agent"))
}

func TestClient_TokenError(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, &mockTokenProvider{err: domain.ErrAuthRequired})

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestClient_Calculate(t *testing.T) {
	client, reqs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[
			{"id":1,"name":"PAC","price":"23.50","currency":"R$","delivery_time":7,"company":{"id":1,"name":"Correios"}},
			{"id":2,"name":"SEDEX","custom_price":"31.10","price":"35.00","delivery_time":2,"company":{"id":1,"name":"Correios"}},
			{"id":3,"name":".Com","error":"Transportadora não atende este trecho.","company":{"id":2,"name":"Jadlog"}}
		]`)
	})

	options, err := client.Calculate(context.Background(), domain.QuoteRequest{
		FromPostalCode: "01001000",
		ToPostalCode:   "20040000",
		Package:        domain.Package{Height: 10, Width: 10, Length: 10, Weight: 0.5},
	})
	require.NoError(t, err)
	require.Len(t, options, 3)

	assert.Equal(t, "PAC", options[0].Name)
	assert.Equal(t, "Correios", options[0].Company)
	assert.True(t, options[0].Price.Equal(decimal.RequireFromString("23.50")))
	assert.Equal(t, 7, options[0].DeliveryTime)
	assert.True(t, options[1].Price.Equal(decimal.RequireFromString("31.10")), "custom price wins")
	assert.False(t, options[2].Available())

	var sent calculateRequest
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &sent))
	assert.Equal(t, "01001000", sent.From.PostalCode)
	assert.Equal(t, "20040000", sent.To.PostalCode)
	assert.Equal(t, 0.5, sent.Package.Weight)
	assert.Equal(t, "/api/v2/me/shipment/calculate", (*reqs)[0].Path)
}

func TestClient_Calculate_SingleObject(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":1,"name":"PAC","price":"10.00"}`)
	})

	options, err := client.Calculate(context.Background(), domain.QuoteRequest{})
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, 1, options[0].ID)
}

func TestClient_Calculate_InvalidBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `not json`)
	})

	_, err := client.Calculate(context.Background(), domain.QuoteRequest{})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_AddToCart(t *testing.T) {
	client, reqs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, `{"id":"9a1b","protocol":"ORD-1","service_id":1,"status":"pending","price":23.5,"created_at":"2026-10-17 09:30:00"}`)
	})

	payload := domain.OrderPayload{
		ServiceID: 1,
		From: domain.Party{
			Contact:         domain.Contact{Name: "Loja"},
			Address:         domain.Address{Street: "Avenida Paulista", StateAbbr: "SP"},
			CompanyDocument: "99999999000191",
			PostalCode:      "01001000",
		},
		To:       domain.Party{Contact: domain.Contact{Name: "Cliente"}, PostalCode: "20040000"},
		Products: []domain.Product{{Name: "Item", Quantity: 1, UnitaryValue: decimal.RequireFromString("99.90")}},
		Volumes:  []domain.Package{{Height: 10, Width: 10, Length: 10, Weight: 0.5}},
		Options: domain.OrderOptions{
			InsuranceValue: decimal.RequireFromString("99.90"),
			NonCommercial:  true,
			Invoice:        domain.Invoice{Key: "35261099999999000191550010000000421000000072"},
		},
	}

	order, err := client.AddToCart(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "9a1b", order.ID)
	assert.Equal(t, "ORD-1", order.Protocol)
	assert.Equal(t, 2026, order.CreatedAt.Year())
	assert.True(t, order.Price.Equal(decimal.RequireFromString("23.5")))

	var sent map[string]any
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &sent))
	assert.Equal(t, float64(1), sent["service"])
	assert.Nil(t, sent["agency"])
	from := sent["from"].(map[string]any)
	assert.Equal(t, "Avenida Paulista", from["address"])
	assert.Equal(t, "99999999000191", from["company_document"])
	options := sent["options"].(map[string]any)
	assert.Equal(t, 99.9, options["insurance_value"])
	assert.Equal(t, "35261099999999000191550010000000421000000072", options["invoice"].(map[string]any)["key"])
}

func TestClient_AddToCart_NumericID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":12345}`)
	})

	order, err := client.AddToCart(context.Background(), domain.OrderPayload{})
	require.NoError(t, err)
	assert.Equal(t, "12345", order.ID)
}

func TestClient_AddToCart_NoUsableID(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "null", body: "null"},
		{name: "array", body: "[]"},
		{name: "string", body: `"ok"`},
		{name: "zero id", body: `{"id":0}`},
		{name: "blank id", body: `{"id":"  "}`},
		{name: "null id", body: `{"id":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			})

			order, err := client.AddToCart(context.Background(), domain.OrderPayload{})
			require.NoError(t, err)
			require.NotNil(t, order)
			assert.Empty(t, order.ID)
		})
	}
}

func TestClient_AddToCart_MalformedObject(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":`)
	})

	_, err := client.AddToCart(context.Background(), domain.OrderPayload{})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_ValidationError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{
			"message":"The given data was invalid.",
			"errors":{"to.postal_code":["CEP inválido."],"from.name":["Nome obrigatório."]}
		}`)
	})

	_, err := client.AddToCart(context.Background(), domain.OrderPayload{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.HTTPStatus())
	assert.Equal(t, "Nome obrigatório. CEP inválido.", apiErr.Detail())
	assert.Equal(t, []string{"CEP inválido."}, apiErr.FieldErrors()["to.postal_code"])
	assert.True(t, IsValidation(err))

	var structured driven.StructuredError
	assert.True(t, errors.As(err, &structured))
}

func TestClient_Checkout(t *testing.T) {
	client, reqs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"purchase":{"id":"p-1"}}`)
	})

	require.NoError(t, client.Checkout(context.Background(), []string{"order-1"}))
	assert.Equal(t, "/api/v2/me/shipment/checkout", (*reqs)[0].Path)
	assert.JSONEq(t, `{"orders":["order-1"]}`, string((*reqs)[0].Body))
}

func TestClient_Checkout_InsufficientBalance(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"error":"Saldo insuficiente."}`)
	})

	err := client.Checkout(context.Background(), []string{"order-1"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Saldo insuficiente.", apiErr.Detail())
	assert.Nil(t, apiErr.FieldErrors())
}

func TestClient_NoOrders(t *testing.T) {
	client := NewClient(Config{}, &mockTokenProvider{token: "t"})
	ctx := context.Background()

	assert.ErrorIs(t, client.Checkout(ctx, nil), ErrNoOrders)
	assert.ErrorIs(t, client.Generate(ctx, nil), ErrNoOrders)
	assert.ErrorIs(t, client.RemoveFromCart(ctx, ""), ErrNoOrders)
	assert.ErrorIs(t, client.Cancel(ctx, "", "x"), ErrNoOrders)
	_, err := client.Print(ctx, domain.PrintModePrivate, nil)
	assert.ErrorIs(t, err, ErrNoOrders)
}

func TestClient_Generate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, reqs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"order-1":{"status":true,"message":"Envio gerado com sucesso"}}`)
		})

		require.NoError(t, client.Generate(context.Background(), []string{"order-1"}))
		assert.Equal(t, "/api/v2/me/shipment/generate", (*reqs)[0].Path)
	})

	t.Run("per-order failure", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"order-1":{"status":false,"message":"Etiqueta indisponível"}}`)
		})

		err := client.Generate(context.Background(), []string{"order-1"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Etiqueta indisponível", apiErr.Detail())
		assert.Equal(t, []string{"Etiqueta indisponível"}, apiErr.FieldErrors()["order-1"])
	})

	t.Run("body without status", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `[]`)
		})

		assert.NoError(t, client.Generate(context.Background(), []string{"order-1"}))
	})
}

func TestClient_RemoveFromCart(t *testing.T) {
	client, reqs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.RemoveFromCart(context.Background(), "order-1"))
	assert.Equal(t, http.MethodDelete, (*reqs)[0].Method)
	assert.Equal(t, "/api/v2/me/cart/order-1", (*reqs)[0].Path)
}

func TestClient_Cancel(t *testing.T) {
	client, reqs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"order-1":{"canceled":true}}`)
	})

	require.NoError(t, client.Cancel(context.Background(), "order-1", "label generation failed"))
	assert.Equal(t, "/api/v2/me/shipment/cancel", (*reqs)[0].Path)
	assert.JSONEq(t,
		`{"order":{"id":"order-1","reason_id":"2","description":"label generation failed"}}`,
		string((*reqs)[0].Body))
}

func TestClient_Print(t *testing.T) {
	client, reqs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.4")
	})

	label, err := client.Print(context.Background(), "", []string{"order-1"})
	require.NoError(t, err)
	assert.Equal(t, "order-1", label.OrderID)
	assert.Equal(t, "application/pdf", label.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), label.Content)
	assert.JSONEq(t, `{"mode":"private","orders":["order-1"]}`, string((*reqs)[0].Body))
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrAuthInvalid},
		{"not found", http.StatusNotFound, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, `{"message":"nope"}`)
			})

			_, err := client.Me(context.Background())
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestClient_RateLimited(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderRateRemaining, "0")
		w.Header().Set(HeaderRetryAfter, "30")
		writeJSON(w, http.StatusTooManyRequests, `{"message":"Too Many Attempts."}`)
	})

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 0, client.RateLimiter().Remaining())
}

func TestClient_ConnectionFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: url, RequestsPerSecond: 1000}, &mockTokenProvider{token: "t"})
	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, domain.ErrConnectionFailed)
}

func TestClient_ContextCanceled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Me(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigFromSettings(t *testing.T) {
	cfg := ConfigFromSettings(domain.APISettings{Environment: domain.EnvironmentProduction})
	assert.Equal(t, domain.ProductionBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, DefaultRequestsPerSecond, cfg.RequestsPerSecond)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)

	cfg = ConfigFromSettings(domain.APISettings{BaseURL: "http://localhost:8080/api/v2/", RequestsPerSecond: 10})
	assert.Equal(t, "http://localhost:8080/api/v2", cfg.BaseURL)
	assert.Equal(t, 10.0, cfg.RequestsPerSecond)
}
