package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid label URI", uri: "envio://labels/order-1", expected: "order-1"},
		{name: "invalid prefix", uri: "file://labels/order-1", expected: ""},
		{name: "nested path", uri: "envio://labels/order-1/extra", expected: ""},
		{name: "missing id", uri: "envio://labels/", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractOrderID(tt.uri))
		})
	}
}

func newReadRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleLabelResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns label blob", func(t *testing.T) {
		labels := &mockLabelService{
			label: &domain.Label{OrderID: "order-1", ContentType: "application/pdf", Content: []byte("pdf")},
		}
		server := newTestServer(t, &Ports{Quote: &mockQuoteService{}, Label: labels})

		result, err := server.handleLabelResource(ctx, newReadRequest("envio://labels/order-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "envio://labels/order-1", result.Contents[0].URI)
		assert.Equal(t, "application/pdf", result.Contents[0].MIMEType)
		assert.Equal(t, []byte("pdf"), result.Contents[0].Blob)
		assert.Equal(t, "order-1", labels.lastOrder)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Quote: &mockQuoteService{}, Label: &mockLabelService{}})

		_, err := server.handleLabelResource(ctx, newReadRequest("envio://labels/"))

		require.Error(t, err)
	})

	t.Run("propagates print errors", func(t *testing.T) {
		labels := &mockLabelService{err: errors.New("boom")}
		server := newTestServer(t, &Ports{Quote: &mockQuoteService{}, Label: labels})

		_, err := server.handleLabelResource(ctx, newReadRequest("envio://labels/order-1"))

		assert.EqualError(t, err, "boom")
	})
}

func TestServer_handleAccountResource(t *testing.T) {
	account := &mockAccountService{
		account: &domain.Account{ID: "acc-1", FirstName: "Ana", Email: "ana@example.com"},
	}
	server := newTestServer(t, &Ports{
		Quote:   &mockQuoteService{},
		Label:   &mockLabelService{},
		Account: account,
	})

	result, err := server.handleAccountResource(context.Background(), newReadRequest("envio://account"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var got domain.Account
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	assert.Equal(t, "acc-1", got.ID)
}

func TestServer_handleDefaultsResource(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.API.Token = "secret-token"
	server := newTestServer(t, &Ports{
		Quote:    &mockQuoteService{},
		Label:    &mockLabelService{},
		Settings: &mockSettingsService{settings: &settings},
	})

	result, err := server.handleDefaultsResource(context.Background(), newReadRequest("envio://defaults"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.NotContains(t, result.Contents[0].Text, "secret-token")
	assert.Contains(t, result.Contents[0].Text, `"sender"`)
}
