package melhorenvio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
	"github.com/custodia-labs/envio-cli/internal/logger"
)

const (
	// maxResponseSize caps how much of a response body is read. Labels are PDFs.
	maxResponseSize = 20 << 20

	acceptJSON  = "application/json"
	acceptLabel = "application/pdf, application/json;q=0.9, */*;q=0.8"

	// cancelReasonID is the carrier's reason code for a cancellation requested by the sender.
	cancelReasonID = "2"
)

// Verify interface compliance.
var _ driven.CarrierAPI = (*Client)(nil)

// Client calls the Melhor Envio REST API.
type Client struct {
	cfg           Config
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter

	mu    sync.Mutex
	http  *http.Client
	token string
}

// NewClient creates a new carrier API client with a token provider.
func NewClient(cfg Config, tokenProvider driven.TokenProvider) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:           cfg,
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// ensureClient initializes the HTTP client if not already done.
// This is called lazily so the token is read when needed.
func (c *Client) ensureClient(ctx context.Context) (*http.Client, error) {
	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.http != nil && c.token == token {
		return c.http, nil
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token, TokenType: "Bearer"},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = c.cfg.Timeout
	c.http = tc
	c.token = token

	return tc, nil
}

// RateLimiter returns the client's rate limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// Me returns the account that owns the token.
func (c *Client) Me(ctx context.Context) (*domain.Account, error) {
	data, _, err := c.do(ctx, "get account", http.MethodGet, "/me", nil, acceptJSON)
	if err != nil {
		return nil, err
	}

	var dto accountDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: decode account: %v", ErrInvalidResponse, err)
	}
	return dto.toDomain(), nil
}

// Calculate returns every option the carrier offers, errored ones included.
func (c *Client) Calculate(ctx context.Context, req domain.QuoteRequest) ([]domain.QuoteOption, error) {
	data, _, err := c.do(ctx, "calculate", http.MethodPost, "/me/shipment/calculate", toCalculateRequest(req), acceptJSON)
	if err != nil {
		return nil, err
	}

	var dtos []quoteOptionDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		// A single option comes back as an object when the request names one service.
		var single quoteOptionDTO
		if err2 := json.Unmarshal(data, &single); err2 != nil || single.ID == 0 {
			return nil, fmt.Errorf("%w: decode quote options: %v", ErrInvalidResponse, err)
		}
		dtos = []quoteOptionDTO{single}
	}

	options := make([]domain.QuoteOption, 0, len(dtos))
	for _, dto := range dtos {
		options = append(options, dto.toDomain())
	}
	return options, nil
}

// AddToCart stages an order in the cart.
func (c *Client) AddToCart(ctx context.Context, payload domain.OrderPayload) (*domain.RemoteOrder, error) {
	data, _, err := c.do(ctx, "add to cart", http.MethodPost, "/me/cart", toCartRequest(payload), acceptJSON)
	if err != nil {
		return nil, err
	}

	// Anything but an object carries no order id; the caller treats that as a rejected cart.
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return &domain.RemoteOrder{}, nil
	}

	var dto orderDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: decode cart order: %v", ErrInvalidResponse, err)
	}
	return dto.toDomain(), nil
}

// RemoveFromCart deletes an unpaid order from the cart.
func (c *Client) RemoveFromCart(ctx context.Context, orderID string) error {
	if orderID == "" {
		return ErrNoOrders
	}
	_, _, err := c.do(ctx, "remove from cart", http.MethodDelete, "/me/cart/"+orderID, nil, acceptJSON)
	return err
}

// Checkout pays for the given orders.
func (c *Client) Checkout(ctx context.Context, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return ErrNoOrders
	}
	_, _, err := c.do(ctx, "checkout", http.MethodPost, "/me/shipment/checkout", ordersRequest{Orders: orderIDs}, acceptJSON)
	return err
}

// Generate requests label rendering. The carrier answers 200 with a
// per-order status, so an order reported with status false is a failure too.
func (c *Client) Generate(ctx context.Context, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return ErrNoOrders
	}
	data, resp, err := c.do(ctx, "generate", http.MethodPost, "/me/shipment/generate", ordersRequest{Orders: orderIDs}, acceptJSON)
	if err != nil {
		return err
	}

	var results map[string]generateResultDTO
	if err := json.Unmarshal(data, &results); err != nil {
		// Older responses carry no per-order status.
		return nil
	}

	fields := make(map[string][]string)
	for _, id := range orderIDs {
		result, ok := results[id]
		if !ok || result.Status {
			continue
		}
		msg := result.Message
		if msg == "" {
			msg = "label generation failed"
		}
		fields[id] = []string{msg}
	}
	if len(fields) == 0 {
		return nil
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    FlattenFields(fields),
		Fields:     fields,
		URL:        resp.Request.URL.String(),
	}
}

// Cancel cancels a paid order, refunding its price to the account balance.
func (c *Client) Cancel(ctx context.Context, orderID, description string) error {
	if orderID == "" {
		return ErrNoOrders
	}
	body := cancelRequest{Order: cancelOrderDTO{
		ID:          orderID,
		ReasonID:    cancelReasonID,
		Description: description,
	}}
	_, _, err := c.do(ctx, "cancel", http.MethodPost, "/me/shipment/cancel", body, acceptJSON)
	return err
}

// Print returns the rendered labels.
func (c *Client) Print(ctx context.Context, mode domain.PrintMode, orderIDs []string) (*domain.Label, error) {
	if len(orderIDs) == 0 {
		return nil, ErrNoOrders
	}
	if mode == "" {
		mode = domain.PrintModePrivate
	}

	data, resp, err := c.do(ctx, "print", http.MethodPost, "/me/shipment/print",
		printRequest{Mode: string(mode), Orders: orderIDs}, acceptLabel)
	if err != nil {
		return nil, err
	}

	return &domain.Label{
		OrderID:     strings.Join(orderIDs, ","),
		ContentType: resp.Header.Get("Content-Type"),
		Content:     data,
	}, nil
}

// do performs a request and returns the response body of a successful call.
func (c *Client) do(ctx context.Context, op, method, path string, in any, accept string) ([]byte, *http.Response, error) {
	httpClient, err := c.ensureClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("carrier %s %s", method, path)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, c.wrapError(ctx, err, op)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp, fmt.Errorf("%s: read response: %w", op, err)
	}

	if rlErr := c.rateLimiter.CheckRateLimit(resp); rlErr != nil {
		return nil, resp, rlErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp, data)
		logger.Debug("carrier %s failed: status=%d message=%q", op, apiErr.StatusCode, apiErr.Message)
		return nil, resp, apiErr
	}

	return data, resp, nil
}

// wrapError wraps transport errors with operation context.
func (c *Client) wrapError(ctx context.Context, err error, op string) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrConnectionFailed, err)
}
