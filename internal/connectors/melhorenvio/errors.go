package melhorenvio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
)

// Melhor Envio specific errors.
var (
	// ErrInvalidResponse indicates the carrier returned a body that could not be decoded.
	ErrInvalidResponse = errors.New("melhorenvio: invalid response")

	// ErrNoOrders indicates a call that needs order ids received none.
	ErrNoOrders = errors.New("melhorenvio: no order ids given")
)

// Ensure APIError exposes the structured carrier payload.
var _ driven.StructuredError = (*APIError)(nil)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("melhorenvio: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Is reports whether target is domain.ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrRateLimited
}

// APIError represents a failed carrier API call.
//
// Message is the error payload flattened into a single line. Fields keeps the
// per-field messages when the carrier returned a mapping.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("melhorenvio: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Detail returns the flattened error message.
func (e *APIError) Detail() string {
	return e.Message
}

// FieldErrors returns the per-field messages, or nil.
func (e *APIError) FieldErrors() map[string][]string {
	return e.Fields
}

// HTTPStatus returns the HTTP status code.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// Is maps HTTP statuses onto domain errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrAuthInvalid:
		return e.StatusCode == http.StatusUnauthorized
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case domain.ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsValidation checks if the carrier rejected the request data.
func IsValidation(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// errorPayload is the shape of carrier error bodies. Either "errors" or
// "error" holds a string or a mapping of field names to message lists.
type errorPayload struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

// newAPIError decodes a failed response body.
func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if resp.Request != nil && resp.Request.URL != nil {
		apiErr.URL = resp.Request.URL.String()
	}

	apiErr.Message, apiErr.Fields = decodeErrorPayload(body)
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// decodeErrorPayload extracts the flattened message and per-field messages.
func decodeErrorPayload(body []byte) (string, map[string][]string) {
	var p errorPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return strings.TrimSpace(string(body)), nil
	}

	raw := p.Errors
	if isEmptyJSON(raw) {
		raw = p.Error
	}
	if !isEmptyJSON(raw) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s, nil
		}

		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err == nil && len(m) > 0 {
			fields := make(map[string][]string, len(m))
			for k, v := range m {
				fields[k] = fieldMessages(v)
			}
			if msg := flattenInOrder(objectKeys(raw), fields); msg != "" {
				return msg, fields
			}
			return p.Message, fields
		}
	}

	return p.Message, nil
}

// fieldMessages decodes a field's messages, which may be a list or a single string.
func fieldMessages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}
	var anyList []any
	if err := json.Unmarshal(raw, &anyList); err == nil {
		out := make([]string, 0, len(anyList))
		for _, item := range anyList {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return []string{string(raw)}
}

// FlattenFields joins every field message into one line, ordered by field name.
func FlattenFields(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return flattenInOrder(keys, fields)
}

// objectKeys returns the keys of a JSON object in the order the carrier sent them.
// Repeated keys are listed once.
func objectKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return keys
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// flattenInOrder joins the messages of fields in keys order.
func flattenInOrder(keys []string, fields map[string][]string) string {
	var parts []string
	for _, k := range keys {
		for _, msg := range fields[k] {
			if msg = strings.TrimSpace(msg); msg != "" {
				parts = append(parts, msg)
			}
		}
	}
	return strings.Join(parts, " ")
}

func isEmptyJSON(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "false"
}
