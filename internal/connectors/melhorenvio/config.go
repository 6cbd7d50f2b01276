package melhorenvio

import (
	"strings"
	"time"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond keeps well under the carrier's 250 requests/minute.
	DefaultRequestsPerSecond = 3.0

	// DefaultUserAgent identifies the integration. The carrier rejects requests without one.
	DefaultUserAgent = "envio-cli"
)

// Config holds the settings for a carrier API client.
type Config struct {
	// BaseURL is the API root, e.g. https://sandbox.melhorenvio.com.br/api/v2.
	BaseURL string

	// UserAgent is sent on every request.
	UserAgent string

	// RequestsPerSecond is the proactive throttle rate.
	RequestsPerSecond float64

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// ConfigFromSettings builds a client config from the API settings.
func ConfigFromSettings(s domain.APISettings) Config {
	return Config{
		BaseURL:           s.EffectiveBaseURL(),
		UserAgent:         s.UserAgent,
		RequestsPerSecond: s.RequestsPerSecond,
	}.withDefaults()
}

// withDefaults fills zero values and trims the trailing slash of BaseURL.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = domain.SandboxBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
