package driving

import "github.com/custodia-labs/envio-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetToken stores the carrier API token.
	SetToken(token string) error

	// SetEnvironment switches between sandbox and production.
	SetEnvironment(env domain.Environment) error

	// SetSender updates the sender fallbacks used for labels.
	SetSender(sender domain.SenderDefaults) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
