package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driving"
	"github.com/custodia-labs/envio-cli/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIToken       = driven.KeyAPIToken
	keyAPIEnvironment = "api.environment"
	keyAPIBaseURL     = "api.base_url"
	keyAPIUserAgent   = "api.user_agent"
	keyAPIRPS         = "api.requests_per_second"

	keySenderName       = "sender.name"
	keySenderPhone      = "sender.phone"
	keySenderEmail      = "sender.email"
	keySenderStreet     = "sender.address"
	keySenderNumber     = "sender.number"
	keySenderComplement = "sender.complement"
	keySenderDistrict   = "sender.district"
	keySenderCity       = "sender.city"
	keySenderState      = "sender.state_abbr"
	keySenderCountry    = "sender.country_id"

	keyPackageHeight = "package.height"
	keyPackageWidth  = "package.width"
	keyPackageLength = "package.length"
	keyPackageWeight = "package.weight"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	settings := defaults

	settings.API = domain.APISettings{
		Token:             s.configStore.GetString(keyAPIToken),
		Environment:       s.getEnvironment(defaults.API.Environment),
		BaseURL:           s.configStore.GetString(keyAPIBaseURL), // Empty means the environment's URL
		UserAgent:         s.getString(keyAPIUserAgent, defaults.API.UserAgent),
		RequestsPerSecond: s.getFloat(keyAPIRPS, defaults.API.RequestsPerSecond),
	}

	sender := &settings.Defaults.Sender
	sender.Name = s.getString(keySenderName, sender.Name)
	sender.Phone = s.getString(keySenderPhone, sender.Phone)
	sender.Email = s.getString(keySenderEmail, sender.Email)
	sender.Street = s.getString(keySenderStreet, sender.Street)
	sender.Number = s.getString(keySenderNumber, sender.Number)
	sender.Complement = s.getString(keySenderComplement, sender.Complement)
	sender.District = s.getString(keySenderDistrict, sender.District)
	sender.City = s.getString(keySenderCity, sender.City)
	sender.StateAbbr = s.getString(keySenderState, sender.StateAbbr)
	sender.CountryID = s.getString(keySenderCountry, sender.CountryID)

	pkg := &settings.Defaults.Package
	pkg.Height = s.getFloat(keyPackageHeight, pkg.Height)
	pkg.Width = s.getFloat(keyPackageWidth, pkg.Width)
	pkg.Length = s.getFloat(keyPackageLength, pkg.Length)
	pkg.Weight = s.getFloat(keyPackageWeight, pkg.Weight)

	return &settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if !settings.API.Environment.IsValid() {
		return fmt.Errorf("%w: environment %q", domain.ErrInvalidInput, settings.API.Environment)
	}

	// Save API settings
	if settings.API.Token != "" {
		if err := s.configStore.Set(keyAPIToken, settings.API.Token); err != nil {
			return fmt.Errorf("save api token: %w", err)
		}
	}
	if err := s.configStore.Set(keyAPIEnvironment, settings.API.Environment.String()); err != nil {
		return fmt.Errorf("save api environment: %w", err)
	}
	if err := s.setOrDelete(keyAPIBaseURL, settings.API.BaseURL); err != nil {
		return fmt.Errorf("save api base_url: %w", err)
	}
	if err := s.configStore.Set(keyAPIUserAgent, settings.API.UserAgent); err != nil {
		return fmt.Errorf("save api user_agent: %w", err)
	}
	if err := s.configStore.Set(keyAPIRPS, settings.API.RequestsPerSecond); err != nil {
		return fmt.Errorf("save api requests_per_second: %w", err)
	}

	// Save sender defaults
	if err := s.saveSender(settings.Defaults.Sender); err != nil {
		return err
	}

	// Save package defaults
	pkg := settings.Defaults.Package
	for key, value := range map[string]float64{
		keyPackageHeight: pkg.Height,
		keyPackageWidth:  pkg.Width,
		keyPackageLength: pkg.Length,
		keyPackageWeight: pkg.Weight,
	} {
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return nil
}

// SetToken stores the carrier API token.
func (s *SettingsService) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.NewMissingFieldError("token")
	}
	if err := s.configStore.Set(keyAPIToken, token); err != nil {
		return fmt.Errorf("save api token: %w", err)
	}
	return nil
}

// SetEnvironment switches between sandbox and production.
// A custom base URL is cleared so the environment's URL takes effect.
func (s *SettingsService) SetEnvironment(env domain.Environment) error {
	if !env.IsValid() {
		return fmt.Errorf("%w: environment %q (want %s or %s)",
			domain.ErrInvalidInput, env, domain.EnvironmentSandbox, domain.EnvironmentProduction)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.API.Environment = env
	settings.API.BaseURL = ""

	return s.Save(settings)
}

// SetSender updates the sender fallbacks used for labels.
func (s *SettingsService) SetSender(sender domain.SenderDefaults) error {
	return s.saveSender(sender)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) saveSender(sender domain.SenderDefaults) error {
	values := []struct {
		key   string
		value string
	}{
		{keySenderName, sender.Name},
		{keySenderPhone, domain.NormalizeDigits(sender.Phone)},
		{keySenderEmail, sender.Email},
		{keySenderStreet, sender.Street},
		{keySenderNumber, sender.Number},
		{keySenderComplement, sender.Complement},
		{keySenderDistrict, sender.District},
		{keySenderCity, sender.City},
		{keySenderState, strings.ToUpper(sender.StateAbbr)},
		{keySenderCountry, strings.ToUpper(sender.CountryID)},
	}
	for _, v := range values {
		if err := s.setOrDelete(v.key, strings.TrimSpace(v.value)); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// setOrDelete stores value, or removes the key when value is empty so the default applies.
func (s *SettingsService) setOrDelete(key, value string) error {
	if value == "" {
		return s.configStore.Delete(key)
	}
	return s.configStore.Set(key, value)
}

func (s *SettingsService) getEnvironment(defaultVal domain.Environment) domain.Environment {
	env := domain.Environment(s.configStore.GetString(keyAPIEnvironment))
	if env.IsValid() {
		return env
	}
	if env != "" {
		logger.Warn("ignoring unknown environment %q in %s", env, s.configStore.Path())
	}
	return defaultVal
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if v := s.configStore.GetFloat(key); v > 0 {
		return v
	}
	return defaultVal
}
