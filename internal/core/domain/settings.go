package domain

import "github.com/shopspring/decimal"

const unknownDescription = "Unknown"

// Environment selects which carrier API deployment is used.
type Environment string

// Available environments.
const (
	// EnvironmentSandbox is the carrier test deployment. Labels are not billed.
	EnvironmentSandbox Environment = "sandbox"

	// EnvironmentProduction is the live carrier deployment.
	EnvironmentProduction Environment = "production"
)

// Carrier API base URLs per environment.
const (
	SandboxBaseURL    = "https://sandbox.melhorenvio.com.br/api/v2"
	ProductionBaseURL = "https://melhorenvio.com.br/api/v2"
)

// IsValid returns true if the environment is recognised.
func (e Environment) IsValid() bool {
	return e == EnvironmentSandbox || e == EnvironmentProduction
}

// BaseURL returns the API root for the environment.
func (e Environment) BaseURL() string {
	if e == EnvironmentProduction {
		return ProductionBaseURL
	}
	return SandboxBaseURL
}

// String returns the string representation.
func (e Environment) String() string {
	return string(e)
}

// Description returns a human-readable description of the environment.
func (e Environment) Description() string {
	switch e {
	case EnvironmentSandbox:
		return "Sandbox (test labels)"
	case EnvironmentProduction:
		return "Production (billed labels)"
	default:
		return unknownDescription
	}
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	API      APISettings   `json:"api"`
	Defaults LabelDefaults `json:"defaults"`
}

// APISettings configures access to the carrier API.
type APISettings struct {
	Token       string      `json:"token,omitempty"`
	Environment Environment `json:"environment"`

	// BaseURL overrides the environment's URL when set.
	BaseURL string `json:"base_url,omitempty"`

	// UserAgent is required by the carrier to identify the integration.
	UserAgent string `json:"user_agent"`

	RequestsPerSecond float64 `json:"requests_per_second"`
}

// EffectiveBaseURL returns BaseURL or the environment default.
func (s APISettings) EffectiveBaseURL() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return s.Environment.BaseURL()
}

// IsConfigured returns true if a token is available.
func (s APISettings) IsConfigured() bool {
	return s.Token != ""
}

// SenderDefaults fill sender fields a label request leaves empty.
type SenderDefaults struct {
	Contact
	Address
}

// RecipientDefaults fill recipient fields a label request leaves empty.
type RecipientDefaults struct {
	Contact
	Address
}

// LabelDefaults are fallbacks applied when building an order payload.
type LabelDefaults struct {
	Sender    SenderDefaults    `json:"sender"`
	Recipient RecipientDefaults `json:"recipient"`
	Package   Package           `json:"package"`
	Product   Product           `json:"product"`
}

// DefaultPackage is used when a quote or label request gives no dimensions.
func DefaultPackage() Package {
	return Package{Height: 10, Width: 10, Length: 10, Weight: 0.5}
}

// DefaultAppSettings returns the default settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			Environment:       EnvironmentSandbox,
			UserAgent:         "envio-cli",
			RequestsPerSecond: 3,
		},
		Defaults: LabelDefaults{
			Sender: SenderDefaults{
				Contact: Contact{
					Name:  "Sua Loja LTDA",
					Phone: "11999999999",
					Email: "vendas@sualoja.com.br",
				},
				Address: Address{
					Street:     "Avenida Paulista",
					Number:     "1000",
					Complement: "Sala 1",
					District:   "Bela Vista",
					City:       "São Paulo",
					StateAbbr:  "SP",
					CountryID:  "BR",
				},
			},
			Recipient: RecipientDefaults{
				Contact: Contact{
					Name:  "Cliente Exemplo",
					Phone: "11988888888",
					Email: "cliente@exemplo.com",
				},
				Address: Address{
					Street:     "Avenida Rio Branco",
					Number:     "200",
					Complement: "Apartamento 2",
					District:   "Centro",
					City:       "Rio de Janeiro",
					StateAbbr:  "RJ",
					CountryID:  "BR",
				},
			},
			Package: DefaultPackage(),
			Product: Product{
				Name:         "Produto Vendido",
				Quantity:     1,
				UnitaryValue: decimal.RequireFromString("99.90"),
			},
		},
	}
}
