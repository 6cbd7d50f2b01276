package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Package holds the dimensions of a parcel in centimetres and its weight in kilograms.
type Package struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Weight float64 `json:"weight"`
}

// WithDefaults fills every zero dimension from def.
func (p Package) WithDefaults(def Package) Package {
	if p.Height <= 0 {
		p.Height = def.Height
	}
	if p.Width <= 0 {
		p.Width = def.Width
	}
	if p.Length <= 0 {
		p.Length = def.Length
	}
	if p.Weight <= 0 {
		p.Weight = def.Weight
	}
	return p
}

// QuoteRequest asks the carrier for shipping options between two postal codes.
type QuoteRequest struct {
	FromPostalCode string  `json:"from_postal_code" validate:"required"`
	ToPostalCode   string  `json:"to_postal_code" validate:"required"`
	Package        Package `json:"package"`
}

// QuoteOption is a single shipping service offered by the carrier.
type QuoteOption struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Company      string          `json:"company,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency,omitempty"`
	DeliveryTime int             `json:"delivery_time"`

	// Error is set by the carrier when the service cannot handle the shipment.
	Error string `json:"error,omitempty"`
}

// Available reports whether the option can be used to create a label.
func (o QuoteOption) Available() bool {
	return o.Error == ""
}

// Contact identifies a person or business on a label.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Address is a street address on a label.
type Address struct {
	Street     string `json:"address,omitempty"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	StateAbbr  string `json:"state_abbr,omitempty"`
	CountryID  string `json:"country_id,omitempty"`
}

// Sender is the shipping origin. The company document is its tax id.
type Sender struct {
	Contact
	Address
	CompanyDocument string `json:"company_document" validate:"required"`
	PostalCode      string `json:"postal_code" validate:"required"`
}

// Recipient is the shipping destination.
type Recipient struct {
	Contact
	Address
	Document   string `json:"document,omitempty"`
	PostalCode string `json:"postal_code" validate:"required"`
}

// Product is an item declared on the shipment.
type Product struct {
	Name         string          `json:"name,omitempty"`
	Quantity     int             `json:"quantity,omitempty"`
	UnitaryValue decimal.Decimal `json:"unitary_value"`
}

// LabelRequest carries everything needed to purchase a label for a selected quote option.
type LabelRequest struct {
	ServiceID int       `json:"service" validate:"required"`
	From      Sender    `json:"from"`
	To        Recipient `json:"to"`
	Package   Package   `json:"package"`
	Product   Product   `json:"product"`
}

// Invoice references the fiscal document covering the shipment.
type Invoice struct {
	Key DocumentKey `json:"key"`
}

// OrderOptions are the extra services and declarations of an order.
type OrderOptions struct {
	InsuranceValue decimal.Decimal `json:"insurance_value"`
	Receipt        bool            `json:"receipt"`
	OwnHand        bool            `json:"own_hand"`
	Reverse        bool            `json:"reverse"`
	NonCommercial  bool            `json:"non_commercial"`
	Invoice        Invoice         `json:"invoice"`
}

// Party is a fully resolved sender or recipient inside an order payload.
type Party struct {
	Contact
	Address
	Document        string `json:"document,omitempty"`
	CompanyDocument string `json:"company_document,omitempty"`
	PostalCode      string `json:"postal_code"`
}

// OrderPayload is the complete order submitted to the carrier cart.
// It is built once per label request and not modified afterwards.
type OrderPayload struct {
	ServiceID int          `json:"service"`
	From      Party        `json:"from"`
	To        Party        `json:"to"`
	Products  []Product    `json:"products"`
	Volumes   []Package    `json:"volumes"`
	Options   OrderOptions `json:"options"`
}

// RemoteOrder is the order the carrier created in its cart.
type RemoteOrder struct {
	ID        string          `json:"id"`
	Protocol  string          `json:"protocol,omitempty"`
	ServiceID int             `json:"service_id,omitempty"`
	Status    string          `json:"status,omitempty"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// PrintMode selects how the carrier renders a label.
type PrintMode string

// Print modes accepted by the carrier.
const (
	PrintModePrivate PrintMode = "private"
	PrintModePublic  PrintMode = "public"
)

// IsValid returns true if the print mode is recognised.
func (m PrintMode) IsValid() bool {
	return m == PrintModePrivate || m == PrintModePublic
}

// Label is a rendered shipping label.
type Label struct {
	OrderID     string
	ContentType string
	Content     []byte
}

// Account is the carrier account behind the configured token.
type Account struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
}

// DisplayName returns the account holder's full name, falling back to the email.
func (a Account) DisplayName() string {
	name := a.FirstName
	if a.LastName != "" {
		if name != "" {
			name += " "
		}
		name += a.LastName
	}
	if name == "" {
		return a.Email
	}
	return name
}
