package melhorenvio

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

// Request and response bodies as exchanged with the carrier.

type postalCodeDTO struct {
	PostalCode string `json:"postal_code"`
}

type packageDTO struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Weight float64 `json:"weight"`
}

type calculateRequest struct {
	From    postalCodeDTO `json:"from"`
	To      postalCodeDTO `json:"to"`
	Package packageDTO    `json:"package"`
}

type companyDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type quoteOptionDTO struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CustomPrice  decimal.Decimal `json:"custom_price"`
	Currency     string          `json:"currency"`
	DeliveryTime int             `json:"delivery_time"`
	Company      companyDTO      `json:"company"`
	Error        string          `json:"error"`
}

type partyDTO struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Document        string `json:"document,omitempty"`
	CompanyDocument string `json:"company_document,omitempty"`
	PostalCode      string `json:"postal_code"`
	Address         string `json:"address"`
	Number          string `json:"number"`
	Complement      string `json:"complement"`
	District        string `json:"district"`
	City            string `json:"city"`
	StateAbbr       string `json:"state_abbr"`
	CountryID       string `json:"country_id"`
}

type productDTO struct {
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	UnitaryValue float64 `json:"unitary_value"`
}

type invoiceDTO struct {
	Key string `json:"key"`
}

type optionsDTO struct {
	InsuranceValue float64    `json:"insurance_value"`
	Receipt        bool       `json:"receipt"`
	OwnHand        bool       `json:"own_hand"`
	Reverse        bool       `json:"reverse"`
	NonCommercial  bool       `json:"non_commercial"`
	Invoice        invoiceDTO `json:"invoice"`
}

type cartRequest struct {
	Service  int          `json:"service"`
	Agency   *int         `json:"agency"`
	From     partyDTO     `json:"from"`
	To       partyDTO     `json:"to"`
	Products []productDTO `json:"products"`
	Volumes  []packageDTO `json:"volumes"`
	Options  optionsDTO   `json:"options"`
}

type orderDTO struct {
	ID        flexibleID      `json:"id"`
	Protocol  string          `json:"protocol"`
	ServiceID int             `json:"service_id"`
	Status    string          `json:"status"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt string          `json:"created_at"`
}

type ordersRequest struct {
	Orders []string `json:"orders"`
}

type printRequest struct {
	Mode   string   `json:"mode"`
	Orders []string `json:"orders"`
}

type cancelOrderDTO struct {
	ID          string `json:"id"`
	ReasonID    string `json:"reason_id"`
	Description string `json:"description"`
}

type cancelRequest struct {
	Order cancelOrderDTO `json:"order"`
}

// generateResultDTO is the per-order outcome of a generate call.
type generateResultDTO struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type accountDTO struct {
	ID        flexibleID `json:"id"`
	FirstName string     `json:"firstname"`
	LastName  string     `json:"lastname"`
	Email     string     `json:"email"`
}

// flexibleID accepts ids sent as JSON strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// orderID returns the id, or "" when it is blank or zero and cannot name an order.
func (f flexibleID) orderID() string {
	id := strings.TrimSpace(string(f))
	if strings.Trim(id, "0") == "" {
		return ""
	}
	return id
}

// carrierTimeLayout is the timestamp format used in carrier responses.
const carrierTimeLayout = "2006-01-02 15:04:05"

func parseCarrierTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(carrierTimeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func toCalculateRequest(req domain.QuoteRequest) calculateRequest {
	return calculateRequest{
		From:    postalCodeDTO{PostalCode: req.FromPostalCode},
		To:      postalCodeDTO{PostalCode: req.ToPostalCode},
		Package: toPackageDTO(req.Package),
	}
}

func toPackageDTO(p domain.Package) packageDTO {
	return packageDTO{Height: p.Height, Width: p.Width, Length: p.Length, Weight: p.Weight}
}

func (o quoteOptionDTO) toDomain() domain.QuoteOption {
	price := o.Price
	if !o.CustomPrice.IsZero() {
		price = o.CustomPrice
	}
	return domain.QuoteOption{
		ID:           o.ID,
		Name:         o.Name,
		Company:      o.Company.Name,
		Price:        price,
		Currency:     o.Currency,
		DeliveryTime: o.DeliveryTime,
		Error:        o.Error,
	}
}

func toPartyDTO(p domain.Party) partyDTO {
	return partyDTO{
		Name:            p.Name,
		Phone:           p.Phone,
		Email:           p.Email,
		Document:        p.Document,
		CompanyDocument: p.CompanyDocument,
		PostalCode:      p.PostalCode,
		Address:         p.Street,
		Number:          p.Number,
		Complement:      p.Complement,
		District:        p.District,
		City:            p.City,
		StateAbbr:       p.StateAbbr,
		CountryID:       p.CountryID,
	}
}

func toCartRequest(payload domain.OrderPayload) cartRequest {
	products := make([]productDTO, len(payload.Products))
	for i, p := range payload.Products {
		products[i] = productDTO{
			Name:         p.Name,
			Quantity:     p.Quantity,
			UnitaryValue: p.UnitaryValue.InexactFloat64(),
		}
	}
	volumes := make([]packageDTO, len(payload.Volumes))
	for i, v := range payload.Volumes {
		volumes[i] = toPackageDTO(v)
	}

	return cartRequest{
		Service:  payload.ServiceID,
		From:     toPartyDTO(payload.From),
		To:       toPartyDTO(payload.To),
		Products: products,
		Volumes:  volumes,
		Options: optionsDTO{
			InsuranceValue: payload.Options.InsuranceValue.InexactFloat64(),
			Receipt:        payload.Options.Receipt,
			OwnHand:        payload.Options.OwnHand,
			Reverse:        payload.Options.Reverse,
			NonCommercial:  payload.Options.NonCommercial,
			Invoice:        invoiceDTO{Key: payload.Options.Invoice.Key.String()},
		},
	}
}

func (o orderDTO) toDomain() *domain.RemoteOrder {
	return &domain.RemoteOrder{
		ID:        o.ID.orderID(),
		Protocol:  o.Protocol,
		ServiceID: o.ServiceID,
		Status:    o.Status,
		Price:     o.Price,
		CreatedAt: parseCarrierTime(o.CreatedAt),
	}
}

func (a accountDTO) toDomain() *domain.Account {
	return &domain.Account{
		ID:        string(a.ID),
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
	}
}
