package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

// PackageInput describes the parcel. Zero values take the configured defaults.
type PackageInput struct {
	Height float64 `json:"height,omitempty" jsonschema:"height in centimetres"`
	Width  float64 `json:"width,omitempty" jsonschema:"width in centimetres"`
	Length float64 `json:"length,omitempty" jsonschema:"length in centimetres"`
	Weight float64 `json:"weight,omitempty" jsonschema:"weight in kilograms"`
}

func (p PackageInput) toDomain() domain.Package {
	return domain.Package{Height: p.Height, Width: p.Width, Length: p.Length, Weight: p.Weight}
}

// QuoteInput is the input schema for the quote_shipping tool.
type QuoteInput struct {
	FromPostalCode string       `json:"from_postal_code" jsonschema:"origin postal code (CEP)"`
	ToPostalCode   string       `json:"to_postal_code" jsonschema:"destination postal code (CEP)"`
	Package        PackageInput `json:"package,omitempty" jsonschema:"parcel dimensions, defaults to 10x10x10 cm and 0.5 kg"`
}

// QuoteOutput is the output schema for the quote_shipping tool.
type QuoteOutput struct {
	Options []QuoteOptionOutput `json:"options"`
	Count   int                 `json:"count"`
}

// QuoteOptionOutput represents a single shipping option.
type QuoteOptionOutput struct {
	ServiceID    int    `json:"service_id"`
	Name         string `json:"name"`
	Company      string `json:"company,omitempty"`
	Price        string `json:"price"`
	Currency     string `json:"currency,omitempty"`
	DeliveryDays int    `json:"delivery_days"`
}

// PartyInput is a sender or recipient.
type PartyInput struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Document   string `json:"document,omitempty" jsonschema:"tax document; required (CNPJ) for the sender"`
	PostalCode string `json:"postal_code" jsonschema:"postal code (CEP)"`
	Address    string `json:"address,omitempty" jsonschema:"street; when empty the configured address is used"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	StateAbbr  string `json:"state_abbr,omitempty"`
}

func (p PartyInput) contact() domain.Contact {
	return domain.Contact{Name: p.Name, Phone: p.Phone, Email: p.Email}
}

func (p PartyInput) address() domain.Address {
	return domain.Address{
		Street:     p.Address,
		Number:     p.Number,
		Complement: p.Complement,
		District:   p.District,
		City:       p.City,
		StateAbbr:  p.StateAbbr,
	}
}

// ProductInput is the declared item.
type ProductInput struct {
	Name         string  `json:"name,omitempty"`
	Quantity     int     `json:"quantity,omitempty"`
	UnitaryValue float64 `json:"unitary_value,omitempty" jsonschema:"unit price in BRL, also used as insurance value"`
}

// LabelInput is the input schema for the create_label tool.
type LabelInput struct {
	ServiceID int          `json:"service_id" jsonschema:"service id from quote_shipping"`
	From      PartyInput   `json:"from"`
	To        PartyInput   `json:"to"`
	Package   PackageInput `json:"package,omitempty"`
	Product   ProductInput `json:"product,omitempty"`
}

func (in LabelInput) toDomain() domain.LabelRequest {
	return domain.LabelRequest{
		ServiceID: in.ServiceID,
		From: domain.Sender{
			Contact:         in.From.contact(),
			Address:         in.From.address(),
			CompanyDocument: in.From.Document,
			PostalCode:      in.From.PostalCode,
		},
		To: domain.Recipient{
			Contact:    in.To.contact(),
			Address:    in.To.address(),
			Document:   in.To.Document,
			PostalCode: in.To.PostalCode,
		},
		Package: in.Package.toDomain(),
		Product: domain.Product{
			Name:         in.Product.Name,
			Quantity:     in.Product.Quantity,
			UnitaryValue: decimal.NewFromFloat(in.Product.UnitaryValue),
		},
	}
}

// LabelOutput is the output schema for the create_label tool.
type LabelOutput struct {
	OrderID  string `json:"order_id"`
	Protocol string `json:"protocol,omitempty"`
	Status   string `json:"status,omitempty"`
	Price    string `json:"price,omitempty"`
}

// PrintInput is the input schema for the print_label tool.
type PrintInput struct {
	OrderID string `json:"order_id" jsonschema:"order id returned by create_label"`
	Mode    string `json:"mode,omitempty" jsonschema:"private (default) or public"`
}

// PrintOutput is the output schema for the print_label tool.
type PrintOutput struct {
	OrderID     string `json:"order_id"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	URI         string `json:"uri"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "quote_shipping",
		Description: "Quote shipping services between two Brazilian postal codes",
	}, s.handleQuote)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "create_label",
		Description: "Purchase a shipping label: adds the order to the cart, pays for it " +
			"and requests the label. Charges the carrier account balance.",
	}, s.handleCreateLabel)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "print_label",
		Description: "Download the rendered label of a purchased order",
	}, s.handlePrintLabel)
}

// handleQuote handles the quote_shipping tool invocation.
func (s *Server) handleQuote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuoteInput,
) (*mcp.CallToolResult, QuoteOutput, error) {
	options, err := s.ports.Quote.Quote(ctx, domain.QuoteRequest{
		FromPostalCode: input.FromPostalCode,
		ToPostalCode:   input.ToPostalCode,
		Package:        input.Package.toDomain(),
	})
	if err != nil {
		return nil, QuoteOutput{}, err
	}

	output := QuoteOutput{
		Options: make([]QuoteOptionOutput, len(options)),
		Count:   len(options),
	}
	for i, opt := range options {
		output.Options[i] = QuoteOptionOutput{
			ServiceID:    opt.ID,
			Name:         opt.Name,
			Company:      opt.Company,
			Price:        opt.Price.StringFixed(2),
			Currency:     opt.Currency,
			DeliveryDays: opt.DeliveryTime,
		}
	}

	return nil, output, nil
}

// handleCreateLabel handles the create_label tool invocation.
func (s *Server) handleCreateLabel(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LabelInput,
) (*mcp.CallToolResult, LabelOutput, error) {
	order, err := s.ports.Label.CreateLabel(ctx, input.toDomain())
	if err != nil {
		return nil, LabelOutput{}, describeError(err)
	}

	output := LabelOutput{
		OrderID:  order.ID,
		Protocol: order.Protocol,
		Status:   order.Status,
	}
	if !order.Price.IsZero() {
		output.Price = order.Price.StringFixed(2)
	}
	return nil, output, nil
}

// handlePrintLabel handles the print_label tool invocation.
func (s *Server) handlePrintLabel(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PrintInput,
) (*mcp.CallToolResult, PrintOutput, error) {
	label, err := s.ports.Label.PrintLabel(ctx, input.OrderID, domain.PrintMode(input.Mode))
	if err != nil {
		return nil, PrintOutput{}, err
	}

	uri := labelURI(label.OrderID)
	output := PrintOutput{
		OrderID:     label.OrderID,
		ContentType: label.ContentType,
		Size:        len(label.Content),
		URI:         uri,
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.EmbeddedResource{Resource: &mcp.ResourceContents{
				URI:      uri,
				MIMEType: label.ContentType,
				Blob:     label.Content,
			}},
		},
	}
	return result, output, nil
}

// describeError adds the carrier's per-field messages and leak status to workflow errors.
func describeError(err error) error {
	var wfErr *domain.WorkflowError
	if !errors.As(err, &wfErr) {
		return err
	}

	msg := wfErr.Error()
	fields := make([]string, 0, len(wfErr.Fields))
	for field := range wfErr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		msg += fmt.Sprintf("\n  %s: %v", field, wfErr.Fields[field])
	}
	if wfErr.Leaked() {
		msg += fmt.Sprintf("\norder %s was left on the carrier and must be removed manually", wfErr.OrderID)
	} else if wfErr.Compensated {
		msg += fmt.Sprintf("\norder %s was rolled back", wfErr.OrderID)
	}
	return fmt.Errorf("%s: %w", msg, domain.ErrWorkflowFailed)
}
