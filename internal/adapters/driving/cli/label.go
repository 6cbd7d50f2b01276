package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/logger"
)

type partyFlags struct {
	name, phone, email, document, postalCode          string
	street, number, complement, district, city, state string
}

func (p *partyFlags) register(cmd *cobra.Command, prefix, role string) {
	f := cmd.Flags()
	f.StringVar(&p.postalCode, prefix+"postal-code", "", role+" postal code (required)")
	f.StringVar(&p.name, prefix+"name", "", role+" name")
	f.StringVar(&p.phone, prefix+"phone", "", role+" phone")
	f.StringVar(&p.email, prefix+"email", "", role+" email")
	f.StringVar(&p.street, prefix+"address", "", role+" street; when empty the configured address is used")
	f.StringVar(&p.number, prefix+"number", "", role+" street number")
	f.StringVar(&p.complement, prefix+"complement", "", role+" address complement")
	f.StringVar(&p.district, prefix+"district", "", role+" district")
	f.StringVar(&p.city, prefix+"city", "", role+" city")
	f.StringVar(&p.state, prefix+"state", "", role+" state abbreviation")
}

func (p *partyFlags) contact() domain.Contact {
	return domain.Contact{Name: p.name, Phone: p.phone, Email: p.email}
}

func (p *partyFlags) address() domain.Address {
	return domain.Address{
		Street:     p.street,
		Number:     p.number,
		Complement: p.complement,
		District:   p.district,
		City:       p.city,
		StateAbbr:  p.state,
	}
}

var (
	labelServiceID int
	labelFrom      partyFlags
	labelTo        partyFlags
	labelPkg       domain.Package
	labelProduct   string
	labelQuantity  int
	labelValue     string
	labelJSON      bool

	printMode   string
	printOutput string
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Buy and print shipping labels",
}

var labelCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Buy a shipping label",
	Long: `Buys a label for a quoted service. The order is added to the cart,
paid with the account balance and generated.

An invoice key is created for the shipment from the sender's CNPJ.
Fields left empty are filled from the configured defaults.`,
	Example: `  envio label create --service 1 \
    --from-postal-code 01310-100 --from-document 99.999.999/0001-91 \
    --to-postal-code 20040-020 --to-name "Maria Silva" --value 49.90`,
	Args: cobra.NoArgs,
	RunE: runLabelCreate,
}

var labelPrintCmd = &cobra.Command{
	Use:   "print [order-id]",
	Short: "Download the label of an order",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabelPrint,
}

func init() {
	f := labelCreateCmd.Flags()
	f.IntVar(&labelServiceID, "service", 0, "service id from 'envio quote' (required)")
	labelFrom.register(labelCreateCmd, "from-", "sender")
	f.StringVar(&labelFrom.document, "from-document", "", "sender CNPJ (required)")
	labelTo.register(labelCreateCmd, "to-", "recipient")
	f.StringVar(&labelTo.document, "to-document", "", "recipient CPF or CNPJ")
	addPackageFlags(labelCreateCmd, &labelPkg)
	f.StringVar(&labelProduct, "product", "", "declared product name")
	f.IntVar(&labelQuantity, "quantity", 0, "declared product quantity")
	f.StringVar(&labelValue, "value", "", "declared unit value in BRL, also insured")
	f.BoolVar(&labelJSON, "json", false, "output the order as JSON")

	labelPrintCmd.Flags().StringVar(&printMode, "mode", string(domain.PrintModePrivate), "print mode: private or public")
	labelPrintCmd.Flags().StringVarP(&printOutput, "output", "o", "", "output file (default <order-id>.pdf)")

	labelCmd.AddCommand(labelCreateCmd)
	labelCmd.AddCommand(labelPrintCmd)
	rootCmd.AddCommand(labelCmd)
}

func runLabelCreate(cmd *cobra.Command, _ []string) error {
	if labelService == nil {
		return errors.New("label service not configured")
	}

	value := decimal.Zero
	if labelValue != "" {
		v, err := decimal.NewFromString(strings.ReplaceAll(labelValue, ",", "."))
		if err != nil {
			return fmt.Errorf("invalid --value %q: %w", labelValue, domain.ErrInvalidInput)
		}
		value = v
	}

	req := domain.LabelRequest{
		ServiceID: labelServiceID,
		From: domain.Sender{
			Contact:         labelFrom.contact(),
			Address:         labelFrom.address(),
			CompanyDocument: labelFrom.document,
			PostalCode:      labelFrom.postalCode,
		},
		To: domain.Recipient{
			Contact:    labelTo.contact(),
			Address:    labelTo.address(),
			Document:   labelTo.document,
			PostalCode: labelTo.postalCode,
		},
		Package: labelPkg,
		Product: domain.Product{
			Name:         labelProduct,
			Quantity:     labelQuantity,
			UnitaryValue: value,
		},
	}

	logger.Section("Label workflow")
	order, err := labelService.CreateLabel(cmd.Context(), req)
	if err != nil {
		printWorkflowError(cmd, err)
		return fmt.Errorf("label creation failed: %w", err)
	}

	if labelJSON {
		data, err := json.MarshalIndent(order, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal order: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(successStyle.Render("Label purchased"))
	cmd.Println(field("Order", order.ID))
	if order.Protocol != "" {
		cmd.Println(field("Protocol", order.Protocol))
	}
	if order.Status != "" {
		cmd.Println(field("Status", order.Status))
	}
	if !order.Price.IsZero() {
		cmd.Println(field("Price", "R$ "+order.Price.StringFixed(2)))
	}
	cmd.Println()
	cmd.Println(mutedStyle.Render(fmt.Sprintf("Download it with 'envio label print %s'.", order.ID)))
	return nil
}

// printWorkflowError explains what happened to the order created by the cart step.
func printWorkflowError(cmd *cobra.Command, err error) {
	var wfErr *domain.WorkflowError
	if !errors.As(err, &wfErr) {
		return
	}

	cmd.PrintErrln(errorStyle.Render(wfErr.Error()))

	fields := make([]string, 0, len(wfErr.Fields))
	for name := range wfErr.Fields {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	for _, name := range fields {
		cmd.PrintErrf("  %s: %s\n", name, strings.Join(wfErr.Fields[name], "; "))
	}

	switch {
	case wfErr.Leaked():
		cmd.PrintErrln(warningStyle.Render(fmt.Sprintf(
			"Order %s could not be rolled back (%v). Remove it from the cart or cancel it manually.",
			wfErr.OrderID, wfErr.CompensationErr)))
	case wfErr.Compensated:
		cmd.PrintErrln(mutedStyle.Render(fmt.Sprintf("Order %s was rolled back.", wfErr.OrderID)))
	}
	if wfErr.RunID != "" {
		cmd.PrintErrln(mutedStyle.Render("Run " + wfErr.RunID))
	}
}

func runLabelPrint(cmd *cobra.Command, args []string) error {
	if labelService == nil {
		return errors.New("label service not configured")
	}

	label, err := labelService.PrintLabel(cmd.Context(), args[0], domain.PrintMode(printMode))
	if err != nil {
		return fmt.Errorf("print failed: %w", err)
	}

	path := printOutput
	if path == "" {
		path = args[0] + labelExtension(label.ContentType)
	}
	if err := os.WriteFile(path, label.Content, 0o600); err != nil {
		return fmt.Errorf("failed to write label: %w", err)
	}

	cmd.Printf("Label for order %s saved to %s (%d bytes)\n", label.OrderID, path, len(label.Content))
	return nil
}

// labelExtension picks a file extension for the label content type.
func labelExtension(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".pdf"
	}
	switch mediaType {
	case "text/html":
		return ".html"
	case "application/json":
		return ".json"
	default:
		return ".pdf"
	}
}
