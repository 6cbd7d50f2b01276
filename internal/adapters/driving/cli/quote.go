package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

var (
	quoteFrom string
	quoteTo   string
	quotePkg  domain.Package
	quoteJSON bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote shipping services",
	Long: `Lists the shipping services the carrier can serve between two postal codes.

Services the carrier flags as unavailable for the route or parcel are left out.
Parcel dimensions default to the configured package.`,
	Example: `  envio quote --from 01310-100 --to 20040-020 --weight 1.2`,
	Args:    cobra.NoArgs,
	RunE:    runQuote,
}

func init() {
	addPackageFlags(quoteCmd, &quotePkg)
	quoteCmd.Flags().StringVar(&quoteFrom, "from", "", "origin postal code (required)")
	quoteCmd.Flags().StringVar(&quoteTo, "to", "", "destination postal code (required)")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "output options as JSON")
	rootCmd.AddCommand(quoteCmd)
}

func addPackageFlags(cmd *cobra.Command, pkg *domain.Package) {
	cmd.Flags().Float64Var(&pkg.Height, "height", 0, "parcel height in cm")
	cmd.Flags().Float64Var(&pkg.Width, "width", 0, "parcel width in cm")
	cmd.Flags().Float64Var(&pkg.Length, "length", 0, "parcel length in cm")
	cmd.Flags().Float64Var(&pkg.Weight, "weight", 0, "parcel weight in kg")
}

func runQuote(cmd *cobra.Command, _ []string) error {
	if quoteService == nil {
		return errors.New("quote service not configured")
	}

	options, err := quoteService.Quote(cmd.Context(), domain.QuoteRequest{
		FromPostalCode: quoteFrom,
		ToPostalCode:   quoteTo,
		Package:        quotePkg,
	})
	if err != nil {
		return fmt.Errorf("quote failed: %w", err)
	}

	if quoteJSON {
		data, err := json.MarshalIndent(options, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal options: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(options) == 0 {
		cmd.Println("No shipping services available for this route.")
		return nil
	}

	cmd.Println(titleStyle.Render("Shipping options"))
	cmd.Println()
	for _, opt := range options {
		name := opt.Name
		if opt.Company != "" {
			name = opt.Company + " " + opt.Name
		}
		cmd.Printf("  [%d] %s\n", opt.ID, headerStyle.Render(name))
		cmd.Println(field("Price", "R$ "+opt.Price.StringFixed(2)))
		cmd.Println(field("Delivery", fmt.Sprintf("%d business days", opt.DeliveryTime)))
		cmd.Println()
	}
	cmd.Println(mutedStyle.Render("Use the service id with 'envio label create --service <id>'."))

	return nil
}
