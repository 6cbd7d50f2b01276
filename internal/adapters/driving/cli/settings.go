package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/envio-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/envio-cli/internal/core/domain"
)

var settingsSender partyFlags

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the API token, the carrier environment and the
defaults applied to new labels.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token [token]",
	Short: "Set the API token",
	Long: `Stores the carrier API token. When no token is given it is read from
the terminal without echo.

The ` + auth.EnvTokenVar + ` environment variable takes precedence over the stored token.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsToken,
}

var settingsEnvironmentCmd = &cobra.Command{
	Use:   "environment [sandbox|production]",
	Short: "Select the carrier environment",
	Long: `Selects which carrier deployment is used.

Available environments:
  sandbox     - Test deployment, labels are not billed
  production  - Live deployment, labels are charged to the account balance`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(domain.EnvironmentSandbox), string(domain.EnvironmentProduction)},
	RunE:      runSettingsEnvironment,
}

var settingsSenderCmd = &cobra.Command{
	Use:   "sender",
	Short: "Set the sender defaults",
	Long: `Updates the sender fields used when a label request leaves them empty.
Only the flags given are changed.`,
	Args: cobra.NoArgs,
	RunE: runSettingsSender,
}

func init() {
	f := settingsSenderCmd.Flags()
	f.StringVar(&settingsSender.name, "name", "", "sender name")
	f.StringVar(&settingsSender.phone, "phone", "", "sender phone")
	f.StringVar(&settingsSender.email, "email", "", "sender email")
	f.StringVar(&settingsSender.street, "address", "", "sender street")
	f.StringVar(&settingsSender.number, "number", "", "sender street number")
	f.StringVar(&settingsSender.complement, "complement", "", "sender address complement")
	f.StringVar(&settingsSender.district, "district", "", "sender district")
	f.StringVar(&settingsSender.city, "city", "", "sender city")
	f.StringVar(&settingsSender.state, "state", "", "sender state abbreviation")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	settingsCmd.AddCommand(settingsEnvironmentCmd)
	settingsCmd.AddCommand(settingsSenderCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(titleStyle.Render("Current Settings"))
	cmd.Println()

	cmd.Println(headerStyle.Render("[API]"))
	cmd.Println(field("Environment", settings.API.Environment.Description()))
	cmd.Println(field("Base URL", settings.API.EffectiveBaseURL()))
	if settings.API.Token != "" {
		cmd.Println(field("Token", maskAPIKey(settings.API.Token)))
	} else {
		cmd.Println(field("Token", "(not set)"))
	}
	if _, ok := os.LookupEnv(auth.EnvTokenVar); ok {
		cmd.Println(mutedStyle.Render("  " + auth.EnvTokenVar + " is set and overrides the stored token"))
	}
	cmd.Println(field("User agent", settings.API.UserAgent))
	cmd.Println(field("Requests/second", fmt.Sprintf("%g", settings.API.RequestsPerSecond)))
	cmd.Println()

	sender := settings.Defaults.Sender
	cmd.Println(headerStyle.Render("[Sender]"))
	cmd.Println(field("Name", sender.Name))
	cmd.Println(field("Phone", sender.Phone))
	cmd.Println(field("Email", sender.Email))
	cmd.Println(field("Address", formatAddress(sender.Address)))
	cmd.Println()

	pkg := settings.Defaults.Package
	cmd.Println(headerStyle.Render("[Package]"))
	cmd.Println(field("Dimensions", fmt.Sprintf("%g x %g x %g cm", pkg.Height, pkg.Width, pkg.Length)))
	cmd.Println(field("Weight", fmt.Sprintf("%g kg", pkg.Weight)))

	return nil
}

func runSettingsToken(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		cmd.Print("Enter API token: ")
		token = readPassword()
		cmd.Println()
	}

	if err := settingsService.SetToken(token); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}

	cmd.Printf("API token saved: %s\n", maskAPIKey(strings.TrimSpace(token)))
	return nil
}

func runSettingsEnvironment(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	env := domain.Environment(strings.ToLower(strings.TrimSpace(args[0])))
	if err := settingsService.SetEnvironment(env); err != nil {
		return fmt.Errorf("failed to set environment: %w", err)
	}

	cmd.Printf("Environment set to: %s\n", env.Description())
	if env == domain.EnvironmentProduction {
		cmd.Println(warningStyle.Render("Labels bought in production are charged to the account balance."))
	}
	return nil
}

func runSettingsSender(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	sender := settings.Defaults.Sender
	flags := cmd.Flags()
	set := func(name string, dst *string, value string) {
		if flags.Changed(name) {
			*dst = value
		}
	}
	set("name", &sender.Name, settingsSender.name)
	set("phone", &sender.Phone, settingsSender.phone)
	set("email", &sender.Email, settingsSender.email)
	set("address", &sender.Street, settingsSender.street)
	set("number", &sender.Number, settingsSender.number)
	set("complement", &sender.Complement, settingsSender.complement)
	set("district", &sender.District, settingsSender.district)
	set("city", &sender.City, settingsSender.city)
	set("state", &sender.StateAbbr, settingsSender.state)

	if err := settingsService.SetSender(sender); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	cmd.Printf("Sender defaults saved: %s, %s\n", sender.Name, formatAddress(sender.Address))
	return nil
}

// formatAddress renders an address on one line, skipping empty parts.
func formatAddress(a domain.Address) string {
	street := strings.TrimSpace(strings.Join([]string{a.Street, a.Number}, " "))
	parts := []string{street, a.Complement, a.District, a.City, a.StateAbbr}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return "(not set)"
	}
	return strings.Join(nonEmpty, ", ")
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
