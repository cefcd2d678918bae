package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/perch-ai/perch/internal/auth"
	"github.com/perch-ai/perch/internal/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider API keys",
	Long: fmt.Sprintf(`Store, remove and inspect the API keys perch uses.

Keys live in credentials.yaml next to the config file. Environment variables
take precedence over stored keys.

Slots: %s`, strings.Join(auth.Slots, ", ")),
}

var authSetCmd = &cobra.Command{
	Use:       "set <slot>",
	Short:     "Store an API key",
	Long:      `Prompt for an API key and store it in credentials.yaml.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: auth.Slots,
	RunE:      runAuthSet,
}

var authClearCmd = &cobra.Command{
	Use:   "clear [slot]",
	Short: "Remove stored API keys",
	Long:  `Remove the key for one slot, or every stored key when no slot is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuthClear,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which API keys are configured",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authOpen bool

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authClearCmd)
	authCmd.AddCommand(authStatusCmd)
	authSetCmd.Flags().BoolVar(&authOpen, "open", false, "open the provider's key page in a browser first")
}

func checkSlot(slot string) error {
	if !auth.ValidSlot(slot) {
		return fmt.Errorf("unknown slot %q (want one of: %s)", slot, strings.Join(auth.Slots, ", "))
	}
	return nil
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	slot := args[0]
	if err := checkSlot(slot); err != nil {
		return err
	}

	if authOpen {
		if opened, fallback := auth.OpenKeyPage(slot); !opened && fallback != "" {
			fmt.Println(fallback)
		}
	}

	key, err := promptSecret(fmt.Sprintf("Enter your %s API key: ", slot))
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}
	if key == "" {
		return fmt.Errorf("no key entered")
	}

	creds, err := auth.LoadCredentials()
	if err != nil {
		return err
	}
	creds.Set(slot, key)
	if err := auth.SaveCredentials(creds); err != nil {
		return err
	}

	credPath, _ := auth.CredentialsPath()
	fmt.Printf("✓ Stored %s key in %s\n", slot, credPath)
	return nil
}

func runAuthClear(cmd *cobra.Command, args []string) error {
	if !auth.CredentialsExist() {
		fmt.Println("No stored credentials.")
		return nil
	}

	if len(args) == 0 {
		if !confirm("Remove every stored API key?") {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := auth.DeleteCredentials(); err != nil {
			return err
		}
		fmt.Println("✓ Removed all stored keys.")
		return nil
	}

	slot := args[0]
	if err := checkSlot(slot); err != nil {
		return err
	}
	creds, err := auth.LoadCredentials()
	if err != nil {
		return err
	}
	if creds.Get(slot) == "" {
		fmt.Printf("No %s key stored.\n", slot)
		return nil
	}
	creds.Set(slot, "")
	if err := auth.SaveCredentials(creds); err != nil {
		return err
	}
	fmt.Printf("✓ Removed %s key.\n", slot)
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	creds, err := auth.LoadCredentials()
	if err != nil {
		return err
	}
	lookup := auth.EnvThenFile(creds)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "API Keys")
	fmt.Fprintln(out, "────────")
	for _, slot := range auth.Slots {
		source := "not set"
		switch {
		case lookup(slot) == "":
		case creds.Get(slot) != "" && lookup(slot) == creds.Get(slot):
			source = "credentials.yaml"
		default:
			source = "$" + auth.EnvVar(slot)
		}
		fmt.Fprintf(out, "%-10s %s\n", slot, source)
	}

	credPath, _ := auth.CredentialsPath()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Credentials file: %s\n", credPath)

	// Show whether the selected model is usable right now
	cfg, err := config.Load()
	if err != nil {
		return nil
	}
	model := config.NewStore(cfg, "").Model()
	if _, err := auth.Resolve(cfg, model, lookup); err != nil {
		fmt.Fprintf(out, "\nSelected model %q is not ready:\n%s\n", model, auth.FormatSetupInstructions(err))
	} else {
		fmt.Fprintf(out, "Selected model %q is ready.\n", model)
	}
	return nil
}
