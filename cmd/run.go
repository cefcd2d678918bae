package cmd

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/perch-ai/perch/internal/auth"
	"github.com/perch-ai/perch/internal/config"
	"github.com/perch-ai/perch/internal/llm"
	"github.com/perch-ai/perch/internal/models"
	"github.com/perch-ai/perch/internal/tui"
)

var queryFlag string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the perch TUI",
	Long: `Launch the interactive TUI. Ask questions, pick one of the starter
questions, or press Ctrl+O to switch models.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&queryFlag, "query", "q", "", "Initial question to ask")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store := config.NewStore(cfg, "")

	// A missing key is reported before the alt screen takes over the
	// terminal. Other resolve errors surface inside the TUI, where the user
	// can switch models.
	if _, err := auth.ResolveProviderConfig(cfg, store.Model()); blocksStartup(err) {
		fmt.Println(auth.FormatSetupInstructions(err))
		return err
	}

	model := tui.NewModel(tui.Options{
		Store:        store,
		Resolve:      storeResolver(store),
		InitialQuery: strings.TrimSpace(queryFlag),
		Version:      Version,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// storeResolver resolves credentials against the store's current config, so
// keys and endpoints are re-read whenever the TUI switches models
func storeResolver(store *config.Store) tui.ResolveFunc {
	return func(m models.ChatModel) (llm.ProviderConfig, error) {
		cfg := store.Config()
		return auth.ResolveProviderConfig(&cfg, m)
	}
}

// blocksStartup reports whether resolving the stored model failed in a way
// that switching models from the TUI cannot fix
func blocksStartup(err error) bool {
	var noBase *auth.ErrNoAPIBase
	switch {
	case err == nil:
		return false
	case errors.Is(err, models.ErrMissingDescriptor),
		errors.Is(err, models.ErrCustomModelUnset),
		errors.As(err, &noBase):
		return false
	default:
		return true
	}
}
