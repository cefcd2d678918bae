package cmd

import (
	"fmt"
	"strconv"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/perch-ai/perch/internal/config"
	"github.com/perch-ai/perch/internal/models"
)

var selectLocal bool

var selectCmd = &cobra.Command{
	Use:   "select [model]",
	Short: "Choose the chat model",
	Long: `Set the chat model used by 'perch run' and 'perch ask'.

  perch select gpt-4o        # by identifier
  perch select GPT_4O_MINI   # by symbol
  perch select               # pick from a list
  perch select --local       # pick from a list that includes local models`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.Flags().BoolVar(&selectLocal, "local", false, "include local models in the list")
}

func runSelect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store := config.NewStore(cfg, "")

	var model models.ChatModel
	if len(args) == 1 {
		if model, err = models.Parse(args[0]); err != nil {
			return err
		}
	} else {
		showLocal := selectLocal || store.ShowLocalModels()
		if model, err = pickModel(store.Model(), showLocal); err != nil {
			return err
		}
	}

	if err := store.SetModel(model); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	zlog.Info().Str("model", string(model)).Msg("model selected")

	d := store.Descriptor()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Selected %s %s (%s)\n", d.SmallIcon.Glyph, d.Name, d.Description)
	if models.IsLocalModel(model) {
		fmt.Fprintf(cmd.OutOrStdout(), "  Runs on your machine via %s\n", cfg.GetEffectiveOllamaBase())
	}
	return nil
}

// pickModel prints a numbered list and reads a choice. An empty answer keeps
// current.
func pickModel(current models.ChatModel, showLocal bool) (models.ChatModel, error) {
	list := models.CloudModels()
	if showLocal {
		list = append(list, models.LocalModels()...)
	}
	descriptors := models.Descriptors(list)

	fmt.Println("Select model:")
	for i, d := range descriptors {
		line := fmt.Sprintf("%d. %s %s - %s", i+1, d.SmallIcon.Glyph, d.Name, d.Description)
		if d.Locality == models.Local {
			line += " [local]"
		}
		if d.Model == current {
			line += " (current)"
		}
		fmt.Println(line)
	}

	choice := promptLine("> ")
	if choice == "" {
		return current, nil
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(descriptors) {
		// Accept a model name typed at the prompt as well
		return models.Parse(choice)
	}
	return descriptors[n-1].Model, nil
}
