package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/perch-ai/perch/internal/config"
	"github.com/perch-ai/perch/internal/models"
)

var (
	modelsLocal  bool
	modelsCloud  bool
	modelsOutput string
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the available chat models",
	Long: `List every chat model perch knows about.

  perch models              # all models
  perch models --cloud      # hosted models only
  perch models --local      # models served by a local Ollama
  perch models -o yaml      # machine-readable`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

var modelsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify every chat model has a descriptor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := models.Validate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %d models, %d cloud, %d local\n",
			len(models.All()), len(models.CloudModels()), len(models.LocalModels()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsCheckCmd)
	modelsCmd.Flags().BoolVar(&modelsLocal, "local", false, "only list local models")
	modelsCmd.Flags().BoolVar(&modelsCloud, "cloud", false, "only list cloud models")
	modelsCmd.Flags().StringVarP(&modelsOutput, "output", "o", "table", "output format: table or yaml")
	modelsCmd.MarkFlagsMutuallyExclusive("local", "cloud")
}

func runModels(cmd *cobra.Command, args []string) error {
	var list []models.ChatModel
	switch {
	case modelsLocal:
		list = models.LocalModels()
	case modelsCloud:
		list = models.CloudModels()
	default:
		list = models.All()
	}
	descriptors := models.Descriptors(list)

	selected := config.DefaultModel
	if cfg, err := config.Load(); err == nil {
		selected = config.NewStore(cfg, "").Model()
	}

	switch modelsOutput {
	case "table":
		return writeModelsTable(cmd.OutOrStdout(), descriptors, selected)
	case "yaml":
		return writeModelsYAML(cmd.OutOrStdout(), descriptors)
	default:
		return fmt.Errorf("unknown output format %q (want table or yaml)", modelsOutput)
	}
}

// writeModelsTable renders descriptors as a table, marking selected
func writeModelsTable(w io.Writer, descriptors []models.Descriptor, selected models.ChatModel) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "MODEL", "NAME", "DESCRIPTION", "WHERE", "PROVIDER").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, d := range descriptors {
		mark := ""
		if d.Model == selected {
			mark = "*"
		}
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color(d.SmallIcon.Color)).Render(d.SmallIcon.Glyph)
		t.Row(mark, string(d.Model), icon+" "+d.Name, d.Description, d.Locality.String(), string(d.Provider))
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// writeModelsYAML writes descriptors as a YAML list
func writeModelsYAML(w io.Writer, descriptors []models.Descriptor) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(descriptors); err != nil {
		return fmt.Errorf("failed to encode models: %w", err)
	}
	return enc.Close()
}
