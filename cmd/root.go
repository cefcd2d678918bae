package cmd

import (
	"fmt"
	"io"
	"os"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/perch-ai/perch/internal/config"
	"github.com/perch-ai/perch/internal/logging"
	"github.com/perch-ai/perch/internal/models"
)

var (
	configDirFlag string
	logCloser     io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "perch",
	Short: "Answer engine for the terminal",
	Long: `perch answers questions from your terminal using cloud or local
language models. Pick a model once with 'perch select' and ask away, in the
interactive TUI or one-shot with 'perch ask'.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDirFlag, "config", "c", "", "config directory (default ~/.config/perch)")
}

// setup checks the model registry and starts file logging before any command runs
func setup(cmd *cobra.Command, args []string) error {
	if configDirFlag != "" {
		os.Setenv("PERCH_CONFIG_DIR", configDirFlag)
	}

	if err := models.Validate(); err != nil {
		return fmt.Errorf("invalid model registry: %w", err)
	}

	configDir, err := config.DefaultConfigDir()
	if err != nil {
		logging.Disable()
		return nil
	}

	level := config.DefaultLogLevel
	if cfg, err := config.Load(); err == nil && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}

	closer, err := logging.Setup(configDir, level)
	if err != nil {
		// Logging is best effort
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	logCloser = closer
	zlog.Debug().Str("command", cmd.CommandPath()).Msg("starting")
	return nil
}
