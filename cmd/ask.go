package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/perch-ai/perch/internal/attach"
	"github.com/perch-ai/perch/internal/auth"
	"github.com/perch-ai/perch/internal/config"
	"github.com/perch-ai/perch/internal/llm"
	"github.com/perch-ai/perch/internal/models"
	"github.com/perch-ai/perch/internal/stdin"
)

var (
	askRaw   bool
	askModel string
	askFiles []string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Ask a question and print the answer.

Piped input is passed to the model as reference material:
  perch ask "What is a LLM?"
  cat error.log | perch ask "why is it crashing"
  kubectl get pods | perch ask                   # Summarize the output
  perch ask -m llama3.1 "Chandrayaan-3 landing?"  # Use another model once
  perch ask -f README.md "what does this do?"     # Attach files`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "print the answer as it streams, without markdown rendering")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "model to use instead of the selected one")
	askCmd.Flags().StringArrayVarP(&askFiles, "file", "f", nil, "attach a file as reference material (repeatable)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store := config.NewStore(cfg, "")

	model := store.Model()
	if askModel != "" {
		if model, err = models.Parse(askModel); err != nil {
			return err
		}
	}

	providerCfg, err := auth.ResolveProviderConfig(cfg, model)
	if err != nil {
		fmt.Println(auth.FormatSetupInstructions(err))
		return err
	}
	provider, err := llm.NewProvider(providerCfg)
	if err != nil {
		return err
	}

	req := llm.Request{Query: strings.TrimSpace(strings.Join(args, " "))}
	if stdin.IsPiped() {
		input, err := stdin.Read()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		req.Context = stdin.Truncate(input, stdin.MaxInputSize)
	}
	if len(askFiles) > 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		files := attach.Read(cwd, askFiles, attach.MaxTotalBytes)
		for _, f := range files {
			if f.Err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", f.Path, f.Err)
			}
		}
		req.Context = strings.TrimSpace(req.Context + "\n\n" + attach.Format(files))
	}

	if req.Query == "" && strings.TrimSpace(req.Context) == "" {
		fmt.Println("No question or piped input provided.")
		fmt.Println("\nUsage:")
		fmt.Println("  perch ask \"What is a LLM?\"")
		fmt.Println("  cat error.log | perch ask \"why?\"")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), llm.DefaultAPITimeout)
	defer cancel()

	out := cmd.OutOrStdout()
	if askRaw || !isTerminal(out) {
		return streamAnswer(ctx, provider, req, out)
	}
	return renderAnswer(ctx, provider, req, out)
}

// streamAnswer writes text deltas to out as they arrive
func streamAnswer(ctx context.Context, provider llm.Provider, req llm.Request, out io.Writer) error {
	_, err := provider.Stream(ctx, req, func(chunk string) {
		fmt.Fprint(out, chunk)
	})
	if err != nil {
		return fmt.Errorf("failed to get answer: %w", err)
	}
	fmt.Fprintln(out)
	return nil
}

// renderAnswer waits for the full answer and prints it as markdown
func renderAnswer(ctx context.Context, provider llm.Provider, req llm.Request, out io.Writer) error {
	fmt.Fprint(os.Stderr, "Thinking...")
	received := 0
	result, err := provider.Stream(ctx, req, func(chunk string) {
		received += len(chunk)
	})
	fmt.Fprint(os.Stderr, "\r\033[K")
	if err != nil {
		return fmt.Errorf("failed to get answer: %w", err)
	}
	zlog.Debug().Int("bytes", received).Str("request_id", result.RequestID).Msg("answer received")

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth(out)-4),
	)
	if err != nil {
		fmt.Fprintln(out, result.Text)
		return nil
	}
	rendered, err := renderer.Render(result.Text)
	if err != nil {
		fmt.Fprintln(out, result.Text)
		return nil
	}
	fmt.Fprint(out, rendered)
	return nil
}
