package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/perch-ai/perch/internal/auth"
	"github.com/perch-ai/perch/internal/config"
	"github.com/perch-ai/perch/internal/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize perch configuration",
	Long:  `Interactive setup wizard to choose a model, a connection and API keys.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	fmt.Println("Welcome to perch setup!")
	fmt.Println()

	if config.ConfigExists() {
		if !confirm("Configuration already exists. Overwrite?") {
			fmt.Println("Setup cancelled.")
			return nil
		}
		fmt.Println()
	}

	cfg := &config.Config{
		Model:      config.DefaultModel,
		OpenAIMode: config.DefaultOpenAIMode,
	}

	fmt.Println("How should perch reach the models?")
	fmt.Println("1. Directly, with provider API keys (recommended)")
	fmt.Println("2. Through an OpenAI-compatible proxy such as LiteLLM")
	fmt.Println("3. Only local models served by Ollama")
	choice := promptLine("> ")
	fmt.Println()

	switch choice {
	case "2":
		if err := runProxySetup(cfg); err != nil {
			return err
		}
	case "3":
		runOllamaSetup(cfg)
	default:
		if err := runDirectSetup(cfg); err != nil {
			return err
		}
	}

	// The wizard owns every key, so the whole config is written
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, _ := config.DefaultConfigPath()
	d := models.DescriptorOrDefault(cfg.Model)
	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	fmt.Printf("Model: %s %s (%s)\n", d.SmallIcon.Glyph, d.Name, d.Description)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  perch run               # interactive")
	fmt.Println("  perch ask \"What is a LLM?\"")

	// Tell the user now rather than on the first question
	if _, err := auth.ResolveProviderConfig(cfg, config.NewStore(cfg, "").Model()); err != nil {
		fmt.Println()
		fmt.Println(auth.FormatSetupInstructions(err))
	}
	return nil
}

func runDirectSetup(cfg *config.Config) error {
	model, err := pickModel(config.DefaultModel, false)
	if err != nil {
		return err
	}
	cfg.Model = model

	d, err := models.DescriptorOf(model)
	if err != nil {
		return err
	}
	slot := ""
	switch d.Provider {
	case models.ProviderOpenAI:
		slot = auth.SlotOpenAI
	case models.ProviderAnthropic:
		slot = auth.SlotAnthropic
	case models.ProviderCohere:
		fmt.Println()
		fmt.Printf("%s is only reachable through a proxy; set api_base later or rerun 'perch init'.\n", d.Description)
		return nil
	default:
		return nil
	}

	if os.Getenv(auth.EnvVar(slot)) != "" {
		fmt.Printf("\nUsing %s from the environment.\n", auth.EnvVar(slot))
		return nil
	}

	fmt.Println()
	if opened, fallback := auth.OpenKeyPage(slot); opened {
		fmt.Printf("Opened %s in your browser.\n", auth.KeyPageURL(slot))
	} else if fallback != "" {
		fmt.Println(fallback)
	}
	return storeKey(slot)
}

func runProxySetup(cfg *config.Config) error {
	cfg.APIBase = promptLine("Proxy URL [http://localhost:4000]: ")
	if cfg.APIBase == "" {
		cfg.APIBase = "http://localhost:4000"
	}

	if confirm("Does the proxy expect Azure deployment names (azure/<model>)?") {
		cfg.OpenAIMode = models.OpenAIModeAzure
	}

	fmt.Println()
	model, err := pickModel(config.DefaultModel, true)
	if err != nil {
		return err
	}
	cfg.Model = model
	if model == models.Custom {
		cfg.CustomModel = promptLine("Upstream model name (e.g. groq/llama3-8b-8192): ")
	}

	fmt.Println()
	return storeKey(auth.SlotProxy)
}

func runOllamaSetup(cfg *config.Config) {
	cfg.ShowLocalModels = true
	if base := promptLine(fmt.Sprintf("Ollama URL [%s]: ", config.DefaultOllamaBase)); base != "" {
		cfg.OllamaBase = base
	}

	fmt.Println()
	fmt.Println("Select model:")
	locals := models.Descriptors(models.LocalModels())
	var ollama []models.Descriptor
	for _, d := range locals {
		if d.Provider == models.ProviderOllama {
			ollama = append(ollama, d)
		}
	}
	for i, d := range ollama {
		fmt.Printf("%d. %s %s - %s\n", i+1, d.SmallIcon.Glyph, d.Name, d.Description)
	}
	choice := promptLine("> ")

	cfg.Model = ollama[0].Model
	for i, d := range ollama {
		if choice == fmt.Sprint(i+1) {
			cfg.Model = d.Model
		}
	}
	fmt.Printf("\nMake sure it is pulled: ollama pull %s\n", ollamaTag(cfg.Model))
}

func ollamaTag(m models.ChatModel) string {
	d, err := models.DescriptorOf(m)
	if err != nil || d.Upstream == "" {
		return string(m)
	}
	return d.Upstream
}

// storeKey prompts for a key and saves it; an empty answer skips
func storeKey(slot string) error {
	key, err := promptSecret(fmt.Sprintf("Enter your %s API key (Enter to skip): ", slot))
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}
	if key == "" {
		fmt.Printf("Skipped. Run 'perch auth set %s' or set %s later.\n", slot, auth.EnvVar(slot))
		return nil
	}

	creds, err := auth.LoadCredentials()
	if err != nil {
		return err
	}
	creds.Set(slot, key)
	if err := auth.SaveCredentials(creds); err != nil {
		return err
	}
	fmt.Println("✓ Key stored")
	return nil
}
