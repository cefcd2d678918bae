package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/perch-ai/perch/internal/config"
	"github.com/perch-ai/perch/internal/llm"
	"github.com/perch-ai/perch/internal/models"
)

// ErrNoAPIKey is returned when no API key is configured for a provider
type ErrNoAPIKey struct {
	Slot            string
	CredentialsPath string
	FileExists      bool
}

func (e *ErrNoAPIKey) Error() string {
	return fmt.Sprintf("no %s API key configured", e.Slot)
}

// ErrNoAPIBase is returned when a model can only be reached through an
// OpenAI-compatible proxy and api_base is not set
type ErrNoAPIBase struct {
	Model models.ChatModel
}

func (e *ErrNoAPIBase) Error() string {
	return fmt.Sprintf("model %q requires api_base to be set", e.Model)
}

// KeyLookup returns the API key for a slot
type KeyLookup func(slot string) string

// EnvThenFile looks a key up in the slot's environment variable, then in creds
func EnvThenFile(creds *Credentials) KeyLookup {
	return func(slot string) string {
		if key := os.Getenv(EnvVar(slot)); key != "" {
			return key
		}
		return creds.Get(slot)
	}
}

// ResolveProviderConfig determines which API, endpoint and key to use for
// the selected model, using environment variables and credentials.yaml.
func ResolveProviderConfig(cfg *config.Config, model models.ChatModel) (llm.ProviderConfig, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return llm.ProviderConfig{}, err
	}
	return Resolve(cfg, model, EnvThenFile(creds))
}

// Resolve determines the provider config for model.
//
// Resolution order:
//  1. api_base set → every model goes through the proxy (key optional)
//  2. ollama models → ollama_base, no key
//  3. openai / anthropic → provider endpoint with its API key
//  4. cohere and custom models need a proxy → ErrNoAPIBase
func Resolve(cfg *config.Config, model models.ChatModel, lookup KeyLookup) (llm.ProviderConfig, error) {
	d, err := models.DescriptorOf(model)
	if err != nil {
		return llm.ProviderConfig{}, err
	}

	upstream, err := models.UpstreamName(model, cfg.ModelEnv())
	if err != nil {
		return llm.ProviderConfig{}, err
	}

	providerCfg := llm.ProviderConfig{
		Kind:  llm.KindOpenAI,
		Model: upstream,
	}

	// 1. Proxy routes everything
	if cfg.UsesProxy() {
		providerCfg.BaseURL = cfg.APIBase
		providerCfg.APIKey = lookup(SlotProxy)
		return providerCfg, nil
	}

	switch d.Provider {
	case models.ProviderOllama:
		// 2. Local Ollama speaks the OpenAI API and needs no key
		providerCfg.BaseURL = cfg.GetEffectiveOllamaBase()
		return providerCfg, nil

	case models.ProviderOpenAI:
		if upstream != d.Upstream {
			// azure/* names are only understood by a proxy
			return llm.ProviderConfig{}, &ErrNoAPIBase{Model: model}
		}
		return withKey(providerCfg, SlotOpenAI, lookup)

	case models.ProviderAnthropic:
		providerCfg.Kind = llm.KindAnthropic
		return withKey(providerCfg, SlotAnthropic, lookup)

	default:
		return llm.ProviderConfig{}, &ErrNoAPIBase{Model: model}
	}
}

func withKey(providerCfg llm.ProviderConfig, slot string, lookup KeyLookup) (llm.ProviderConfig, error) {
	key := lookup(slot)
	if key == "" {
		credPath, _ := CredentialsPath()
		_, statErr := os.Stat(credPath)
		return providerCfg, &ErrNoAPIKey{
			Slot:            slot,
			CredentialsPath: credPath,
			FileExists:      statErr == nil,
		}
	}
	providerCfg.APIKey = key
	return providerCfg, nil
}

// FormatSetupInstructions returns user-friendly setup instructions based on the error
func FormatSetupInstructions(err error) string {
	var noKey *ErrNoAPIKey
	var noBase *ErrNoAPIBase

	switch {
	case errors.As(err, &noKey):
		if !noKey.FileExists {
			return fmt.Sprintf(`No %s API key configured.

To get started, either:
  1. Run 'perch auth set %s' to store a key
  2. Set the %s environment variable
  3. Run 'perch init' to walk through setup`, noKey.Slot, noKey.Slot, EnvVar(noKey.Slot))
		}
		return fmt.Sprintf(`Credentials file exists but has no %s API key.

To fix this, either:
  1. Run 'perch auth set %s'
  2. Add 'keys: {%s: your-key}' to %s
  3. Set the %s environment variable`, noKey.Slot, noKey.Slot, noKey.Slot, noKey.CredentialsPath, EnvVar(noKey.Slot))

	case errors.As(err, &noBase):
		return fmt.Sprintf(`Model %q can only be reached through an OpenAI-compatible proxy.

To fix this, either:
  1. Set 'api_base' in your config (e.g. http://localhost:4000 for LiteLLM)
  2. Set the PERCH_API_BASE environment variable
  3. Run 'perch select' to choose another model`, noBase.Model)

	case errors.Is(err, models.ErrCustomModelUnset):
		return `The custom model is selected but no model name is configured.

To fix this, either:
  1. Set 'custom_model' in your config
  2. Set the CUSTOM_MODEL environment variable`

	case errors.Is(err, models.ErrMissingDescriptor):
		return fmt.Sprintf(`%s.

Press Ctrl+O or run 'perch select' to choose a model.`, err)

	default:
		return err.Error()
	}
}
