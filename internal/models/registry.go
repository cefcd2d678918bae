package models

import (
	"errors"
	"fmt"
)

// Locality says where a model is served from.
type Locality int

const (
	Local Locality = iota // on this machine (Ollama) or a user-supplied endpoint
	Cloud                 // a remote hosted provider
)

func (l Locality) String() string {
	if l == Cloud {
		return "cloud"
	}
	return "local"
}

// MarshalYAML writes the locality as "local" or "cloud".
func (l Locality) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

// Provider names the upstream API family a model is served by.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderCohere    Provider = "cohere"
	ProviderOllama    Provider = "ollama"
	ProviderCustom    Provider = "custom"
)

// Icon is a terminal icon reference: a glyph and the hex colour it is drawn in.
type Icon struct {
	Glyph string `yaml:"glyph"`
	Color string `yaml:"color"`
}

// Descriptor is the display metadata for a model along with its locality tag.
type Descriptor struct {
	Model       ChatModel `yaml:"model"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	SmallIcon   Icon      `yaml:"small_icon"`
	Icon        Icon      `yaml:"icon"`
	Locality    Locality  `yaml:"locality"`
	Provider    Provider  `yaml:"provider"`
	Upstream    string    `yaml:"upstream,omitempty"`
}

// ErrMissingDescriptor means a ChatModel has no registry entry. For enum
// members this is a startup invariant violation caught by Validate.
var ErrMissingDescriptor = errors.New("missing descriptor for chat model")

var registry = map[ChatModel]Descriptor{
	GPT4oMini: {
		Model:       GPT4oMini,
		Name:        "Fast",
		Description: "OpenAI/GPT-4o-mini",
		SmallIcon:   Icon{Glyph: "»", Color: "#06B6D4"},
		Icon:        Icon{Glyph: "🐇", Color: "#06B6D4"},
		Locality:    Cloud,
		Provider:    ProviderOpenAI,
		Upstream:    "gpt-4o-mini",
	},
	GPT4o: {
		Model:       GPT4o,
		Name:        "Powerful",
		Description: "OpenAI/GPT-4o",
		SmallIcon:   Icon{Glyph: "◆", Color: "#EC4899"},
		Icon:        Icon{Glyph: "🧠", Color: "#EC4899"},
		Locality:    Cloud,
		Provider:    ProviderOpenAI,
		Upstream:    "gpt-4o",
	},
	Claude35Sonnet: {
		Model:       Claude35Sonnet,
		Name:        "Hyper",
		Description: "anthropic/claude-3.5-sonnet",
		SmallIcon:   Icon{Glyph: "ϟ", Color: "#EAB308"},
		Icon:        Icon{Glyph: "⚡", Color: "#EAB308"},
		Locality:    Cloud,
		Provider:    ProviderAnthropic,
		Upstream:    "claude-3-5-sonnet-20240620",
	},
	CommandR: {
		Model:       CommandR,
		Name:        "Command R",
		Description: "cohere/command-r",
		SmallIcon:   Icon{Glyph: "✦", Color: "#8B5CF6"},
		Icon:        Icon{Glyph: "✨", Color: "#8B5CF6"},
		Locality:    Cloud,
		Provider:    ProviderCohere,
		Upstream:    "command-r",
	},
	Llama70B: {
		Model:       Llama70B,
		Name:        "Llama 3 70B",
		Description: "meta/llama-3-70b",
		SmallIcon:   Icon{Glyph: "▲", Color: "#F97316"},
		Icon:        Icon{Glyph: "🔥", Color: "#F97316"},
		Locality:    Local,
		Provider:    ProviderOllama,
		Upstream:    "llama3:70b",
	},
	LocalLlama3: {
		Model:       LocalLlama3,
		Name:        "Llama 3.1",
		Description: "ollama/llama3.1",
		SmallIcon:   Icon{Glyph: "▲", Color: "#84CC16"},
		Icon:        Icon{Glyph: "🦙", Color: "#84CC16"},
		Locality:    Local,
		Provider:    ProviderOllama,
		Upstream:    "llama3.1",
	},
	LocalGemma: {
		Model:       LocalGemma,
		Name:        "Gemma",
		Description: "ollama/gemma",
		SmallIcon:   Icon{Glyph: "◇", Color: "#3B82F6"},
		Icon:        Icon{Glyph: "💎", Color: "#3B82F6"},
		Locality:    Local,
		Provider:    ProviderOllama,
		Upstream:    "gemma",
	},
	LocalMistral: {
		Model:       LocalMistral,
		Name:        "Mistral",
		Description: "ollama/mistral",
		SmallIcon:   Icon{Glyph: "≋", Color: "#F59E0B"},
		Icon:        Icon{Glyph: "🌬", Color: "#F59E0B"},
		Locality:    Local,
		Provider:    ProviderOllama,
		Upstream:    "mistral",
	},
	LocalPhi3_14B: {
		Model:       LocalPhi3_14B,
		Name:        "Phi-3 14B",
		Description: "ollama/phi3:14b",
		SmallIcon:   Icon{Glyph: "φ", Color: "#14B8A6"},
		Icon:        Icon{Glyph: "⚛", Color: "#14B8A6"},
		Locality:    Local,
		Provider:    ProviderOllama,
		Upstream:    "phi3:14b",
	},
	Custom: {
		Model:       Custom,
		Name:        "Custom",
		Description: "model from custom_model / CUSTOM_MODEL",
		SmallIcon:   Icon{Glyph: "⚙", Color: "#6B7280"},
		Icon:        Icon{Glyph: "⚙", Color: "#6B7280"},
		Locality:    Local,
		Provider:    ProviderCustom,
	},
}

// DescriptorOf returns the descriptor for m.
func DescriptorOf(m ChatModel) (Descriptor, error) {
	d, ok := registry[m]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrMissingDescriptor, m)
	}
	return d, nil
}

// DescriptorOrDefault returns the descriptor for m, or the DefaultModel's
// descriptor when m has none. Used where a lookup must not fail a render.
func DescriptorOrDefault(m ChatModel) Descriptor {
	if d, err := DescriptorOf(m); err == nil {
		return d
	}
	return registry[DefaultModel]
}

// IsCloudModel reports whether m is served by a remote hosted provider.
// Values outside the registry are not cloud models.
func IsCloudModel(m ChatModel) bool {
	d, ok := registry[m]
	return ok && d.Locality == Cloud
}

// IsLocalModel is the negation of IsCloudModel.
func IsLocalModel(m ChatModel) bool {
	return !IsCloudModel(m)
}

// CloudModels returns the cloud-served models in declaration order.
func CloudModels() []ChatModel {
	return filter(IsCloudModel)
}

// LocalModels returns the locally served models in declaration order.
func LocalModels() []ChatModel {
	return filter(IsLocalModel)
}

// Descriptors maps ms to their descriptors, skipping any without one.
func Descriptors(ms []ChatModel) []Descriptor {
	out := make([]Descriptor, 0, len(ms))
	for _, m := range ms {
		if d, ok := registry[m]; ok {
			out = append(out, d)
		}
	}
	return out
}

func filter(keep func(ChatModel) bool) []ChatModel {
	var out []ChatModel
	for _, m := range enum {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks that the registry covers exactly the enum and that every
// entry is well formed. It is run once at startup.
func Validate() error {
	return validate(registry, enum)
}

func validate(entries map[ChatModel]Descriptor, members []ChatModel) error {
	var errs []error
	known := make(map[ChatModel]bool, len(members))
	for _, m := range members {
		known[m] = true
		d, ok := entries[m]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrMissingDescriptor, m))
			continue
		}
		if d.Model != m {
			errs = append(errs, fmt.Errorf("descriptor for %q is keyed as %q", m, d.Model))
		}
		if d.Name == "" || d.Description == "" {
			errs = append(errs, fmt.Errorf("descriptor for %q has an empty name or description", m))
		}
	}
	for m := range entries {
		if !known[m] {
			errs = append(errs, fmt.Errorf("descriptor registered for unknown chat model %q", m))
		}
	}
	return errors.Join(errs...)
}
