package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// OpenAI deployment modes
const (
	OpenAIModeOpenAI = "openai"
	OpenAIModeAzure  = "azure"
)

// ErrCustomModelUnset is returned when the Custom model is selected but no
// custom model string is configured.
var ErrCustomModelUnset = errors.New("CUSTOM_MODEL is not set")

// Env carries the settings that influence upstream model names.
type Env struct {
	OpenAIMode  string // "openai" (default) or "azure"
	CustomModel string // upstream name used for the Custom model
}

// WithOSOverrides returns e with OPENAI_MODE and CUSTOM_MODEL applied from
// the process environment when they are set.
func (e Env) WithOSOverrides() Env {
	if v := os.Getenv("OPENAI_MODE"); v != "" {
		e.OpenAIMode = v
	}
	if v := os.Getenv("CUSTOM_MODEL"); v != "" {
		e.CustomModel = v
	}
	return e
}

// UpstreamName returns the model string sent to the serving API for m.
func UpstreamName(m ChatModel, env Env) (string, error) {
	if m == Custom {
		custom := strings.TrimSpace(env.CustomModel)
		if custom == "" {
			return "", ErrCustomModelUnset
		}
		return custom, nil
	}

	d, err := DescriptorOf(m)
	if err != nil {
		return "", err
	}

	if d.Provider == ProviderOpenAI && strings.EqualFold(env.OpenAIMode, OpenAIModeAzure) {
		// Azure deployment names cannot contain dots
		return fmt.Sprintf("azure/%s", strings.ReplaceAll(d.Upstream, ".", "")), nil
	}
	return d.Upstream, nil
}
