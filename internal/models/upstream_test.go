package models

import (
	"errors"
	"testing"
)

func TestUpstreamName(t *testing.T) {
	tests := []struct {
		name    string
		model   ChatModel
		env     Env
		want    string
		wantErr error
	}{
		{"openai default mode", GPT4o, Env{}, "gpt-4o", nil},
		{"openai explicit mode", GPT4oMini, Env{OpenAIMode: "openai"}, "gpt-4o-mini", nil},
		{"azure mode", GPT4o, Env{OpenAIMode: "azure"}, "azure/gpt-4o", nil},
		{"azure mode case-insensitive", GPT4oMini, Env{OpenAIMode: "Azure"}, "azure/gpt-4o-mini", nil},
		{"azure mode ignored for anthropic", Claude35Sonnet, Env{OpenAIMode: "azure"}, "claude-3-5-sonnet-20240620", nil},
		{"local model", LocalLlama3, Env{}, "llama3.1", nil},
		{"local model with tag", LocalPhi3_14B, Env{}, "phi3:14b", nil},
		{"custom model", Custom, Env{CustomModel: "groq/llama3-8b-8192"}, "groq/llama3-8b-8192", nil},
		{"custom model unset", Custom, Env{}, "", ErrCustomModelUnset},
		{"custom model blank", Custom, Env{CustomModel: "   "}, "", ErrCustomModelUnset},
		{"unknown model", ChatModel("gpt-2"), Env{}, "", ErrMissingDescriptor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UpstreamName(tt.model, tt.env)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UpstreamName(%q) error = %v, want %v", tt.model, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpstreamName(%q) unexpected error: %v", tt.model, err)
			}
			if got != tt.want {
				t.Errorf("UpstreamName(%q) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}

func TestEnv_WithOSOverrides(t *testing.T) {
	t.Setenv("OPENAI_MODE", "azure")
	t.Setenv("CUSTOM_MODEL", "together/mixtral")

	env := Env{OpenAIMode: "openai", CustomModel: "from-config"}.WithOSOverrides()
	if env.OpenAIMode != "azure" {
		t.Errorf("OpenAIMode = %q, want azure", env.OpenAIMode)
	}
	if env.CustomModel != "together/mixtral" {
		t.Errorf("CustomModel = %q, want together/mixtral", env.CustomModel)
	}
}

func TestEnv_WithOSOverrides_KeepsConfig(t *testing.T) {
	t.Setenv("OPENAI_MODE", "")
	t.Setenv("CUSTOM_MODEL", "")

	env := Env{OpenAIMode: "azure", CustomModel: "from-config"}.WithOSOverrides()
	if env.OpenAIMode != "azure" || env.CustomModel != "from-config" {
		t.Errorf("WithOSOverrides() = %+v, want config values kept", env)
	}
}
