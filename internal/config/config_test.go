package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perch-ai/perch/internal/models"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, models.GPT4oMini, cfg.Model)
	assert.Equal(t, DefaultOpenAIMode, cfg.OpenAIMode)
	assert.Equal(t, DefaultOllamaBase, cfg.OllamaBase)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.ShowLocalModels)
	assert.False(t, cfg.UsesProxy())
}

func TestSaveTo_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := &Config{
		Model:           models.Claude35Sonnet,
		OpenAIMode:      "azure",
		CustomModel:     "groq/llama3-70b-8192",
		APIBase:         "http://localhost:4000",
		OllamaBase:      "http://gpu-box:11434/v1",
		ShowLocalModels: true,
		LogLevel:        "debug",
	}
	require.NoError(t, SaveTo(dir, in))

	out, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, *in, *out)
}

func TestLoadFrom_CanonicalizesModel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  models.ChatModel
	}{
		{"identifier", "gpt-4o", models.GPT4o},
		{"symbol", "CLAUDE_3_5_SONNET", models.Claude35Sonnet},
		{"unknown is kept", "gpt-2", models.ChatModel("gpt-2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			data := []byte("model: " + tt.value + "\n")
			require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), data, 0644))

			cfg, err := LoadFrom(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Model)
		})
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("PERCH_MODEL", "gemma")
	t.Setenv("PERCH_SHOW_LOCAL_MODELS", "true")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, models.LocalGemma, cfg.Model)
	assert.True(t, cfg.ShowLocalModels)
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("model: [unclosed"), 0644))

	_, err := LoadFrom(dir)
	assert.Error(t, err)
}

func TestModelEnv(t *testing.T) {
	t.Setenv("OPENAI_MODE", "")
	t.Setenv("CUSTOM_MODEL", "")

	cfg := &Config{OpenAIMode: "azure", CustomModel: "x"}
	env := cfg.ModelEnv()
	assert.Equal(t, "azure", env.OpenAIMode)
	assert.Equal(t, "x", env.CustomModel)
}

func TestGetEffectiveOllamaBase(t *testing.T) {
	assert.Equal(t, DefaultOllamaBase, (&Config{}).GetEffectiveOllamaBase())
	assert.Equal(t, "http://h:1/v1", (&Config{OllamaBase: "http://h:1/v1"}).GetEffectiveOllamaBase())
}
