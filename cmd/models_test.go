package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/perch-ai/perch/internal/models"
)

func TestWriteModelsTable(t *testing.T) {
	var buf bytes.Buffer
	descriptors := models.Descriptors(models.CloudModels())

	require.NoError(t, writeModelsTable(&buf, descriptors, models.GPT4o))

	out := buf.String()
	for _, d := range descriptors {
		assert.Contains(t, out, string(d.Model))
		assert.Contains(t, out, d.Description)
	}
	assert.Contains(t, out, "cloud")
	assert.NotContains(t, out, "local")
}

func TestWriteModelsYAML(t *testing.T) {
	var buf bytes.Buffer
	descriptors := models.Descriptors(models.LocalModels())

	require.NoError(t, writeModelsYAML(&buf, descriptors))

	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, len(descriptors))
	for i, d := range descriptors {
		assert.Equal(t, string(d.Model), decoded[i]["model"])
		assert.Equal(t, "local", decoded[i]["locality"])
	}
}

func TestOllamaTag(t *testing.T) {
	assert.Equal(t, "llama3:70b", ollamaTag(models.Llama70B))
	assert.Equal(t, "custom", ollamaTag(models.Custom))
}
