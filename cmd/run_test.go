package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/perch-ai/perch/internal/auth"
	"github.com/perch-ai/perch/internal/config"
	"github.com/perch-ai/perch/internal/models"
)

func TestBlocksStartup(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"resolved", nil, false},
		{"missing descriptor", fmt.Errorf("%w: %q", models.ErrMissingDescriptor, "retired-model"), false},
		{"no api base", &auth.ErrNoAPIBase{Model: models.CommandR}, false},
		{"custom model unset", models.ErrCustomModelUnset, false},
		{"no api key", &auth.ErrNoAPIKey{Slot: auth.SlotOpenAI}, true},
		{"wrapped no api key", fmt.Errorf("resolve: %w", &auth.ErrNoAPIKey{Slot: auth.SlotAnthropic}), true},
		{"other", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blocksStartup(tt.err))
		})
	}
}

func TestBlocksStartup_ResolvedConfigs(t *testing.T) {
	t.Setenv("PERCH_CONFIG_DIR", t.TempDir())

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"retired model", config.Config{Model: models.ChatModel("retired-model")}},
		{"proxy-only model without api_base", config.Config{Model: models.CommandR}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.ResolveProviderConfig(&tt.cfg, tt.cfg.Model)
			assert.Error(t, err)
			assert.False(t, blocksStartup(err))
		})
	}
}
