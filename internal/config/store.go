package config

import (
	"fmt"
	"sync"

	"github.com/perch-ai/perch/internal/models"
)

// Store is the in-process owner of the loaded configuration and the
// currently selected chat model. Reads after SetModel observe the new value
// immediately. Safe for use from tea.Cmd goroutines.
type Store struct {
	mu  sync.RWMutex
	cfg Config
	dir string // where Save writes; empty means the default config dir
}

// NewStore wraps cfg. dir may be empty to persist to DefaultConfigDir.
func NewStore(cfg *Config, dir string) *Store {
	s := &Store{dir: dir}
	if cfg != nil {
		s.cfg = *cfg
	}
	if s.cfg.Model == "" {
		s.cfg.Model = DefaultModel
	}
	return s
}

// Model returns the selected chat model.
func (s *Store) Model() models.ChatModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Model
}

// SetModel selects m. Values outside the enum are rejected.
func (s *Store) SetModel(m models.ChatModel) error {
	if !m.Valid() {
		return fmt.Errorf("cannot select %q: %w", m, models.ErrUnknownModel)
	}
	s.mu.Lock()
	s.cfg.Model = m
	s.mu.Unlock()
	return nil
}

// Descriptor returns the selected model's descriptor, falling back to the
// default model's descriptor if the selection has none.
func (s *Store) Descriptor() models.Descriptor {
	return models.DescriptorOrDefault(s.Model())
}

// ShowLocalModels reports whether the selector should offer local models.
func (s *Store) ShowLocalModels() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.ShowLocalModels
}

// SetShowLocalModels toggles local models in the selector.
func (s *Store) SetShowLocalModels(show bool) {
	s.mu.Lock()
	s.cfg.ShowLocalModels = show
	s.mu.Unlock()
}

// Config returns a copy of the current configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Save persists the keys the store owns, model and show_local_models, into
// config.yaml. Every other key keeps its on-disk value, so PERCH_*
// environment overrides present at load time are never written back.
func (s *Store) Save() error {
	dir := s.dir
	if dir == "" {
		var err error
		if dir, err = DefaultConfigDir(); err != nil {
			return err
		}
	}

	onDisk, err := LoadFileFrom(dir)
	if err != nil {
		return err
	}

	s.mu.RLock()
	onDisk.Model = s.cfg.Model
	onDisk.ShowLocalModels = s.cfg.ShowLocalModels
	s.mu.RUnlock()

	return SaveTo(dir, onDisk)
}
