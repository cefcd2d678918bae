package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"

	"github.com/perch-ai/perch/internal/config"
)

const (
	// CredentialsFileName is the name of the credentials file
	CredentialsFileName = "credentials.yaml"

	// CredentialsFileMode is the file permission for the credentials file (owner read/write only)
	CredentialsFileMode = 0600
)

// Key slots in credentials.yaml
const (
	SlotOpenAI    = "openai"
	SlotAnthropic = "anthropic"
	SlotCohere    = "cohere"
	SlotProxy     = "proxy" // key for the api_base proxy (LiteLLM)
)

// Slots lists every key slot, in display order
var Slots = []string{SlotOpenAI, SlotAnthropic, SlotCohere, SlotProxy}

// envVars maps each slot to the environment variable that overrides it
var envVars = map[string]string{
	SlotOpenAI:    "OPENAI_API_KEY",
	SlotAnthropic: "ANTHROPIC_API_KEY",
	SlotCohere:    "COHERE_API_KEY",
	SlotProxy:     "LITELLM_API_KEY",
}

// EnvVar returns the environment variable consulted for slot
func EnvVar(slot string) string {
	return envVars[slot]
}

// ValidSlot reports whether slot names a known key slot
func ValidSlot(slot string) bool {
	_, ok := envVars[slot]
	return ok
}

// Credentials holds provider API keys keyed by slot
type Credentials struct {
	Keys map[string]string `mapstructure:"keys"`
}

// Get returns the stored key for slot, or ""
func (c *Credentials) Get(slot string) string {
	if c == nil || c.Keys == nil {
		return ""
	}
	return c.Keys[slot]
}

// Set stores key under slot; an empty key removes the slot
func (c *Credentials) Set(slot, key string) {
	if c.Keys == nil {
		c.Keys = make(map[string]string)
	}
	if key == "" {
		delete(c.Keys, slot)
		return
	}
	c.Keys[slot] = key
}

// StoredSlots returns the slots that hold a key, sorted
func (c *Credentials) StoredSlots() []string {
	if c == nil {
		return nil
	}
	var slots []string
	for slot, key := range c.Keys {
		if key != "" {
			slots = append(slots, slot)
		}
	}
	sort.Strings(slots)
	return slots
}

// CredentialsPath returns the path to the credentials file
func CredentialsPath() (string, error) {
	configDir, err := config.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, CredentialsFileName), nil
}

// LoadCredentials loads the stored credentials from disk.
// A missing file yields empty credentials.
func LoadCredentials() (*Credentials, error) {
	credPath, err := CredentialsPath()
	if err != nil {
		return nil, err
	}
	return LoadCredentialsFrom(credPath)
}

// LoadCredentialsFrom loads credentials from credPath
func LoadCredentialsFrom(credPath string) (*Credentials, error) {
	// Check if file exists
	if _, err := os.Stat(credPath); os.IsNotExist(err) {
		return &Credentials{Keys: map[string]string{}}, nil
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(credPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := v.Unmarshal(&creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	if creds.Keys == nil {
		creds.Keys = map[string]string{}
	}

	return &creds, nil
}

// SaveCredentials saves the credentials to disk with secure permissions
func SaveCredentials(creds *Credentials) error {
	credPath, err := CredentialsPath()
	if err != nil {
		return err
	}
	return SaveCredentialsTo(credPath, creds)
}

// SaveCredentialsTo saves the credentials to credPath with secure permissions
func SaveCredentialsTo(credPath string, creds *Credentials) error {
	// Ensure the config directory exists
	configDir := filepath.Dir(credPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(credPath)

	for _, slot := range creds.StoredSlots() {
		v.Set("keys."+slot, creds.Keys[slot])
	}

	// Write the config file
	if err := v.WriteConfigAs(credPath); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	// Set secure permissions (owner read/write only)
	if err := os.Chmod(credPath, CredentialsFileMode); err != nil {
		return fmt.Errorf("failed to set credentials file permissions: %w", err)
	}

	return nil
}

// DeleteCredentials removes the credentials file
func DeleteCredentials() error {
	credPath, err := CredentialsPath()
	if err != nil {
		return err
	}

	if err := os.Remove(credPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}

	return nil
}

// CredentialsExist checks if credentials file exists
func CredentialsExist() bool {
	credPath, err := CredentialsPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(credPath)
	return err == nil
}
