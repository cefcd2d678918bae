// Package models holds the closed set of chat models perch can talk to,
// their display metadata, and whether each one is served locally or by a
// cloud provider.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ChatModel identifies a supported LLM backend/version combination.
// The string value is the identifier used in config files and by the
// answer-engine API.
type ChatModel string

const (
	Claude35Sonnet ChatModel = "Claude 3.5 Sonnet"
	GPT4o          ChatModel = "gpt-4o"
	GPT4oMini      ChatModel = "gpt-4o-mini"
	CommandR       ChatModel = "command-r"
	Llama70B       ChatModel = "llama-3-70b"

	// Served by a local Ollama instance
	LocalLlama3   ChatModel = "llama3.1"
	LocalGemma    ChatModel = "gemma"
	LocalMistral  ChatModel = "mistral"
	LocalPhi3_14B ChatModel = "phi3:14b"

	// Resolved at request time from custom_model / CUSTOM_MODEL
	Custom ChatModel = "custom"
)

// DefaultModel is used when nothing is configured and as the selector's
// fallback for models without a descriptor.
const DefaultModel = GPT4oMini

// ErrUnknownModel is returned by Parse for identifiers outside the enum.
var ErrUnknownModel = errors.New("unknown chat model")

// enum lists every ChatModel in declaration order.
var enum = []ChatModel{
	Claude35Sonnet,
	GPT4o,
	GPT4oMini,
	CommandR,
	Llama70B,
	LocalLlama3,
	LocalGemma,
	LocalMistral,
	LocalPhi3_14B,
	Custom,
}

var symbols = map[ChatModel]string{
	Claude35Sonnet: "CLAUDE_3_5_SONNET",
	GPT4o:          "GPT_4O",
	GPT4oMini:      "GPT_4O_MINI",
	CommandR:       "COMMAND_R",
	Llama70B:       "LLAMA_3_70B",
	LocalLlama3:    "LOCAL_LLAMA_3",
	LocalGemma:     "LOCAL_GEMMA",
	LocalMistral:   "LOCAL_MISTRAL",
	LocalPhi3_14B:  "LOCAL_PHI3_14B",
	Custom:         "CUSTOM",
}

// All returns every ChatModel in declaration order.
func All() []ChatModel {
	out := make([]ChatModel, len(enum))
	copy(out, enum)
	return out
}

// Valid reports whether m is a member of the enum.
func (m ChatModel) Valid() bool {
	_, ok := symbols[m]
	return ok
}

func (m ChatModel) String() string {
	return string(m)
}

// Symbol returns the constant-style name of m (e.g. "GPT_4O_MINI"), or ""
// for values outside the enum.
func (m ChatModel) Symbol() string {
	return symbols[m]
}

// Parse resolves s to a ChatModel. Both the identifier ("gpt-4o-mini") and
// the symbol ("GPT_4O_MINI") are accepted, case-insensitively.
func Parse(s string) (ChatModel, error) {
	s = strings.TrimSpace(s)
	for _, m := range enum {
		if strings.EqualFold(s, string(m)) || strings.EqualFold(s, symbols[m]) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
}
