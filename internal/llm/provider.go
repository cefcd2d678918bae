package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultAPITimeout is the default timeout for API calls
const DefaultAPITimeout = 60 * time.Second

// DefaultMaxTokens caps the length of an answer
const DefaultMaxTokens = 2048

// ErrEmptyResponse is returned when the API answered with no text
var ErrEmptyResponse = errors.New("model returned an empty response")

// ConversationMessage represents a single message in a conversation
type ConversationMessage struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request is a question plus whatever the model should see alongside it
type Request struct {
	Query   string
	Context string                // Piped input or other reference text (optional)
	History []ConversationMessage // Earlier turns, oldest first
}

// Completion is the answer to a Request
type Completion struct {
	Text         string
	Model        string // Model name reported by the API
	RequestID    string // Local ID used to correlate log lines
	InputTokens  int64
	OutputTokens int64
}

// Provider defines the interface for LLM backends
type Provider interface {
	// Complete answers the request in one round-trip
	Complete(ctx context.Context, req Request) (*Completion, error)

	// Stream answers the request, calling onChunk for each text delta as it
	// arrives. The returned Completion holds the full text.
	Stream(ctx context.Context, req Request, onChunk func(string)) (*Completion, error)

	// SetModel updates the upstream model used for API calls
	SetModel(model string)

	// Model returns the upstream model used for API calls
	Model() string
}

// Kind selects the wire API a Provider speaks
type Kind string

const (
	KindAnthropic Kind = "anthropic"
	KindOpenAI    Kind = "openai" // OpenAI and any OpenAI-compatible endpoint (LiteLLM, Ollama)
)

// ProviderConfig holds configuration for creating a provider
type ProviderConfig struct {
	Kind    Kind
	APIKey  string // May be empty for endpoints that need no key (Ollama)
	Model   string // Upstream model name
	BaseURL string // Optional custom base URL
}

// NewProvider creates the provider for cfg.Kind
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Kind {
	case KindAnthropic:
		return NewAnthropicProvider(cfg), nil
	case KindOpenAI:
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider kind %q", cfg.Kind)
	}
}

const systemPrompt = `You are perch, an answer engine running in a terminal.
Answer the user's question accurately and concisely.

Guidelines:
- Lead with the direct answer, then supporting detail.
- Use Markdown: short paragraphs, bullet lists, and fenced code blocks where useful.
- If reference material is provided, ground the answer in it and say when it does not cover the question.
- If you are unsure, say so rather than guessing.`

// userPrompt folds any reference material into the question
func userPrompt(req Request) string {
	if strings.TrimSpace(req.Context) == "" {
		return req.Query
	}
	query := req.Query
	if strings.TrimSpace(query) == "" {
		query = "Summarize and explain the reference material above."
	}
	return fmt.Sprintf("Reference material:\n```\n%s\n```\n\n%s", req.Context, query)
}
