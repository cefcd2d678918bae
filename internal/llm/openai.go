package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog/log"
)

// OpenAIProvider implements the Provider interface over the Chat Completions
// API. It serves OpenAI itself and any compatible endpoint (LiteLLM, Ollama).
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI-compatible provider
func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithMaxRetries(2),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// SetModel updates the model used for API calls
func (p *OpenAIProvider) SetModel(model string) {
	p.model = model
}

// Model returns the model used for API calls
func (p *OpenAIProvider) Model() string {
	return p.model
}

func (p *OpenAIProvider) params(req Request) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, msg := range req.History {
		if msg.Role == "user" {
			messages = append(messages, openai.UserMessage(msg.Content))
		} else {
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userPrompt(req)))

	return openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: messages,
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultAPITimeout)
	defer cancel()

	requestID := uuid.New().String()
	logger := log.With().Str("request_id", requestID).Str("provider", string(KindOpenAI)).Str("model", p.model).Logger()
	logger.Debug().Int("history", len(req.History)).Msg("sending completion request")

	resp, err := p.client.Chat.Completions.New(ctx, p.params(req))
	if err != nil {
		logger.Error().Err(err).Msg("completion request failed")
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choice := resp.Choices[0]
	text := choice.Message.Content
	if text == "" {
		text = choice.Message.Refusal
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	logger.Info().Int64("input_tokens", resp.Usage.PromptTokens).Int64("output_tokens", resp.Usage.CompletionTokens).Msg("completion received")

	return &Completion{
		Text:         text,
		Model:        resp.Model,
		RequestID:    requestID,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (p *OpenAIProvider) Stream(ctx context.Context, req Request, onChunk func(string)) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultAPITimeout)
	defer cancel()

	requestID := uuid.New().String()
	logger := log.With().Str("request_id", requestID).Str("provider", string(KindOpenAI)).Str("model", p.model).Logger()
	logger.Debug().Int("history", len(req.History)).Msg("sending streaming request")

	stream := p.client.Chat.Completions.NewStreaming(ctx, p.params(req))
	defer stream.Close()

	var (
		sb    strings.Builder
		model string
		usage openai.CompletionUsage
	)
	for stream.Next() {
		chunk := stream.Current()
		if chunk.Model != "" {
			model = chunk.Model
		}
		if chunk.Usage.TotalTokens > 0 {
			usage = chunk.Usage
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			sb.WriteString(delta)
			if onChunk != nil {
				onChunk(delta)
			}
		}
	}
	if err := stream.Err(); err != nil {
		logger.Error().Err(err).Msg("streaming request failed")
		return nil, fmt.Errorf("failed to stream answer: %w", err)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, ErrEmptyResponse
	}

	logger.Info().Int64("input_tokens", usage.PromptTokens).Int64("output_tokens", usage.CompletionTokens).Msg("stream finished")

	return &Completion{
		Text:         text,
		Model:        model,
		RequestID:    requestID,
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
	}, nil
}
