package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AnthropicProvider implements the Provider interface using Anthropic's Claude API
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(cfg ProviderConfig) *AnthropicProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	// Log raw HTTP responses to diagnose SDK unmarshaling issues
	if os.Getenv("PERCH_DEBUG_HTTP") == "1" {
		opts = append(opts, option.WithMiddleware(func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
			resp, err := next(req)
			if err != nil {
				return resp, err
			}
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				log.Debug().Err(readErr).Msg("failed to read response body")
				return resp, err
			}
			log.Debug().Str("url", req.URL.String()).Int("status", resp.StatusCode).Str("body", string(body)).Msg("raw http response")
			// Restore body for SDK
			resp.Body = io.NopCloser(bytes.NewReader(body))
			return resp, err
		}))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(cfg.Model),
	}
}

// SetModel updates the model used for API calls
func (p *AnthropicProvider) SetModel(model string) {
	p.model = anthropic.Model(model)
}

// Model returns the model used for API calls
func (p *AnthropicProvider) Model() string {
	return string(p.model)
}

func (p *AnthropicProvider) params(req Request) anthropic.MessageNewParams {
	// Build message array from conversation history + current query
	var messages []anthropic.MessageParam
	for _, msg := range req.History {
		if msg.Role == "user" {
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		} else {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt(req))))

	return anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: int64(DefaultMaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: messages,
	}
}

func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultAPITimeout)
	defer cancel()

	requestID := uuid.New().String()
	logger := log.With().Str("request_id", requestID).Str("provider", string(KindAnthropic)).Str("model", string(p.model)).Logger()
	logger.Debug().Int("history", len(req.History)).Msg("sending completion request")

	message, err := p.client.Messages.New(ctx, p.params(req))
	if err != nil {
		logger.Error().Err(err).Msg("completion request failed")
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text = strings.TrimSpace(block.Text)
			break
		}
	}
	if text == "" {
		return nil, ErrEmptyResponse
	}

	logger.Info().Int64("input_tokens", message.Usage.InputTokens).Int64("output_tokens", message.Usage.OutputTokens).Msg("completion received")

	return &Completion{
		Text:         text,
		Model:        string(message.Model),
		RequestID:    requestID,
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}, nil
}

func (p *AnthropicProvider) Stream(ctx context.Context, req Request, onChunk func(string)) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultAPITimeout)
	defer cancel()

	requestID := uuid.New().String()
	logger := log.With().Str("request_id", requestID).Str("provider", string(KindAnthropic)).Str("model", string(p.model)).Logger()
	logger.Debug().Int("history", len(req.History)).Msg("sending streaming request")

	stream := p.client.Messages.NewStreaming(ctx, p.params(req))
	defer stream.Close()

	message := anthropic.Message{}
	var sb strings.Builder
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			return nil, fmt.Errorf("failed to accumulate stream: %w", err)
		}

		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
				sb.WriteString(delta.Text)
				if onChunk != nil {
					onChunk(delta.Text)
				}
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

	logger.Info().Int64("input_tokens", message.Usage.InputTokens).Int64("output_tokens", message.Usage.OutputTokens).Msg("stream finished")

	return &Completion{
		Text:         text,
		Model:        string(message.Model),
		RequestID:    requestID,
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}, nil
}
