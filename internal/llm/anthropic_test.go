package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnthropicProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "sk-ant-test" {
			t.Errorf("unexpected api key header: %s", r.Header.Get("X-Api-Key"))
		}

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
			System []struct {
				Text string `json:"text"`
			} `json:"system"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Model != "claude-3-5-sonnet-20240620" {
			t.Errorf("model = %q", body.Model)
		}
		if len(body.Messages) != 1 || body.Messages[0].Role != "user" {
			t.Errorf("unexpected messages: %+v", body.Messages)
		}
		if len(body.System) != 1 || !strings.Contains(body.System[0].Text, "answer engine") {
			t.Errorf("unexpected system prompt: %+v", body.System)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-sonnet-20240620",
			"content": [{"type": "text", "text": "A large language model.\n"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 30, "output_tokens": 7}
		}`)
	}))
	defer server.Close()

	p := NewAnthropicProvider(ProviderConfig{Kind: KindAnthropic, APIKey: "sk-ant-test", Model: "claude-3-5-sonnet-20240620", BaseURL: server.URL})
	got, err := p.Complete(context.Background(), Request{Query: "What is a LLM?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "A large language model." {
		t.Errorf("Text = %q", got.Text)
	}
	if got.InputTokens != 30 || got.OutputTokens != 7 {
		t.Errorf("tokens = %d/%d, want 30/7", got.InputTokens, got.OutputTokens)
	}
}

func TestAnthropicProvider_Stream(t *testing.T) {
	events := []struct{ name, data string }{
		{"message_start", `{"type":"message_start","message":{"id":"msg_01","type":"message","role":"assistant","model":"claude-3-5-sonnet-20240620","content":[],"stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":12,"output_tokens":1}}}`},
		{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" there"}}`},
		{"content_block_stop", `{"type":"content_block_stop","index":0}`},
		{"message_delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn","stop_sequence":null},"usage":{"output_tokens":3}}`},
		{"message_stop", `{"type":"message_stop"}`},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, ev := range events {
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}))
	defer server.Close()

	p := NewAnthropicProvider(ProviderConfig{APIKey: "k", Model: "claude-3-5-sonnet-20240620", BaseURL: server.URL})

	var chunks []string
	got, err := p.Stream(context.Background(), Request{Query: "hi"}, func(s string) {
		chunks = append(chunks, s)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(chunks, "") != "Hello there" {
		t.Errorf("chunks = %q", chunks)
	}
	if got.Text != "Hello there" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Model != "claude-3-5-sonnet-20240620" {
		t.Errorf("Model = %q", got.Model)
	}
	if got.InputTokens != 12 {
		t.Errorf("InputTokens = %d, want 12", got.InputTokens)
	}
}

func TestAnthropicProvider_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"msg_02","type":"message","role":"assistant","model":"m","content":[],"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":0}}`)
	}))
	defer server.Close()

	p := NewAnthropicProvider(ProviderConfig{APIKey: "k", Model: "m", BaseURL: server.URL})
	if _, err := p.Complete(context.Background(), Request{Query: "q"}); err != ErrEmptyResponse {
		t.Errorf("error = %v, want ErrEmptyResponse", err)
	}
}
