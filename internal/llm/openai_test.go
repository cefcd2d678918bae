package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type chatRequest struct {
	Model    string `json:"model"`
	Stream   bool   `json:"stream"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func decodeChatRequest(t *testing.T, r *http.Request) chatRequest {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("decode body %s: %v", body, err)
	}
	return req
}

func TestOpenAIProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer proxy-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		req := decodeChatRequest(t, r)
		if req.Model != "azure/gpt-4o" {
			t.Errorf("model = %q, want azure/gpt-4o", req.Model)
		}
		// system + 2 history + question
		if len(req.Messages) != 4 {
			t.Fatalf("got %d messages, want 4", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || req.Messages[3].Content != "What is a LLM?" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1720000000,
			"model": "gpt-4o-2024-05-13",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  A large language model.  "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 42, "completion_tokens": 6, "total_tokens": 48}
		}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(ProviderConfig{Kind: KindOpenAI, APIKey: "proxy-key", Model: "azure/gpt-4o", BaseURL: server.URL})
	got, err := p.Complete(context.Background(), Request{
		Query: "What is a LLM?",
		History: []ConversationMessage{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "A large language model." {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Model != "gpt-4o-2024-05-13" {
		t.Errorf("Model = %q", got.Model)
	}
	if got.InputTokens != 42 || got.OutputTokens != 6 {
		t.Errorf("tokens = %d/%d, want 42/6", got.InputTokens, got.OutputTokens)
	}
	if got.RequestID == "" {
		t.Error("RequestID should be set")
	}
}

func TestOpenAIProvider_CompleteEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": [], "usage": {}}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(ProviderConfig{Model: "llama3.1", BaseURL: server.URL})
	_, err := p.Complete(context.Background(), Request{Query: "q"})
	if err != ErrEmptyResponse {
		t.Errorf("error = %v, want ErrEmptyResponse", err)
	}
}

func TestOpenAIProvider_Stream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeChatRequest(t, r)
		if !req.Stream {
			t.Error("expected stream=true")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, piece := range []string{"Chandrayaan-3 ", "landed ", "in 2023."} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"llama3.1\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q},\"finish_reason\":null}]}\n\n", piece)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	p := NewOpenAIProvider(ProviderConfig{Model: "llama3.1", BaseURL: server.URL})

	var chunks []string
	got, err := p.Stream(context.Background(), Request{Query: "Chandrayaan-3 landing?"}, func(s string) {
		chunks = append(chunks, s)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Errorf("got %d chunks, want 3", len(chunks))
	}
	if got.Text != "Chandrayaan-3 landed in 2023." {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Model != "llama3.1" {
		t.Errorf("Model = %q", got.Model)
	}
}

func TestOpenAIProvider_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "model not found", "type": "invalid_request_error"}}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(ProviderConfig{Model: "nope", BaseURL: server.URL})
	_, err := p.Complete(context.Background(), Request{Query: "q"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenAIProvider_SetModel(t *testing.T) {
	p := NewOpenAIProvider(ProviderConfig{Model: "gpt-4o-mini"})
	p.SetModel("gpt-4o")
	if p.Model() != "gpt-4o" {
		t.Errorf("Model() = %q, want gpt-4o", p.Model())
	}
}
