package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaComplete(t *testing.T) {
	var gotReq ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message:         ollamaMessage{Role: "assistant", Content: "the login handler lives in auth/login.py"},
			Model:           "llama3.2",
			PromptEvalCount: 42,
			EvalCount:       12,
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3.2")
	resp, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "answer from the provided code"},
			{Role: RoleUser, Content: "where is login handled?"},
		},
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if gotReq.Model != "llama3.2" {
		t.Errorf("model = %q, want default llama3.2", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("streaming must be disabled")
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages not forwarded: %+v", gotReq.Messages)
	}
	if resp.Content == "" || resp.InputTokens != 42 || resp.OutputTokens != 12 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestOllamaCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3.2")
	if _, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}); err == nil {
		t.Fatal("expected error on server failure")
	}
}
