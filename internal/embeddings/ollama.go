package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"

	// DefaultMaxPromptChars is the character budget per embedding request.
	// Longer inputs are truncated before submission, so callers must not
	// assume the full input was embedded.
	DefaultMaxPromptChars = 8192

	ollamaRequestTimeout = 30 * time.Second
)

// OllamaEmbedder generates embeddings via the Ollama embeddings API.
type OllamaEmbedder struct {
	baseURL        string
	model          string
	dimensions     int
	maxPromptChars int
	httpClient     *http.Client
}

// NewOllamaEmbedder creates a new Ollama embedder.
// model is the Ollama model name (e.g. "nomic-embed-text").
// dimensions is the output dimension count for the model.
// baseURL defaults to http://localhost:11434 if empty.
func NewOllamaEmbedder(model string, dimensions int, baseURL string) *OllamaEmbedder {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &OllamaEmbedder{
		baseURL:        baseURL,
		model:          model,
		dimensions:     dimensions,
		maxPromptChars: DefaultMaxPromptChars,
		httpClient:     &http.Client{Timeout: ollamaRequestTimeout},
	}
}

// SetMaxPromptChars overrides the truncation budget. Values <= 0 are ignored.
func (e *OllamaEmbedder) SetMaxPromptChars(n int) {
	if n > 0 {
		e.maxPromptChars = n
	}
}

func (e *OllamaEmbedder) Name() string {
	return "ollama/" + e.model
}

func (e *OllamaEmbedder) Dimensions() int {
	return e.dimensions
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, 0, len(texts))
	for _, text := range texts {
		emb, err := e.embedSingle(ctx, text)
		if err != nil {
			return nil, err
		}
		results = append(results, emb)
	}
	return results, nil
}

func (e *OllamaEmbedder) embedSingle(ctx context.Context, text string) ([]float32, error) {
	if len(text) > e.maxPromptChars {
		text = text[:e.maxPromptChars]
	}

	body, err := json.Marshal(ollamaEmbedRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, newError(e.Name(), fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, newError(e.Name(), fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, newError(e.Name(), fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, newError(e.Name(), fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)))
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, newError(e.Name(), fmt.Errorf("decode response: %w", err))
	}

	if len(result.Embedding) == 0 {
		return nil, newError(e.Name(), fmt.Errorf("empty embedding in response"))
	}
	if len(result.Embedding) != e.dimensions {
		return nil, newError(e.Name(), fmt.Errorf("got %d dimensions, expected %d", len(result.Embedding), e.dimensions))
	}

	return result.Embedding, nil
}
