package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultOllamaURL = "http://localhost:11434"

// ollamaDims maps known embedding models to their output dimensionality.
var ollamaDims = map[string]int{
	"all-minilm":        384,
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
}

// OllamaEncoder implements the Encoder interface against a local Ollama
// server's embeddings endpoint. It holds no mutable state, so one instance
// is safe for concurrent use across batch workers.
type OllamaEncoder struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaEncoder creates a new Ollama encoder.
func NewOllamaEncoder(config Config) (*OllamaEncoder, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	embeddingModel := config.Model
	if embeddingModel == "" {
		embeddingModel = "all-minilm"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OllamaEncoder{
		baseURL: baseURL,
		model:   embeddingModel,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Name identifies the provider and model. Cache keys include it, so a model
// switch never serves another model's vectors.
func (e *OllamaEncoder) Name() string {
	return "ollama/" + e.model
}

// Dims returns the embedding dimensionality for the configured model, or 0
// for models not in the known-model table.
func (e *OllamaEncoder) Dims() int {
	return ollamaDims[e.model]
}

// IsAvailable checks if the Ollama server is reachable.
func (e *OllamaEncoder) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Encode embeds a single text span.
func (e *OllamaEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned from ollama")
	}

	vec := make([]float32, len(parsed.Embedding))
	for i, v := range parsed.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
