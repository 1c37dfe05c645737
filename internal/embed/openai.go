package embed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
)

// openaiDims maps known embedding models to their output dimensionality.
var openaiDims = map[string]int{
	string(openai.SmallEmbedding3): 1536,
	string(openai.LargeEmbedding3): 3072,
	string(openai.AdaEmbeddingV2):  1536,
}

// OpenAIEncoder implements the Encoder interface against the OpenAI
// embeddings API.
type OpenAIEncoder struct {
	client *openai.Client
	config Config
	model  string
}

// NewOpenAIEncoder creates a new OpenAI encoder.
func NewOpenAIEncoder(config Config) (*OpenAIEncoder, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	embeddingModel := config.Model
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}

	return &OpenAIEncoder{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		model:  embeddingModel,
	}, nil
}

// Name identifies the provider and model. Cache keys include it, so a model
// switch never serves another model's vectors.
func (e *OpenAIEncoder) Name() string {
	return "openai/" + e.model
}

// Dims returns the embedding dimensionality for the configured model.
func (e *OpenAIEncoder) Dims() int {
	return openaiDims[e.model]
}

// IsAvailable checks if the provider is properly configured.
func (e *OpenAIEncoder) IsAvailable(ctx context.Context) bool {
	_, err := e.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Encode embeds a single text span.
func (e *OpenAIEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	timeout := time.Duration(e.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctxWithTimeout, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings API error: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned from OpenAI")
	}

	return resp.Data[0].Embedding, nil
}
