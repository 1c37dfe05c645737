// Package embed provides sentence-embedding encoders for semantic scoring
// and similarity computation. The encoder is an optional capability: when no
// provider is configured the factory returns nil and the scorer falls back
// to vocabulary-weighted scoring.
package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/grimoire/internal/model"
)

// Encoder turns a text span into a fixed-length dense vector.
type Encoder interface {
	// Name returns the provider name.
	Name() string

	// Encode embeds a single text span.
	Encode(ctx context.Context, text string) ([]float32, error)

	// Dims returns the embedding dimensionality, or 0 if not yet known.
	Dims() int

	// IsAvailable checks if the provider is properly configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// Config holds embedding provider configuration.
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model is the embedding model name (provider-specific).
	Model string

	// APIKey for hosted providers.
	APIKey string

	// BaseURL for custom endpoints (e.g., a local Ollama server).
	BaseURL string

	// Timeout for a single embedding request, in seconds.
	Timeout int
}

// NewEncoder creates an encoder based on configuration. An empty provider
// returns (nil, nil): embedding disabled, not an error. A misconfigured
// provider is an error and should abort pipeline construction.
func NewEncoder(config Config) (Encoder, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIEncoder(config)

	case "ollama":
		return NewOllamaEncoder(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.EmbeddingConfig to embed.Config.
func ConfigFromModel(cfg model.EmbeddingConfig) Config {
	return Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
	}
}
