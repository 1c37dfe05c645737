package model

import "time"

// Config holds all tunable parameters for a detection run. The CLI populates
// it from flags, environment, and the config file; the core packages only
// ever see explicit values.
type Config struct {
	Detection   DetectionConfig   `yaml:"detection"`
	Similarity  SimilarityConfig  `yaml:"similarity"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// DetectionConfig tunes the extraction and scoring stages.
type DetectionConfig struct {
	// MinConfidence is the floor below which scored candidates are discarded.
	// This is the primary recall/precision knob.
	MinConfidence float64 `yaml:"min_confidence"`

	// DefaultEffectType is returned when no effect keyword matches.
	// Historically both "General" and "Close-up" have been used as defaults
	// by different callers, so it stays configurable.
	DefaultEffectType EffectType `yaml:"default_effect_type"`

	// MinSectionLength drops segmented sections shorter than this many
	// characters after trimming.
	MinSectionLength int `yaml:"min_section_length"`

	// DedupeThreshold is the name-token Jaccard similarity above which two
	// candidates are treated as duplicates.
	DedupeThreshold float64 `yaml:"dedupe_threshold"`
}

// SimilarityConfig tunes cross-reference generation.
type SimilarityConfig struct {
	// Threshold is the cosine similarity a pair must strictly exceed for an
	// edge to be emitted.
	Threshold float64 `yaml:"threshold"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider name: "openai", "ollama", or "" (disabled; the scorer then
	// uses the weighted-vocabulary fallback).
	Provider string `yaml:"provider"`

	// Model is the embedding model name (provider-specific).
	Model string `yaml:"model"`

	// APIKey for hosted providers.
	APIKey string `yaml:"-"`

	// BaseURL for custom endpoints (e.g., a local Ollama server).
	BaseURL string `yaml:"base_url"`

	// Timeout for a single embedding request, in seconds.
	Timeout int `yaml:"timeout"`

	// RequestsPerSecond rate-limits calls to the provider. Zero disables
	// throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the rate limiter burst size.
	Burst int `yaml:"burst"`
}

// CacheConfig controls the embedding cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing.
type ConcurrencyConfig struct {
	// Workers is the number of books processed concurrently in batch mode.
	Workers int `yaml:"workers"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			MinConfidence:     0.3,
			DefaultEffectType: EffectGeneral,
			MinSectionLength:  100,
			DedupeThreshold:   0.8,
		},
		Similarity: SimilarityConfig{
			Threshold: 0.7,
		},
		Embedding: EmbeddingConfig{
			Provider:          "",
			Timeout:           30,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}
