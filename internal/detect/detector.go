// Package detect wires segmentation, extraction, scoring, deduplication, and
// similarity into the full book-to-tricks pipeline.
package detect

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/grimoire/internal/cache"
	"github.com/ppiankov/grimoire/internal/dedupe"
	"github.com/ppiankov/grimoire/internal/embed"
	"github.com/ppiankov/grimoire/internal/extract"
	"github.com/ppiankov/grimoire/internal/model"
	"github.com/ppiankov/grimoire/internal/score"
	"github.com/ppiankov/grimoire/internal/segment"
	"github.com/ppiankov/grimoire/internal/similarity"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// Detector runs the full detection pipeline over book text.
type Detector struct {
	cfg       *model.Config
	segmenter *segment.Segmenter
	extractor *extract.Extractor
	scorer    *score.Scorer
	encoder   embed.Encoder
	engine    *similarity.Engine
	logger    *zap.Logger
}

// New creates a detector from configuration. A misconfigured embedding
// provider is an error; an absent one is not, the detector then scores with
// the vocabulary fallback and skips embedding attachment.
func New(cfg *model.Config, logger *zap.Logger) (*Detector, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	encoder, err := embed.NewEncoder(embed.ConfigFromModel(cfg.Embedding))
	if err != nil {
		return nil, fmt.Errorf("configure embedding provider: %w", err)
	}

	if encoder != nil {
		if cfg.Embedding.RequestsPerSecond > 0 {
			encoder = embed.NewThrottled(encoder, cfg.Embedding.RequestsPerSecond, cfg.Embedding.Burst)
		}
		if cfg.Cache.Enabled {
			store := buildStore(cfg.Cache)
			encoder = embed.NewCachedEncoder(encoder, store, cfg.Cache.MemoryTTL)
		}
	}

	return NewWithEncoder(cfg, logger, encoder), nil
}

// NewWithEncoder creates a detector around an existing encoder. Used by New
// and by tests that inject a fake.
func NewWithEncoder(cfg *model.Config, logger *zap.Logger, encoder embed.Encoder) *Detector {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var semantic score.SemanticScorer
	if encoder != nil {
		semantic = score.NewEmbeddingScorer(encoder)
	}

	return &Detector{
		cfg:       cfg,
		segmenter: segment.NewSegmenter(cfg.Detection.MinSectionLength),
		extractor: extract.NewExtractor(),
		scorer:    score.NewScorer(semantic, cfg.Detection.DefaultEffectType),
		encoder:   encoder,
		engine:    similarity.NewEngine(cfg.Similarity.Threshold),
		logger:    logger,
	}
}

// DetectTricks extracts structured trick records from raw book text. The
// result is deterministic for a fixed input and configuration, apart from
// generated IDs and timestamps.
func (d *Detector) DetectTricks(ctx context.Context, text string, bookID uuid.UUID) ([]model.Trick, error) {
	sections := d.segmenter.Segment(text)
	d.logger.Debug("segmented book text",
		zap.String("book_id", bookID.String()),
		zap.Int("sections", len(sections)))

	var accepted []model.ScoredCandidate
	for i, section := range sections {
		for _, cand := range d.extractor.Extract(section) {
			cand.SectionIndex = i

			scored, err := d.scorer.Score(ctx, cand)
			if err != nil {
				return nil, fmt.Errorf("score candidate %q: %w", cand.Name, err)
			}

			if scored.Confidence > d.cfg.Detection.MinConfidence {
				accepted = append(accepted, scored)
			}
		}
	}

	unique := dedupe.Dedupe(accepted, d.cfg.Detection.DedupeThreshold)

	tricks := make([]model.Trick, 0, len(unique))
	for _, cand := range unique {
		tricks = append(tricks, d.buildTrick(ctx, cand, bookID))
	}

	d.logger.Info("detection finished",
		zap.String("book_id", bookID.String()),
		zap.Int("sections", len(sections)),
		zap.Int("candidates", len(accepted)),
		zap.Int("tricks", len(tricks)))

	return tricks, nil
}

// CalculateSimilarities computes cross-reference edges between detected
// tricks. A failed computation yields no edges rather than a partial graph.
// With embeddings disabled there is nothing to compare and the result is
// empty without being an error.
func (d *Detector) CalculateSimilarities(tricks []model.Trick) []model.SimilarityEdge {
	if d.encoder == nil {
		return nil
	}

	edges, err := d.engine.Compute(tricks)
	if err != nil {
		d.logger.Error("similarity computation failed", zap.Error(err))
		return nil
	}
	return edges
}

func (d *Detector) buildTrick(ctx context.Context, cand model.ScoredCandidate, bookID uuid.UUID) model.Trick {
	// Limits count runes, not bytes: OCR text carries accented characters
	// and byte slicing could split one mid-sequence.
	name := cand.Name
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength]) + "..."
	}

	description := cand.Description
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		description = string([]rune(description)[:maxDescriptionLength])
	}

	trick := model.Trick{
		ID:          uuid.New(),
		BookID:      bookID,
		Name:        name,
		Description: description,
		Method:      cand.Method,
		EffectType:  cand.EffectType,
		Difficulty:  cand.Difficulty,
		Props:       cand.Props,
		Confidence:  cand.Confidence,
		Pages: &model.PageRange{
			Start: cand.SectionIndex + 1,
			End:   cand.SectionIndex + 1,
		},
		CreatedAt: time.Now().UTC(),
	}

	if d.encoder != nil {
		vec, err := d.encoder.Encode(ctx, description)
		if err != nil {
			d.logger.Warn("embedding failed, trick kept without vector",
				zap.String("name", name),
				zap.Error(err))
		} else {
			trick.Embedding = vec
		}
	}

	return trick
}

func buildStore(cfg model.CacheConfig) cache.Store {
	if cfg.Dir == "" {
		return cache.NewMemory(cfg.MemoryTTL)
	}
	return cache.NewLayered(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
