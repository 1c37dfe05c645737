package score

import (
	"context"
	"fmt"
	"sync"

	"github.com/ppiankov/grimoire/internal/embed"
	"github.com/ppiankov/grimoire/internal/similarity"
)

// SemanticScorer estimates how strongly a description reads like a magic
// trick, on a 0-1 scale.
type SemanticScorer interface {
	Name() string
	ScoreSemantic(ctx context.Context, text string) (float64, error)
}

// referenceDescriptions anchor the semantic comparison. A candidate scores
// by its closest match among these.
var referenceDescriptions = []string{
	"A card trick where the spectator's chosen card appears at the top of the deck",
	"A coin vanishes from the magician's hand and reappears behind the spectator's ear",
	"The magician predicts which card the spectator will choose",
	"A rope is cut into pieces and then magically restored to one piece",
	"The magician reads the spectator's mind and reveals their thought",
}

// EmbeddingScorer compares candidate descriptions against reference trick
// descriptions in embedding space.
type EmbeddingScorer struct {
	encoder embed.Encoder

	mu         sync.Mutex
	references [][]float32
}

// NewEmbeddingScorer creates a semantic scorer backed by an encoder.
func NewEmbeddingScorer(encoder embed.Encoder) *EmbeddingScorer {
	return &EmbeddingScorer{encoder: encoder}
}

// Name returns the strategy name.
func (e *EmbeddingScorer) Name() string {
	return "embedding/" + e.encoder.Name()
}

// ScoreSemantic returns the highest cosine similarity between the text and
// the reference descriptions.
func (e *EmbeddingScorer) ScoreSemantic(ctx context.Context, text string) (float64, error) {
	references, err := e.loadReferences(ctx)
	if err != nil {
		return 0, err
	}

	vec, err := e.encoder.Encode(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("encode candidate text: %w", err)
	}

	best := 0.0
	for _, ref := range references {
		if sim := similarity.Cosine(vec, ref); sim > best {
			best = sim
		}
	}
	return best, nil
}

// loadReferences encodes the reference descriptions on first use and keeps
// them for the life of the scorer. A failed attempt stores nothing, so the
// next call retries instead of pinning a transient provider outage. The
// encoder's own cache makes repeats across processes cheap too.
func (e *EmbeddingScorer) loadReferences(ctx context.Context) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.references != nil {
		return e.references, nil
	}

	refs := make([][]float32, 0, len(referenceDescriptions))
	for _, text := range referenceDescriptions {
		vec, err := e.encoder.Encode(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("encode reference text: %w", err)
		}
		refs = append(refs, vec)
	}
	e.references = refs
	return refs, nil
}
