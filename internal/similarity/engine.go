package similarity

import (
	"fmt"
	"math"

	"github.com/ppiankov/grimoire/internal/model"
)

// Engine computes pairwise similarity edges over a finalized trick set.
type Engine struct {
	threshold float64
}

// NewEngine creates a similarity engine. Edges are emitted only when the
// cosine similarity strictly exceeds threshold.
func NewEngine(threshold float64) *Engine {
	if threshold <= 0 {
		threshold = 0.7
	}
	return &Engine{threshold: threshold}
}

// Compute builds the full pairwise cosine-similarity matrix over the trick
// embeddings and returns one edge per unordered pair above the threshold.
// Fewer than two tricks yields an empty result with no error. Malformed
// embeddings (missing, inconsistent dimensionality, non-finite values) fail
// the whole call: the caller decides whether that failure is alarming, and
// must not read an empty result as "no similar tricks exist".
func (e *Engine) Compute(tricks []model.Trick) ([]model.SimilarityEdge, error) {
	if len(tricks) < 2 {
		return nil, nil
	}

	dims := 0
	for i, trick := range tricks {
		emb := trick.Embedding
		if len(emb) == 0 {
			return nil, fmt.Errorf("trick %s has no embedding", trick.ID)
		}
		if i == 0 {
			dims = len(emb)
		} else if len(emb) != dims {
			return nil, fmt.Errorf("trick %s embedding has %d dimensions, expected %d", trick.ID, len(emb), dims)
		}
		for _, v := range emb {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return nil, fmt.Errorf("trick %s embedding contains non-finite value", trick.ID)
			}
		}
	}

	// Full matrix up front: norms are computed once per trick instead of
	// once per pair.
	n := len(tricks)
	norms := make([]float64, n)
	for i, trick := range tricks {
		norms[i] = norm(trick.Embedding)
	}

	var edges []model.SimilarityEdge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			score := cosineWithNorms(tricks[i].Embedding, tricks[j].Embedding, norms[i], norms[j])
			if score > e.threshold {
				edges = append(edges, model.SimilarityEdge{
					SourceID:         tricks[i].ID,
					TargetID:         tricks[j].ID,
					Score:            score,
					RelationshipType: "similar",
				})
			}
		}
	}

	return edges, nil
}

// Cosine returns the cosine similarity of two vectors, or 0 when either has
// zero magnitude.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return cosineWithNorms(a, b, norm(a), norm(b))
}

func cosineWithNorms(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
