package similarity

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/ppiankov/grimoire/internal/model"
)

func trickWithEmbedding(emb []float32) model.Trick {
	return model.Trick{
		ID:        uuid.New(),
		Embedding: emb,
	}
}

func TestEngine_NearIdenticalEmbeddings(t *testing.T) {
	e := NewEngine(0.7)

	tricks := []model.Trick{
		trickWithEmbedding([]float32{1, 0, 0}),
		trickWithEmbedding([]float32{0.95, 0.05, 0}),
	}

	edges, err := e.Compute(tricks)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("Expected exactly 1 edge, got %d", len(edges))
	}
	if edges[0].Score <= 0.7 {
		t.Errorf("Expected score > 0.7, got %f", edges[0].Score)
	}
	if edges[0].RelationshipType != "similar" {
		t.Errorf("Expected relationship_type similar, got %s", edges[0].RelationshipType)
	}
}

func TestEngine_FewerThanTwoTricks(t *testing.T) {
	e := NewEngine(0.7)

	edges, err := e.Compute(nil)
	if err != nil || len(edges) != 0 {
		t.Errorf("Expected empty result for no tricks, got %d edges, err %v", len(edges), err)
	}

	edges, err = e.Compute([]model.Trick{trickWithEmbedding([]float32{1, 0})})
	if err != nil || len(edges) != 0 {
		t.Errorf("Expected empty result for single trick, got %d edges, err %v", len(edges), err)
	}
}

func TestEngine_OrthogonalVectorsBelowThreshold(t *testing.T) {
	e := NewEngine(0.7)

	tricks := []model.Trick{
		trickWithEmbedding([]float32{1, 0, 0}),
		trickWithEmbedding([]float32{0, 1, 0}),
	}

	edges, err := e.Compute(tricks)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("Expected no edges for orthogonal embeddings, got %d", len(edges))
	}
}

func TestEngine_MissingEmbeddingFailsWholeCall(t *testing.T) {
	e := NewEngine(0.7)

	tricks := []model.Trick{
		trickWithEmbedding([]float32{1, 0, 0}),
		trickWithEmbedding(nil),
		trickWithEmbedding([]float32{1, 0, 0}),
	}

	edges, err := e.Compute(tricks)
	if err == nil {
		t.Fatal("Expected error for missing embedding")
	}
	if edges != nil {
		t.Error("Expected no partial results on failure")
	}
}

func TestEngine_DimensionMismatchFailsWholeCall(t *testing.T) {
	e := NewEngine(0.7)

	tricks := []model.Trick{
		trickWithEmbedding([]float32{1, 0, 0}),
		trickWithEmbedding([]float32{1, 0}),
	}

	if _, err := e.Compute(tricks); err == nil {
		t.Fatal("Expected error for inconsistent dimensionality")
	}
}

func TestEngine_NonFiniteValueFailsWholeCall(t *testing.T) {
	e := NewEngine(0.7)

	tricks := []model.Trick{
		trickWithEmbedding([]float32{1, 0, 0}),
		trickWithEmbedding([]float32{float32(math.NaN()), 0, 0}),
	}

	if _, err := e.Compute(tricks); err == nil {
		t.Fatal("Expected error for NaN embedding value")
	}
}

func TestEngine_NoSelfEdges(t *testing.T) {
	e := NewEngine(0.7)

	tricks := []model.Trick{
		trickWithEmbedding([]float32{1, 0}),
		trickWithEmbedding([]float32{1, 0}),
		trickWithEmbedding([]float32{0.99, 0.01}),
	}

	edges, err := e.Compute(tricks)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, edge := range edges {
		if edge.SourceID == edge.TargetID {
			t.Error("Self-edge emitted")
		}
		if edge.Score <= 0.7 {
			t.Errorf("Edge below threshold: %f", edge.Score)
		}
	}
	if len(edges) != 3 {
		t.Errorf("Expected 3 edges for 3 mutually similar tricks, got %d", len(edges))
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine = %f, want %f", got, tt.want)
			}
		})
	}
}
