package detect

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ppiankov/grimoire/internal/model"
)

const structuredBook = "Effect: A card vanishes completely. The spectator examines the deck.\n\nMethod: Use a duplicate card and a secret pocket."

type fixedEncoder struct {
	vec []float32
	err error
}

func (f *fixedEncoder) Name() string { return "fixed" }
func (f *fixedEncoder) Dims() int    { return len(f.vec) }

func (f *fixedEncoder) IsAvailable(_ context.Context) bool { return true }
func (f *fixedEncoder) Encode(_ context.Context, _ string) ([]float32, error) {
	return f.vec, f.err
}

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	return NewWithEncoder(model.DefaultConfig(), nil, nil)
}

func TestDetectTricksStructuredBlock(t *testing.T) {
	detector := newTestDetector(t)
	bookID := uuid.New()

	tricks, err := detector.DetectTricks(context.Background(), structuredBook, bookID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tricks) != 1 {
		t.Fatalf("expected 1 trick, got %d", len(tricks))
	}

	trick := tricks[0]
	if trick.Name != "A card vanishes completely" {
		t.Errorf("name = %q", trick.Name)
	}
	if trick.Method != "Use a duplicate card and a secret pocket." {
		t.Errorf("method = %q", trick.Method)
	}
	if trick.BookID != bookID {
		t.Errorf("book id = %s, want %s", trick.BookID, bookID)
	}
	if trick.Confidence <= 0.3 || trick.Confidence > 1.0 {
		t.Errorf("confidence = %f, want within (0.3, 1.0]", trick.Confidence)
	}
	if trick.EffectType != model.EffectCard {
		t.Errorf("effect type = %s, want %s", trick.EffectType, model.EffectCard)
	}
	if trick.Pages == nil || trick.Pages.Start != 1 {
		t.Errorf("pages = %+v, want start at 1", trick.Pages)
	}
	if trick.ID == uuid.Nil {
		t.Error("trick id not assigned")
	}
}

func TestDetectTricksDeterministic(t *testing.T) {
	detector := newTestDetector(t)
	bookID := uuid.New()

	first, err := detector.DetectTricks(context.Background(), structuredBook, bookID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := detector.DetectTricks(context.Background(), structuredBook, bookID)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("run sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("name mismatch at %d: %q vs %q", i, first[i].Name, second[i].Name)
		}
		if first[i].Confidence != second[i].Confidence {
			t.Errorf("confidence mismatch at %d: %f vs %f", i, first[i].Confidence, second[i].Confidence)
		}
	}
}

func TestDetectTricksEmptyText(t *testing.T) {
	detector := newTestDetector(t)

	tricks, err := detector.DetectTricks(context.Background(), "", uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tricks) != 0 {
		t.Errorf("expected no tricks from empty text, got %d", len(tricks))
	}
}

func TestDetectTricksLongNameTruncated(t *testing.T) {
	detector := newTestDetector(t)

	// A single long line: the paragraph strategy uses it verbatim as the name.
	text := "The magician lets a spectator shuffle the deck and pick a card, then the chosen card seems to vanish from the pack and appears inside the magician's coat pocket"
	if len(text) <= 100 {
		t.Fatal("test input must exceed the name limit")
	}

	tricks, err := detector.DetectTricks(context.Background(), text, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(tricks) != 1 {
		t.Fatalf("expected 1 trick, got %d", len(tricks))
	}

	name := tricks[0].Name
	if len(name) != 103 {
		t.Errorf("name length = %d, want 103", len(name))
	}
	if !strings.HasSuffix(name, "...") {
		t.Errorf("name %q should end with ellipsis marker", name)
	}
}

func TestDetectTricksMultibyteNameTruncated(t *testing.T) {
	detector := newTestDetector(t)

	// Accented OCR text long enough to trigger name truncation: the result
	// must stay valid UTF-8 with the limit counted in runes.
	text := "The magician's café séance: the spectator shuffles the deck, picks a card, and watches the chosen card vanish from the pack as étrange coins appear in the performer's hand"
	if utf8.RuneCountInString(text) <= 100 {
		t.Fatal("test input must exceed the name limit")
	}

	tricks, err := detector.DetectTricks(context.Background(), text, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(tricks) != 1 {
		t.Fatalf("expected 1 trick, got %d", len(tricks))
	}

	name := tricks[0].Name
	if !utf8.ValidString(name) {
		t.Errorf("name is not valid UTF-8: %q", name)
	}
	if got := utf8.RuneCountInString(name); got != 103 {
		t.Errorf("name rune count = %d, want 103", got)
	}
	if !strings.HasSuffix(name, "...") {
		t.Errorf("name %q should end with ellipsis marker", name)
	}
}

func TestDetectTricksLowConfidenceFiltered(t *testing.T) {
	detector := newTestDetector(t)

	text := "This paragraph mentions the trick only once and otherwise talks about gardening and weather patterns."

	tricks, err := detector.DetectTricks(context.Background(), text, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(tricks) != 0 {
		t.Errorf("expected low-confidence candidate to be dropped, got %d tricks", len(tricks))
	}
}

func TestDetectTricksAttachesEmbeddings(t *testing.T) {
	encoder := &fixedEncoder{vec: []float32{1, 0, 0}}
	detector := NewWithEncoder(model.DefaultConfig(), nil, encoder)

	tricks, err := detector.DetectTricks(context.Background(), structuredBook, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(tricks) != 1 {
		t.Fatalf("expected 1 trick, got %d", len(tricks))
	}
	if len(tricks[0].Embedding) != 3 {
		t.Errorf("embedding length = %d, want 3", len(tricks[0].Embedding))
	}
}

func TestDetectTricksEmbeddingFailureKeepsTrick(t *testing.T) {
	// References fail to encode, so the scorer errors and falls back to the
	// vocabulary factor; the trick survives without a vector.
	encoder := &fixedEncoder{err: errors.New("provider down")}
	detector := NewWithEncoder(model.DefaultConfig(), nil, encoder)

	tricks, err := detector.DetectTricks(context.Background(), structuredBook, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(tricks) != 1 {
		t.Fatalf("expected 1 trick, got %d", len(tricks))
	}
	if tricks[0].Embedding != nil {
		t.Error("expected no embedding after encoder failure")
	}
}

func TestCalculateSimilaritiesInvalidInput(t *testing.T) {
	detector := NewWithEncoder(model.DefaultConfig(), nil, &fixedEncoder{vec: []float32{1, 0, 0}})

	tricks := []model.Trick{
		{ID: uuid.New(), Embedding: []float32{1, 0}},
		{ID: uuid.New(), Embedding: []float32{1, 0, 0}},
	}

	if edges := detector.CalculateSimilarities(tricks); len(edges) != 0 {
		t.Errorf("expected no edges for mismatched dimensions, got %d", len(edges))
	}
}

func TestCalculateSimilaritiesDisabledWithoutEncoder(t *testing.T) {
	detector := newTestDetector(t)

	tricks := []model.Trick{
		{ID: uuid.New(), Embedding: []float32{1, 0, 0}},
		{ID: uuid.New(), Embedding: []float32{1, 0, 0}},
	}

	if edges := detector.CalculateSimilarities(tricks); edges != nil {
		t.Errorf("expected nil edges without an encoder, got %v", edges)
	}
}

func TestCalculateSimilaritiesEmitsEdges(t *testing.T) {
	detector := NewWithEncoder(model.DefaultConfig(), nil, &fixedEncoder{vec: []float32{1, 0, 0}})

	tricks := []model.Trick{
		{ID: uuid.New(), Embedding: []float32{1, 0, 0}},
		{ID: uuid.New(), Embedding: []float32{0.95, 0.05, 0}},
	}

	edges := detector.CalculateSimilarities(tricks)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].Score <= 0.7 {
		t.Errorf("score = %f, want above threshold", edges[0].Score)
	}
}
