package score

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ppiankov/grimoire/internal/model"
)

type stubSemantic struct {
	score float64
	err   error
}

func (s *stubSemantic) Name() string { return "stub" }
func (s *stubSemantic) ScoreSemantic(_ context.Context, _ string) (float64, error) {
	return s.score, s.err
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreIsMeanOfFactors(t *testing.T) {
	scorer := NewScorer(&stubSemantic{score: 0.5}, model.EffectGeneral)

	cand := model.Candidate{
		Name:        "xyz",
		Description: "xyz",
		FullText:    "xyz",
		Pattern:     model.PatternEffectMethod,
	}

	scored, err := scorer.Score(context.Background(), cand)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// pattern 0.9, vocabulary 0, structure 0, semantic 0.5
	want := (0.9 + 0.0 + 0.0 + 0.5) / 4.0
	if !almostEqual(scored.Confidence, want) {
		t.Errorf("confidence = %f, want %f", scored.Confidence, want)
	}
	if scored.EffectType != model.EffectGeneral {
		t.Errorf("effect type = %s, want %s", scored.EffectType, model.EffectGeneral)
	}
}

func TestScorePatternOrdering(t *testing.T) {
	scorer := NewScorer(&stubSemantic{score: 0.4}, model.EffectGeneral)

	base := model.Candidate{
		Name:        "The Rising Card",
		Description: "A chosen card rises from the deck.",
		FullText:    "A chosen card rises from the deck.",
	}

	scores := map[model.PatternType]float64{}
	for _, pattern := range []model.PatternType{
		model.PatternEffectMethod,
		model.PatternTitledSection,
		model.PatternParagraph,
	} {
		cand := base
		cand.Pattern = pattern
		scored, err := scorer.Score(context.Background(), cand)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		scores[pattern] = scored.Confidence
	}

	if !(scores[model.PatternEffectMethod] > scores[model.PatternTitledSection]) {
		t.Error("effect_method should outrank titled_section")
	}
	if !(scores[model.PatternTitledSection] > scores[model.PatternParagraph]) {
		t.Error("titled_section should outrank paragraph")
	}
}

func TestScoreSemanticErrorFallsBackToVocabulary(t *testing.T) {
	scorer := NewScorer(&stubSemantic{err: errors.New("backend down")}, model.EffectGeneral)

	cand := model.Candidate{
		Description: "The coin vanishes while the spectator watches.",
		FullText:    "The coin vanishes while the spectator watches.",
		Pattern:     model.PatternParagraph,
	}

	scored, err := scorer.Score(context.Background(), cand)
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if scored.Confidence <= 0 {
		t.Error("expected positive confidence after fallback")
	}
}

func TestVocabularyScoreCapsAtFiveTerms(t *testing.T) {
	text := "The magician asks a spectator to shuffle the deck, pick a card, and watch the coin vanish with a secret palm."
	if score := vocabularyScore(text); score != 1.0 {
		t.Errorf("score = %f, want 1.0", score)
	}
	if score := vocabularyScore("nothing relevant here"); score != 0.0 {
		t.Errorf("score = %f, want 0.0", score)
	}
}

func TestStructureScore(t *testing.T) {
	text := "Effect: A coin vanishes.\n\nMethod: Palm the coin.\n\nDifficulty: easy"
	// effect 0.3 + method 0.3 + difficulty 0.1
	if score := structureScore(text); !almostEqual(score, 0.7) {
		t.Errorf("score = %f, want 0.7", score)
	}
	if score := structureScore("plain prose without headings"); score != 0.0 {
		t.Errorf("score = %f, want 0.0", score)
	}
}

func TestVocabularyScorerWeights(t *testing.T) {
	v := NewVocabularyScorer()

	score, err := v.ScoreSemantic(context.Background(), "vanish")
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(score, 0.12) {
		t.Errorf("single term score = %f, want 0.12", score)
	}

	// A repeat earns a 20% bonus on the term weight.
	score, err = v.ScoreSemantic(context.Background(), "vanish then vanish again")
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(score, 0.12*1.2) {
		t.Errorf("repeated term score = %f, want %f", score, 0.12*1.2)
	}
}

func TestVocabularyScorerCapsAtOne(t *testing.T) {
	v := NewVocabularyScorer()
	text := "effect method secret vanish illusion mentalism classic pass elmsley count prediction mind reading"
	score, err := v.ScoreSemantic(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	if score != 1.0 {
		t.Errorf("score = %f, want 1.0", score)
	}
}
