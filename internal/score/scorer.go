// Package score assigns a confidence value to trick candidates by combining
// independent signal factors and classifies each candidate's effect type,
// difficulty, and props.
package score

import (
	"context"
	"regexp"
	"strings"

	"github.com/ppiankov/grimoire/internal/classify"
	"github.com/ppiankov/grimoire/internal/model"
)

// patternConfidence maps extraction pattern to base confidence. Explicit
// Effect/Method structure is the strongest signal a section is a real trick.
var patternConfidence = map[model.PatternType]float64{
	model.PatternEffectMethod:  0.9,
	model.PatternTitledSection: 0.7,
	model.PatternParagraph:     0.5,
}

// magicTerms is the flat vocabulary used for the count-based factor.
var magicTerms = []string{
	"effect", "method", "secret", "reveal", "vanish", "appear", "transform",
	"palm", "force", "double lift", "break", "control", "shuffle", "cut",
	"spectator", "audience", "volunteer", "deck", "card", "coin", "ring",
	"silk", "rope", "magic", "trick", "illusion", "mentalism", "psychic",
	"prediction", "mind reading", "divination", "esp", "telepathy",
	"switch", "steal", "load", "ditch", "classic pass", "elmsley count",
	"sleight", "hand", "finger", "thumb", "move", "position", "grip",
	"deal", "dealing", "pack", "packet", "selection", "chosen", "pick",
}

var structureMarkers = []struct {
	pattern *regexp.Regexp
	weight  float64
}{
	{regexp.MustCompile(`(?i)effect:\s*`), 0.3},
	{regexp.MustCompile(`(?i)method:\s*`), 0.3},
	{regexp.MustCompile(`(?i)props?\s*(needed|required):`), 0.2},
	{regexp.MustCompile(`(?i)difficulty:\s*`), 0.1},
	{regexp.MustCompile(`(?i)presentation:\s*`), 0.1},
}

// Scorer combines confidence factors into a single score and runs the
// classifiers over each candidate.
type Scorer struct {
	semantic          SemanticScorer
	defaultEffectType model.EffectType
}

// NewScorer creates a scorer using the given semantic strategy. A nil
// semantic scorer falls back to weighted vocabulary scoring.
func NewScorer(semantic SemanticScorer, defaultEffectType model.EffectType) *Scorer {
	if semantic == nil {
		semantic = NewVocabularyScorer()
	}
	if defaultEffectType == "" {
		defaultEffectType = model.EffectGeneral
	}
	return &Scorer{semantic: semantic, defaultEffectType: defaultEffectType}
}

// Score computes the confidence and classification for a candidate. All
// factors contribute with equal weight.
func (s *Scorer) Score(ctx context.Context, cand model.Candidate) (model.ScoredCandidate, error) {
	factors := make([]float64, 0, 4)

	base, ok := patternConfidence[cand.Pattern]
	if !ok {
		base = patternConfidence[model.PatternParagraph]
	}
	factors = append(factors, base)

	factors = append(factors, vocabularyScore(cand.Description))
	factors = append(factors, structureScore(cand.FullText))

	semantic, err := s.semantic.ScoreSemantic(ctx, cand.Description)
	if err != nil {
		// Semantic backends can fail transiently; degrade to the
		// vocabulary fallback rather than dropping the candidate.
		semantic = NewVocabularyScorer().scoreText(cand.Description)
	}
	factors = append(factors, semantic)

	return model.ScoredCandidate{
		Candidate:  cand,
		Confidence: mean(factors),
		EffectType: classify.EffectType(cand.Description, s.defaultEffectType),
		Difficulty: classify.Difficulty(cand.Description),
		Props:      classify.Props(cand.Description),
	}, nil
}

// vocabularyScore counts distinct known terms, normalized so five terms
// already score full marks.
func vocabularyScore(text string) float64 {
	lower := strings.ToLower(text)
	found := 0
	for _, term := range magicTerms {
		if strings.Contains(lower, term) {
			found++
		}
	}
	score := float64(found) / 5.0
	if score > 1.0 {
		return 1.0
	}
	return score
}

// structureScore rewards the section headings instructional books use.
func structureScore(text string) float64 {
	score := 0.0
	for _, marker := range structureMarkers {
		if marker.pattern.MatchString(text) {
			score += marker.weight
		}
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
