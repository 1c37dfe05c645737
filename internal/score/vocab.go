package score

import (
	"context"
	"strings"
)

// weightedTerms is the vocabulary used when no embedding backend is
// configured. Weights favor terms that rarely appear outside conjuring
// literature.
var weightedTerms = map[string]float64{
	"effect": 0.15, "method": 0.15, "secret": 0.10, "reveal": 0.08,
	"vanish": 0.12, "appear": 0.10, "transform": 0.10, "illusion": 0.12,

	"palm": 0.08, "force": 0.08, "double lift": 0.12, "break": 0.06,
	"control": 0.08, "shuffle": 0.06, "cut": 0.04, "switch": 0.08,
	"classic pass": 0.15, "elmsley count": 0.15,

	"spectator": 0.08, "audience": 0.06, "volunteer": 0.08, "presentation": 0.08,

	"deck": 0.08, "card": 0.06, "coin": 0.08, "ring": 0.06, "silk": 0.08,
	"rope": 0.08, "wand": 0.08, "hat": 0.06,

	"mentalism": 0.12, "psychic": 0.10, "prediction": 0.10, "mind reading": 0.12,
	"divination": 0.10, "esp": 0.10, "telepathy": 0.10,

	"magic": 0.08, "trick": 0.08, "magical": 0.08, "mysterious": 0.06,
	"impossible": 0.08, "miracle": 0.08,
}

// VocabularyScorer is the offline semantic strategy: a weighted term match
// with a small bonus for repeated occurrences.
type VocabularyScorer struct{}

// NewVocabularyScorer creates the fallback strategy.
func NewVocabularyScorer() *VocabularyScorer {
	return &VocabularyScorer{}
}

// Name returns the strategy name.
func (v *VocabularyScorer) Name() string {
	return "vocabulary"
}

// ScoreSemantic scores the text against the weighted vocabulary.
func (v *VocabularyScorer) ScoreSemantic(_ context.Context, text string) (float64, error) {
	return v.scoreText(text), nil
}

func (v *VocabularyScorer) scoreText(text string) float64 {
	lower := strings.ToLower(text)

	total := 0.0
	for term, weight := range weightedTerms {
		occurrences := strings.Count(lower, term)
		if occurrences == 0 {
			continue
		}
		// Repeats add a diminishing bonus, capped at three extras.
		extra := occurrences - 1
		if extra > 3 {
			extra = 3
		}
		total += weight * (1 + 0.2*float64(extra))
	}

	if total > 1.0 {
		return 1.0
	}
	return total
}
