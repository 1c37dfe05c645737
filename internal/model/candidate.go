package model

// PatternType identifies which extraction strategy produced a candidate.
// The pattern itself is a confidence signal: structured Effect/Method blocks
// are far more reliable than bare paragraphs.
type PatternType string

const (
	PatternEffectMethod  PatternType = "effect_method"
	PatternTitledSection PatternType = "titled_section"
	PatternParagraph     PatternType = "paragraph"
)

// Candidate is a provisionally extracted span suspected of describing one
// trick. Candidates are ephemeral: they live only for the duration of a
// single detection run and are never persisted.
type Candidate struct {
	Name         string      // Provisional trick name
	Description  string      // Raw description span (possibly truncated)
	Method       string      // Method text, empty if not found
	FullText     string      // Surrounding text used for structural scoring
	Pattern      PatternType // Which strategy extracted it
	SectionIndex int         // Index of the source section (0-based)
}

// ScoredCandidate is a candidate with classification and a confidence score
// attached. Confidence is the arithmetic mean of the independent factor
// scores, each in [0, 1].
type ScoredCandidate struct {
	Candidate

	Confidence float64
	EffectType EffectType
	Difficulty Difficulty
	Props      []string
}
