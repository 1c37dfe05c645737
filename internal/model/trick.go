package model

import (
	"time"

	"github.com/google/uuid"
)

// EffectType is the category of magical phenomenon a trick performs.
// The string values are the stable representation used for persistence.
type EffectType string

const (
	EffectCard           EffectType = "Card"
	EffectCoin           EffectType = "Coin"
	EffectMentalism      EffectType = "Mentalism"
	EffectStage          EffectType = "Stage"
	EffectCloseUp        EffectType = "Close-up"
	EffectVanish         EffectType = "Vanish"
	EffectProduction     EffectType = "Production"
	EffectTransformation EffectType = "Transformation"
	EffectRestoration    EffectType = "Restoration"
	EffectPrediction     EffectType = "Prediction"
	EffectMindReading    EffectType = "Mind Reading"
	EffectRope           EffectType = "Rope"
	EffectSilk           EffectType = "Silk"
	EffectGeneral        EffectType = "General"
)

// Difficulty is the skill level a trick demands of the performer.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
	DifficultyExpert       Difficulty = "Expert"
)

// PageRange is the approximate page span a trick was detected on.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Trick is a finalized, persistable trick record produced by the detection
// pipeline. Name is at most 100 characters plus a "..." marker; Description
// is at most 500 characters. Confidence is always within [0, 1].
type Trick struct {
	ID          uuid.UUID  `json:"id"`
	BookID      uuid.UUID  `json:"book_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Method      string     `json:"method,omitempty"`
	EffectType  EffectType `json:"effect_type"`
	Difficulty  Difficulty `json:"difficulty"`
	Props       []string   `json:"props,omitempty"`
	Confidence  float64    `json:"confidence"`
	Pages       *PageRange `json:"page_range,omitempty"`
	Embedding   []float32  `json:"embedding,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SimilarityEdge links two tricks whose embeddings are close enough to be
// considered variations of each other. Edges are directional; the engine
// emits one edge per unordered pair with Score strictly above the threshold.
type SimilarityEdge struct {
	SourceID         uuid.UUID `json:"source_trick_id"`
	TargetID         uuid.UUID `json:"target_trick_id"`
	Score            float64   `json:"similarity_score"`
	RelationshipType string    `json:"relationship_type"`
}
