package classify

import (
	"strings"

	"github.com/ppiankov/grimoire/internal/model"
)

// effectTable maps effect types to their indicator keywords. Order matters:
// ties are broken by table position, so the most specific categories come
// first. Matching is presence-based, one point per keyword found.
var effectTable = []struct {
	effect   model.EffectType
	keywords []string
}{
	{model.EffectCard, []string{"card", "deck", "shuffle", "deal", "ace", "king", "queen"}},
	{model.EffectCoin, []string{"coin", "penny", "quarter", "dollar", "change", "palm"}},
	{model.EffectMentalism, []string{"mind", "thought", "predict", "esp", "telepathy", "psychic"}},
	{model.EffectStage, []string{"stage", "platform", "large", "theater", "audience"}},
	{model.EffectCloseUp, []string{"close", "intimate", "small group", "table", "parlor"}},
	{model.EffectVanish, []string{"vanish", "disappear", "gone", "invisible"}},
	{model.EffectProduction, []string{"appear", "produce", "materialize", "manifest"}},
	{model.EffectTransformation, []string{"change", "transform", "morph", "convert"}},
	{model.EffectRestoration, []string{"restore", "repair", "fix", "mend", "whole again"}},
	{model.EffectPrediction, []string{"predict", "prophecy", "foretell", "future"}},
	{model.EffectMindReading, []string{"mind reading", "thoughts", "telepathy"}},
	{model.EffectRope, []string{"rope", "string", "cord", "thread"}},
	{model.EffectSilk, []string{"silk", "handkerchief", "scarf"}},
}

// EffectType classifies the effect category of a trick description. When no
// keyword matches, def is returned; different callers historically prefer
// General or Close-up, which is why the default is a parameter and not a
// constant.
func EffectType(text string, def model.EffectType) model.EffectType {
	lower := strings.ToLower(text)

	best := def
	bestScore := 0
	for _, entry := range effectTable {
		score := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = entry.effect
			bestScore = score
		}
	}

	return best
}
