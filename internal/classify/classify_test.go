package classify

import (
	"reflect"
	"testing"

	"github.com/ppiankov/grimoire/internal/model"
)

func TestEffectType_CardKeywords(t *testing.T) {
	text := "The spectator shuffles the deck and selects a card at random."

	effect := EffectType(text, model.EffectGeneral)
	if effect != model.EffectCard {
		t.Errorf("Expected Card, got %s", effect)
	}
}

func TestEffectType_HighestCountWins(t *testing.T) {
	// One coin keyword versus three card keywords.
	text := "A coin is placed on the deck while the ace and king are shuffled."

	effect := EffectType(text, model.EffectGeneral)
	if effect != model.EffectCard {
		t.Errorf("Expected Card to outscore Coin, got %s", effect)
	}
}

func TestEffectType_TieBrokenByTableOrder(t *testing.T) {
	// "card" (Card) and "coin" (Coin) each score exactly one; Card comes
	// first in the table and must win.
	text := "A card and a coin are shown on both sides."

	effect := EffectType(text, model.EffectGeneral)
	if effect != model.EffectCard {
		t.Errorf("Expected tie to resolve to Card (table order), got %s", effect)
	}
}

func TestEffectType_ConfigurableDefault(t *testing.T) {
	text := "Nothing relevant whatsoever in this sentence."

	if got := EffectType(text, model.EffectGeneral); got != model.EffectGeneral {
		t.Errorf("Expected default General, got %s", got)
	}
	if got := EffectType(text, model.EffectCloseUp); got != model.EffectCloseUp {
		t.Errorf("Expected default Close-up, got %s", got)
	}
}

func TestEffectType_Idempotent(t *testing.T) {
	text := "The magician predicts the thought-of card using pure telepathy."

	first := EffectType(text, model.EffectGeneral)
	second := EffectType(text, model.EffectGeneral)
	if first != second {
		t.Errorf("Classification not idempotent: %s then %s", first, second)
	}
}

func TestDifficulty_PriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Difficulty
	}{
		{"expert beats advanced", "an advanced routine only for the expert performer", model.DifficultyExpert},
		{"advanced beats beginner", "this advanced move looks easy but is not", model.DifficultyAdvanced},
		{"beginner alone", "an easy and simple opener for any show", model.DifficultyBeginner},
		{"intermediate alone", "a moderate amount of practice is required", model.DifficultyIntermediate},
		{"default", "no skill words in this text at all", model.DifficultyIntermediate},
		{"sleight is advanced", "relies on a difficult sleight done under cover", model.DifficultyAdvanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Difficulty(tt.text); got != tt.want {
				t.Errorf("Difficulty(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestDifficulty_Idempotent(t *testing.T) {
	text := "a challenging routine for professional workers"

	first := Difficulty(text)
	second := Difficulty(text)
	if first != second {
		t.Errorf("Classification not idempotent: %s then %s", first, second)
	}
}

func TestProps_TitleCasedAndOrdered(t *testing.T) {
	text := "You need a deck of cards, three coins, and a silk handkerchief on the table."

	props := Props(text)

	want := []string{"Deck Of Cards", "Cards", "Coins", "Silk", "Handkerchief", "Table"}
	if !reflect.DeepEqual(props, want) {
		t.Errorf("Props = %v, want %v", props, want)
	}
}

func TestProps_Deduplicated(t *testing.T) {
	text := "A coin, another coin, and yet another coin."

	props := Props(text)
	seen := make(map[string]int)
	for _, p := range props {
		seen[p]++
		if seen[p] > 1 {
			t.Errorf("Prop %q reported more than once", p)
		}
	}
}

func TestProps_NoneFound(t *testing.T) {
	props := Props("an empty-handed routine with no apparatus of any kind")
	if len(props) != 0 {
		t.Errorf("Expected no props, got %v", props)
	}
}
