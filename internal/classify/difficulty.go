package classify

import (
	"strings"

	"github.com/ppiankov/grimoire/internal/model"
)

// difficultyTable is checked in fixed priority order: Expert terms first,
// then Advanced, Intermediate, Beginner. The first level with any keyword
// hit wins, so text mentioning both "advanced" and "easy" classifies as
// Advanced. Changing this order changes classification results.
var difficultyTable = []struct {
	level    model.Difficulty
	keywords []string
}{
	{model.DifficultyExpert, []string{"expert", "master", "professional", "years of practice"}},
	{model.DifficultyAdvanced, []string{"advanced", "difficult", "challenging", "skill required", "sleight"}},
	{model.DifficultyIntermediate, []string{"intermediate", "moderate", "some practice"}},
	{model.DifficultyBeginner, []string{"easy", "simple", "basic", "beginner", "elementary"}},
}

// Difficulty classifies the skill level demanded by a trick description.
// Defaults to Intermediate when nothing matches.
func Difficulty(text string) model.Difficulty {
	lower := strings.ToLower(text)

	for _, entry := range difficultyTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.level
			}
		}
	}

	return model.DifficultyIntermediate
}
