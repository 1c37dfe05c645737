package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// propPatterns match the common props of the repertoire. More specific
// patterns come first so "deck of cards" is reported as such rather than as
// a bare "cards".
var propPatterns = []*regexp.Regexp{
	regexp.MustCompile(`deck of cards?`),
	regexp.MustCompile(`cards?`),
	regexp.MustCompile(`coins?`),
	regexp.MustCompile(`rings?`),
	regexp.MustCompile(`ropes?`),
	regexp.MustCompile(`silk`),
	regexp.MustCompile(`handkerchief`),
	regexp.MustCompile(`rubber bands?`),
	regexp.MustCompile(`cups?`),
	regexp.MustCompile(`balls?`),
	regexp.MustCompile(`wand`),
	regexp.MustCompile(`top hat`),
	regexp.MustCompile(`table`),
	regexp.MustCompile(`chair`),
	regexp.MustCompile(`box`),
	regexp.MustCompile(`envelope`),
}

var titleCaser = cases.Title(language.English)

// Props extracts the props mentioned in a trick description. Each matched
// prop is reported once, title-cased, in first-seen pattern order.
func Props(text string) []string {
	lower := strings.ToLower(text)

	var props []string
	seen := make(map[string]struct{})
	for _, pattern := range propPatterns {
		match := pattern.FindString(lower)
		if match == "" {
			continue
		}
		prop := titleCaser.String(match)
		if _, dup := seen[prop]; dup {
			continue
		}
		seen[prop] = struct{}{}
		props = append(props, prop)
	}

	return props
}
