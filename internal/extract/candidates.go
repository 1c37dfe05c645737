package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/grimoire/internal/model"
)

// Effect/Method block structure. High precision: books that use these
// markers almost always describe one trick per block.
var (
	effectPattern = regexp.MustCompile(`(?is)Effect:\s*(.+?)(?:Method:|\z)`)
	methodPattern = regexp.MustCompile(`(?is)Method:\s*(.+?)(?:Effect:|\z)`)
)

// Titled-section title anchors, tried in order. The body of a titled
// candidate runs from the end of its title line to the start of the next
// title match of the same shape, or the end of the section.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^([A-Z][^.\n]{5,})\n`),     // Capitalized title line
	regexp.MustCompile(`(?m)^\d+\.\s*([^.\n]{5,})\n`),  // Numbered list item
	regexp.MustCompile(`(?m)^THE\s+([^.\n]{5,})\n`),    // "THE TRICK NAME"
	regexp.MustCompile(`(?m)^([A-Z][A-Z\s]{9,})\n`),    // ALL-CAPS heading
}

// methodBank finds method descriptions inside narrative bodies.
var methodBank = []*regexp.Regexp{
	regexp.MustCompile(`(?is)Method:\s*(.+?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)How it's done:\s*(.+?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)Secret:\s*(.+?)(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)Working:\s*(.+?)(?:\n\n|\z)`),
}

// titleStopWords are first words that mark a heading as structural rather
// than a trick title.
var titleStopWords = map[string]struct{}{
	"chapter":      {},
	"introduction": {},
	"conclusion":   {},
	"preface":      {},
	"about":        {},
	"contents":     {},
}

// paragraphIndicators mark a plain paragraph as likely describing a trick.
// Used only by the paragraph fallback strategy.
var paragraphIndicators = []string{
	"effect:", "method:", "preparation:", "performance:",
	"the trick", "the effect", "the method", "the secret",
	"vanish", "appear", "transform", "prediction",
}

// Extractor finds trick candidates within a single section.
type Extractor struct{}

// NewExtractor creates a candidate extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs the extraction strategies over a section and concatenates
// their results. The Effect/Method and titled-section strategies always run;
// the paragraph strategy runs only when both come up empty, so structured
// sections yield exactly their structured candidates.
func (e *Extractor) Extract(section string) []model.Candidate {
	var candidates []model.Candidate
	candidates = append(candidates, e.extractEffectMethod(section)...)
	candidates = append(candidates, e.extractTitled(section)...)
	if len(candidates) == 0 {
		candidates = append(candidates, e.extractParagraphs(section)...)
	}
	return candidates
}

// extractEffectMethod captures the structured Effect:/Method: block form.
func (e *Extractor) extractEffectMethod(section string) []model.Candidate {
	effectMatch := effectPattern.FindStringSubmatch(section)
	if effectMatch == nil {
		return nil
	}

	description := strings.TrimSpace(effectMatch[1])
	method := ""
	if methodMatch := methodPattern.FindStringSubmatch(section); methodMatch != nil {
		method = strings.TrimSpace(methodMatch[1])
	}

	return []model.Candidate{{
		Name:        nameFromEffect(description),
		Description: description,
		Method:      method,
		FullText:    section,
		Pattern:     model.PatternEffectMethod,
	}}
}

// extractTitled applies the four title shapes and gates each hit through the
// title heuristic. Lower precision than Effect/Method, so the body must also
// carry enough text to plausibly describe a trick.
func (e *Extractor) extractTitled(section string) []model.Candidate {
	var candidates []model.Candidate

	for _, pattern := range titlePatterns {
		matches := pattern.FindAllStringSubmatchIndex(section, -1)
		for i, m := range matches {
			title := strings.TrimSpace(section[m[2]:m[3]])

			bodyEnd := len(section)
			if i+1 < len(matches) {
				bodyEnd = matches[i+1][0]
			}
			body := strings.TrimSpace(section[m[1]:bodyEnd])

			if !looksLikeTrickTitle(title) || len(body) <= 50 {
				continue
			}

			candidates = append(candidates, model.Candidate{
				Name:        title,
				Description: truncate(body, 500),
				Method:      methodFromBody(body),
				FullText:    section[m[0]:bodyEnd],
				Pattern:     model.PatternTitledSection,
			})
		}
	}

	return candidates
}

// extractParagraphs is the last-resort strategy for books with no usable
// structure: blank-line-delimited paragraphs containing trick indicators.
func (e *Extractor) extractParagraphs(section string) []model.Candidate {
	var candidates []model.Candidate

	for _, paragraph := range strings.Split(section, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) < 50 {
			continue
		}

		lower := strings.ToLower(paragraph)
		matched := false
		for _, indicator := range paragraphIndicators {
			if strings.Contains(lower, indicator) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		name := paragraph
		if idx := strings.IndexByte(paragraph, '\n'); idx >= 0 {
			name = paragraph[:idx]
		}

		candidates = append(candidates, model.Candidate{
			Name:        strings.TrimSpace(name),
			Description: truncate(paragraph, 500),
			FullText:    paragraph,
			Pattern:     model.PatternParagraph,
		})
	}

	return candidates
}

// nameFromEffect derives a trick name from the first sentence of the effect
// description, truncated to 50 characters.
func nameFromEffect(effect string) string {
	name := effect
	if idx := strings.IndexByte(effect, '.'); idx >= 0 {
		name = effect[:idx]
	}
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > 50 {
		name = string([]rune(name)[:47]) + "..."
	}
	return name
}

// looksLikeTrickTitle filters out structural headings: titles must be 5-100
// characters, not fully upper-case, and not start with a stop word.
func looksLikeTrickTitle(title string) bool {
	if len(title) < 5 || len(title) > 100 {
		return false
	}
	if isAllUpper(title) {
		return false
	}
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return false
	}
	if _, skip := titleStopWords[strings.ToLower(fields[0])]; skip {
		return false
	}
	return true
}

// isAllUpper reports whether the string contains letters and none of them
// are lower-case.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// methodFromBody scans the body for method indicators.
func methodFromBody(body string) string {
	for _, pattern := range methodBank {
		if m := pattern.FindStringSubmatch(body); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// truncate caps s at n runes, never splitting a multi-byte character.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
