package segment

import (
	"regexp"
	"sort"
	"strings"
)

// boundaryPatterns is the fixed, ordered list of section boundary markers.
// Magic books follow a handful of typesetting conventions: numbered chapters,
// Roman-numeral chapters, ALL-CAPS headings, the Effect:/Method: structure,
// "THE TRICK NAME" headings, and short title lines followed by a blank line.
var boundaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\n\s*Chapter\s+\d+`),
	regexp.MustCompile(`\n\s*CHAPTER\s+[IVX]+`),
	regexp.MustCompile(`\n\s*\d+\.\s*[A-Z][^.\n]{10,}`),
	regexp.MustCompile(`\n\s*[A-Z][A-Z\s]{5,}[A-Z]\n`),
	regexp.MustCompile(`(?i)\n\s*Effect:`),
	regexp.MustCompile(`(?i)\n\s*Method:`),
	regexp.MustCompile(`\n\s*THE\s+[A-Z][^.\n]{5,}`),
	regexp.MustCompile(`\n\s*[A-Z][^.\n]{10,}\n\s*\n`),
}

// Segmenter splits raw book text into candidate sections.
type Segmenter struct {
	minSectionLength int
}

// NewSegmenter creates a segmenter. Sections shorter than minSectionLength
// characters (after trimming) are discarded.
func NewSegmenter(minSectionLength int) *Segmenter {
	if minSectionLength <= 0 {
		minSectionLength = 100
	}
	return &Segmenter{minSectionLength: minSectionLength}
}

// Segment splits text at every boundary pattern match and returns the
// substrings between consecutive boundaries. Matches are deduplicated by
// start offset only; a boundary matching inside another section's text still
// creates a cut. There is no nesting awareness. When nothing survives, the
// whole text is returned as a single section so the pipeline always has at
// least one section to work with.
func (s *Segmenter) Segment(text string) []string {
	offsets := map[int]struct{}{0: {}}
	for _, pattern := range boundaryPatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			offsets[loc[0]] = struct{}{}
		}
	}

	cuts := make([]int, 0, len(offsets)+1)
	for off := range offsets {
		cuts = append(cuts, off)
	}
	sort.Ints(cuts)
	cuts = append(cuts, len(text))

	var sections []string
	for i := 0; i < len(cuts)-1; i++ {
		section := strings.TrimSpace(text[cuts[i]:cuts[i+1]])
		if len(section) > s.minSectionLength {
			sections = append(sections, section)
		}
	}

	if len(sections) == 0 {
		return []string{text}
	}
	return sections
}
