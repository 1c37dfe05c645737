// Package dedupe collapses near-duplicate trick detections. Books often
// describe the same routine under slightly different headings, so candidates
// whose names share most of their words are treated as one trick.
package dedupe

import (
	"strings"

	"github.com/ppiankov/grimoire/internal/model"
)

const defaultThreshold = 0.8

// Dedupe removes candidates whose names are near-duplicates of an earlier
// candidate, keeping the higher-confidence one. Input order is preserved for
// survivors.
func Dedupe(cands []model.ScoredCandidate, threshold float64) []model.ScoredCandidate {
	if threshold <= 0 {
		threshold = defaultThreshold
	}

	unique := make([]model.ScoredCandidate, 0, len(cands))
	for _, cand := range cands {
		duplicateOf := -1
		for i, existing := range unique {
			if namesSimilar(cand.Name, existing.Name, threshold) {
				duplicateOf = i
				break
			}
		}

		if duplicateOf == -1 {
			unique = append(unique, cand)
			continue
		}

		if cand.Confidence > unique[duplicateOf].Confidence {
			unique[duplicateOf] = cand
		}
	}

	return unique
}

// namesSimilar reports whether the Jaccard similarity of the names' word
// sets exceeds the threshold.
func namesSimilar(a, b string, threshold float64) bool {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return false
	}

	intersection := 0
	for word := range wordsA {
		if _, ok := wordsB[word]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection

	return float64(intersection)/float64(union) > threshold
}

func wordSet(name string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(name)) {
		set[word] = struct{}{}
	}
	return set
}
