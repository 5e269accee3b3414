package interchange

// match.go maps one raw spreadsheet header onto a target field with a
// confidence score.
//
// Matching runs in tiers, first hit wins:
//  1. case-insensitive exact match on the field key        -> confidence 1.0
//  2. case-insensitive exact match on an alias             -> confidence 1.0
//  3. fuzzy match on normalized text (substring containment
//     or edit distance), best similarity across all fields -> (0.5, 1.0)
//  4. nothing clears the threshold                         -> FieldNone
//
// Ties between fields at the same fuzzy similarity resolve to the field
// declared first in Fields, which keeps the result deterministic.

import "strings"

// fuzzyThreshold is the minimum similarity for a fuzzy match to be accepted.
const fuzzyThreshold = 0.6

// HeaderMatch is the outcome of matching one header string.
type HeaderMatch struct {
	Field      TargetField
	Confidence float64
}

// MatchHeader returns the best-matching target field for a raw header
// string. A zero-value HeaderMatch (FieldNone, 0) means no field cleared
// the threshold.
func MatchHeader(header string) HeaderMatch {
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return HeaderMatch{}
	}

	// Tier 1+2: exact key or alias match, checked per field in declaration
	// order so the first declared field wins outright.
	for _, spec := range Fields {
		if strings.EqualFold(trimmed, string(spec.Field)) || strings.EqualFold(trimmed, spec.Label) {
			return HeaderMatch{Field: spec.Field, Confidence: 1.0}
		}
		for _, alias := range spec.Aliases {
			if strings.EqualFold(trimmed, alias) {
				return HeaderMatch{Field: spec.Field, Confidence: 1.0}
			}
		}
	}

	// Tier 3: fuzzy match on normalized text. Strictly-greater comparison
	// keeps the earliest declared field on exact similarity ties.
	normHeader := normalizeHeader(trimmed)
	if normHeader == "" {
		return HeaderMatch{}
	}

	best := HeaderMatch{}
	bestSim := 0.0
	for _, spec := range Fields {
		sim := fieldSimilarity(normHeader, spec)
		if sim >= fuzzyThreshold && sim > bestSim {
			bestSim = sim
			best = HeaderMatch{Field: spec.Field, Confidence: fuzzyConfidence(sim)}
		}
	}
	return best
}

// fieldSimilarity returns the best similarity between a normalized header
// and any of a field's recognized names.
func fieldSimilarity(normHeader string, spec FieldSpec) float64 {
	best := similarity(normHeader, normalizeHeader(spec.Label))
	if s := similarity(normHeader, normalizeHeader(string(spec.Field))); s > best {
		best = s
	}
	for _, alias := range spec.Aliases {
		if s := similarity(normHeader, normalizeHeader(alias)); s > best {
			best = s
		}
	}
	return best
}

// similarity scores two normalized strings in [0,1]. Containment of one
// string in the other scores by length ratio; otherwise edit distance
// relative to the longer string.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}

	dist := levenshtein(a, b)
	return 1 - float64(dist)/float64(len(longer))
}

// fuzzyConfidence converts a similarity score into a mapping confidence.
// Accepted fuzzy matches land strictly between 0.5 and 1.0 so they are
// always distinguishable from exact matches.
func fuzzyConfidence(sim float64) float64 {
	c := 0.5 + sim/2
	if c >= 1.0 {
		c = 0.99
	}
	return c
}

// levenshtein computes the edit distance between two strings using a
// two-row dynamic programming table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
