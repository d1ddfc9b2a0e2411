package match

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultThreshold is the minimum similarity for a key to be suggested.
const DefaultThreshold = 0.6

// NormalizeKey case-folds s and strips separators (_, -, ., spaces).
func NormalizeKey(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case '_', '-', '.', ' ':
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Suggest returns up to limit candidates whose similarity to key reaches
// threshold, best first. Ties keep candidate order.
func Suggest(key string, candidates []string, threshold float64, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var hits []scored

	for _, c := range candidates {
		if c == key {
			continue
		}

		if s := Similarity(key, c); s >= threshold {
			hits = append(hits, scored{name: c, score: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}

	return out
}
