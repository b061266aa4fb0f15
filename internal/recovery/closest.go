package recovery

import (
	"sort"
	"strings"
)

// ClosestMatches returns up to n candidates that look like target, closest
// first. A candidate qualifies when its case-insensitive edit distance is at
// most a third of the target's length (minimum 2), or when one contains the
// other. Exact matches are excluded.
func ClosestMatches(target string, candidates []string, n int) []string {
	if n <= 0 || target == "" {
		return nil
	}

	type scored struct {
		value string
		dist  int
	}

	lower := strings.ToLower(target)
	limit := max(2, len([]rune(target))/3)

	var matches []scored
	seen := make(map[string]bool)
	for _, c := range candidates {
		if c == target || seen[c] {
			continue
		}
		seen[c] = true
		lc := strings.ToLower(c)
		d := levenshtein(lower, lc)
		if d <= limit || (len(lc) > 2 && (strings.Contains(lc, lower) || strings.Contains(lower, lc))) {
			matches = append(matches, scored{value: c, dist: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].value < matches[j].value
	})

	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
