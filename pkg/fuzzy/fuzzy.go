package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Distance is the Levenshtein edit distance between the normalized forms of a and b.
func Distance(a, b string) int {
	ra := []rune(Normalize(a))
	rb := []rune(Normalize(b))
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
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Threshold is the typo tolerance for a query of the given length.
func Threshold(query string) int {
	switch n := len([]rune(query)); {
	case n <= 3:
		return 0
	case n < 8:
		return 1
	default:
		return 2
	}
}

// Match reports whether every word of query matches some word of text,
// as a substring, a prefix, or within the typo threshold.
func Match(query, text string) bool {
	words := strings.Fields(Normalize(text))
	full := strings.Join(words, " ")

	for _, q := range strings.Fields(Normalize(query)) {
		if strings.Contains(full, q) {
			continue
		}
		found := false
		limit := Threshold(q)
		for _, w := range words {
			if strings.HasPrefix(w, q) || Distance(q, w) <= limit {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Normalize lowercases s and strips diacritics so "Café" matches "cafe".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
