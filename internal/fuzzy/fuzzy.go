// Package fuzzy implements ordered-subsequence matching for filtering feeds.
package fuzzy

import (
	"unicode/utf8"

	"github.com/samber/lo"
)

// Match reports whether every character of needle appears in haystack in
// the same relative order. The scan is case-sensitive and moves forward
// through haystack only, so each haystack rune is consumed at most once.
func Match(needle, haystack string) bool {
	nlen, hlen := utf8.RuneCountInString(needle), utf8.RuneCountInString(haystack)
	if nlen > hlen {
		return false
	}
	if nlen == hlen {
		return needle == haystack
	}

	rest := haystack
outer:
	for _, c := range needle {
		for rest != "" {
			r, size := utf8.DecodeRuneInString(rest)
			rest = rest[size:]
			if r == c {
				continue outer
			}
		}
		return false
	}
	return true
}

// Filter returns the elements whose key matches query, in their original
// order. An empty query keeps every element.
func Filter[T any](items []T, query string, key func(T) string) []T {
	if query == "" {
		return items
	}
	return lo.Filter(items, func(it T, _ int) bool {
		return Match(query, key(it))
	})
}
