// Package textmatch implements the normalized text matching used both for
// forbidden-root checks in prompts and secret-phrase detection in agent
// replies. All checks share one normalization so the boolean test and the
// highlight spans can never disagree.
package textmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize lower-cases text, folds ё into е and strips all whitespace.
// Idempotent and total: any string input is accepted.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(fold(r))
	}
	return b.String()
}

// fold maps a rune to its normalized form (lower case, ё folded to е)
func fold(r rune) rune {
	r = unicode.ToLower(r)
	if r == 'ё' {
		r = 'е'
	}
	return r
}

// Contains reports whether needle occurs in haystack under normalization.
// An empty needle is trivially contained.
func Contains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}

// Span is a [Start, End) byte range in the original (un-normalized) text
type Span struct {
	Start int
	End   int
}

// Locate returns the non-overlapping, leftmost-first occurrences of needle in
// haystack as byte ranges of the original haystack. Matching happens in
// normalized space and positions are mapped back, so Contains and Locate
// always agree on presence: len(Locate(h, n)) > 0 iff Contains(h, n).
//
// A needle that normalizes to the empty string yields a single zero-width
// span at the start of the haystack.
func Locate(haystack, needle string) []Span {
	target := Normalize(needle)
	if target == "" {
		return []Span{{Start: 0, End: 0}}
	}

	norm, startOf, endOf := normalizeWithOffsets(haystack)

	var spans []Span
	for from := 0; ; {
		i := strings.Index(norm[from:], target)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(target)
		spans = append(spans, Span{
			Start: startOf[start],
			End:   endOf[end-1],
		})
		from = end
	}
	return spans
}

// normalizeWithOffsets normalizes haystack and records, for every byte of the
// normalized string, the byte range of the original rune that produced it.
func normalizeWithOffsets(s string) (norm string, startOf, endOf []int) {
	var b strings.Builder
	b.Grow(len(s))
	startOf = make([]int, 0, len(s))
	endOf = make([]int, 0, len(s))

	for i, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		before := b.Len()
		b.WriteRune(fold(r))
		for j := before; j < b.Len(); j++ {
			startOf = append(startOf, i)
			endOf = append(endOf, i+utf8.RuneLen(r))
		}
	}
	return b.String(), startOf, endOf
}
