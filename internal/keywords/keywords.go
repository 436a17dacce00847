// Package keywords compares the vocabulary of a query against reference texts.
package keywords

import (
	"sort"
	"unicode/utf8"

	"github.com/kailas-cloud/jobmatch/internal/domain/text"
)

// Set is an unordered collection of tokens.
type Set map[string]struct{}

// Result holds the complete matched and suggested token sets.
type Result struct {
	Matched   Set
	Suggested Set
}

// Diff tokenizes the normalized query and references. Matched tokens appear in
// the query and in at least one reference; suggested tokens appear in a
// reference but not in the query. The two sets are always disjoint.
func Diff(query string, refs []string) Result {
	q := text.TokenSet(query)

	r := make(Set)
	for _, ref := range refs {
		for tok := range text.TokenSet(ref) {
			r[tok] = struct{}{}
		}
	}

	matched := make(Set)
	for tok := range q {
		if _, ok := r[tok]; ok {
			matched[tok] = struct{}{}
		}
	}

	suggested := make(Set)
	for tok := range r {
		if _, inQuery := q[tok]; inQuery {
			continue
		}
		if _, inMatched := matched[tok]; inMatched {
			continue
		}
		suggested[tok] = struct{}{}
	}

	return Result{Matched: matched, Suggested: suggested}
}

// MatchedSorted returns matched tokens in lexicographic order.
func (r Result) MatchedSorted() []string {
	out := r.Matched.slice()
	sort.Strings(out)
	return out
}

// SuggestedSorted returns suggested tokens longest first by character count,
// ties lexicographic.
func (r Result) SuggestedSorted() []string {
	out := r.Suggested.slice()
	sort.Slice(out, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(out[i]), utf8.RuneCountInString(out[j])
		if li != lj {
			return li > lj
		}
		return out[i] < out[j]
	})
	return out
}

func (s Set) slice() []string {
	out := make([]string, 0, len(s))
	for tok := range s {
		out = append(out, tok)
	}
	return out
}

// Limit truncates list to at most n entries. n <= 0 means no limit.
func Limit(list []string, n int) []string {
	if n <= 0 || len(list) <= n {
		return list
	}
	return list[:n]
}
