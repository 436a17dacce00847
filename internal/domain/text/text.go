// Package text holds the canonical comparison form shared by the corpus and queries.
package text

import (
	"strings"
	"unicode"
)

// IsWordRune reports whether r belongs to a word: a letter, a decimal digit or '_'.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Normalize lowercases s, collapses every run of non-word characters into a
// single space and trims the result. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(lower))
	pendingSpace := false
	for _, r := range lower {
		if !IsWordRune(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeAny normalizes v when it is a string and returns "" for anything else.
func NormalizeAny(v any) string {
	switch s := v.(type) {
	case string:
		return Normalize(s)
	case *string:
		if s == nil {
			return ""
		}
		return Normalize(*s)
	default:
		return ""
	}
}

// Tokenize splits s into maximal runs of word characters, in order of appearance.
// It does not lowercase; callers pass normalized text.
func Tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !IsWordRune(r) })
}

// TokenSet returns the distinct tokens of s.
func TokenSet(s string) map[string]struct{} {
	tokens := Tokenize(s)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Join normalizes the concatenation of parts separated by single spaces.
func Join(parts ...string) string {
	return Normalize(strings.Join(parts, " "))
}
