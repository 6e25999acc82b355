// Package normalizers provides identifier and name normalization for
// conflict matching
package normalizers

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("digits_only", DigitsOnly)
	Register("inn", CompanyID)
	Register("pinfl", PersonID)
	Register("nname", MatchName)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// CompanyID normalizes a legal-entity tax identifier (INN). Whitespace and
// dashes are stripped; the result must be all digits of length 9 or 12.
// Returns "" for anything else; callers must treat an empty result as
// "unknown", never as a match key.
func CompanyID(s string) string {
	digits := stripSeparators(s)
	if !allDigits(digits) {
		return ""
	}
	if len(digits) == 9 || len(digits) == 12 {
		return digits
	}
	return ""
}

// PersonID normalizes an individual national identifier (PINFL): all digits,
// length 14. Returns "" when invalid.
func PersonID(s string) string {
	digits := stripSeparators(s)
	if !allDigits(digits) {
		return ""
	}
	if len(digits) == 14 {
		return digits
	}
	return ""
}

// stripSeparators removes whitespace and dashes only. Unlike DigitsOnly it
// keeps every other character, so "12a456789" stays invalid instead of
// collapsing into a shorter digit string.
func stripSeparators(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '–' {
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MatchName normalizes a person or company name for equality and similarity
// comparison: NFC, lower-case, quote characters stripped, whitespace runs
// collapsed to a single space, sentence punctuation removed, trimmed.
// Never apply this before variant generation; transliteration needs the
// original casing and script cues.
func MatchName(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)

	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		switch {
		case isQuote(r):
			// dropped entirely, «Ромашка» == Ромашка
		case unicode.IsSpace(r):
			if !prevSpace && result.Len() > 0 {
				result.WriteRune(' ')
				prevSpace = true
			}
		case r == '.' || r == ',' || r == ';' || r == ':' || r == '!' || r == '?':
			// sentence punctuation carries no identity
		default:
			result.WriteRune(r)
			prevSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}

func isQuote(r rune) bool {
	switch r {
	case '"', '«', '»', '„', '“', '”', '‟', '\'', '‘', '’', '`', 'ʻ':
		return true
	}
	return false
}
