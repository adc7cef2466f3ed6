// Package search provides small, deterministic text matching used to filter
// appointments by customer name or phone number. Matching is a case-folded
// substring test; folding follows Turkish case rules, so that
// "İ"/"I" and "i"/"ı" compare as users expect.
//
//   - No logging in the library (callers decide how/what to log)
//   - A Matcher is cheap to build and intended for a single request
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ----------------------------------------------------------------------------
// Matcher

// Matcher tests candidate strings against a folded query.
// It is not safe for concurrent use.
type Matcher struct {
	caser  cases.Caser
	needle string
	digits string
}

// NewMatcher builds a Matcher for query. Surrounding and repeated whitespace
// in the query is collapsed before folding.
func NewMatcher(query string) *Matcher {
	m := &Matcher{caser: cases.Lower(language.Turkish)}
	m.needle = m.fold(normalizeWhitespace(strings.TrimSpace(query)))
	m.digits = DigitsOnly(query)
	return m
}

// Empty reports whether the query carries no searchable text. An empty
// Matcher matches everything.
func (m *Matcher) Empty() bool { return m.needle == "" }

// Match reports whether the query is a case-insensitive substring of text.
func (m *Matcher) Match(text string) bool {
	if m.Empty() {
		return true
	}
	return strings.Contains(m.fold(normalizeWhitespace(text)), m.needle)
}

// MatchPhone reports whether the query matches a phone number, either as a
// plain substring or, when the query contains digits, on digits only.
func (m *Matcher) MatchPhone(phone string) bool {
	if m.Match(phone) {
		return true
	}
	return m.digits != "" && strings.Contains(DigitsOnly(phone), m.digits)
}

// fold lowercases with Turkish rules, then maps dotless ı to i so
// that ASCII-typed queries still find Turkish names.
func (m *Matcher) fold(s string) string {
	return strings.ReplaceAll(m.caser.String(s), "ı", "i")
}

// ----------------------------------------------------------------------------
// Helpers

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
