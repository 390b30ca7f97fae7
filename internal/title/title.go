// Package title canonicalizes free-text titles and derives comparison keys.
package title

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultMaxLen is the default maximum title length in codepoints.
	DefaultMaxLen = 120

	// Ellipsis replaces the last retained codepoint of a truncated title.
	Ellipsis = '\u2026'
)

// Normalizer sanitizes titles to at most MaxLen codepoints.
// It is safe for concurrent use.
type Normalizer struct {
	maxLen int
}

// New creates a Normalizer. A maxLen below 1 selects DefaultMaxLen.
func New(maxLen int) *Normalizer {
	if maxLen < 1 {
		maxLen = DefaultMaxLen
	}
	return &Normalizer{maxLen: maxLen}
}

// MaxLen returns the configured maximum length in codepoints.
func (n *Normalizer) MaxLen() int {
	return n.maxLen
}

// Sanitize returns the canonical form of text:
//   - NFC, with odd Unicode spaces mapped to ' ' and zero-width/BOM runes removed
//   - outer whitespace trimmed, leading and trailing quote/bracket runs stripped
//   - internal whitespace runs collapsed to one space
//   - truncated by codepoints to MaxLen, ending in '…' when cut
//
// Sanitize is idempotent.
func (n *Normalizer) Sanitize(text string) string {
	if text == "" {
		return ""
	}
	t := norm.NFC.String(text)

	removed := false
	t = strings.Map(func(r rune) rune {
		switch {
		case isOddSpace(r):
			return ' '
		case isZeroWidth(r):
			removed = true
			return -1
		}
		return r
	}, t)
	if removed {
		// Dropping a zero-width rune can expose a composable pair.
		t = norm.NFC.String(t)
	}

	t = strings.TrimSpace(t)
	t = strings.TrimLeftFunc(t, isLeadingJunk)
	t = strings.TrimRightFunc(t, isTrailingJunk)
	t = strings.Join(strings.Fields(t), " ")

	return truncate(t, n.maxLen)
}

// ComparisonKey returns the locale-stable lowercase of Sanitize(text).
// Keys are only compared, never persisted.
func (n *Normalizer) ComparisonKey(text string) string {
	// cases.Caser is stateful; one per call keeps Normalizer shareable.
	return cases.Lower(language.English).String(n.Sanitize(text))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		// Byte length bounds the rune count.
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + string(Ellipsis)
}

func isOddSpace(r rune) bool {
	switch {
	case r == '\u00A0', r == '\u1680', r == '\u202F', r == '\u205F', r == '\u3000':
		return true
	case r >= '\u2000' && r <= '\u200A':
		return true
	}
	return false
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\u2060', '\uFEFF':
		return true
	}
	return false
}

func isLeadingJunk(r rune) bool {
	switch r {
	case '\'', '"', '“', '”', '‘', '’', '«', '»', '[', '(', '{':
		return true
	}
	return unicode.IsSpace(r)
}

func isTrailingJunk(r rune) bool {
	switch r {
	case '\'', '"', '“', '”', '‘', '’', '«', '»', ']', ')', '}':
		return true
	}
	return unicode.IsSpace(r)
}
