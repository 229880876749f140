package osis

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// OSIS texts sometimes carry bracketed editorial insertions.
	bracketedRe = regexp.MustCompile(`\[[^\]]*\]`)

	// Tighten spacing left behind by removed markup.
	spaceBeforePunctRe = regexp.MustCompile(`\s+([,.;:!?])`)
	spaceBeforeQuoteRe = regexp.MustCompile("\\s+([\u2019\u201d])")
)

// normalizeEnglish cleans extracted English verse text: NBSP to space,
// whitespace collapse, bracketed insertions removed, punctuation and
// closing-quote spacing tightened.
func normalizeEnglish(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = bracketedRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = spaceBeforePunctRe.ReplaceAllString(s, "$1")
	s = spaceBeforeQuoteRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// normalizeHebrew collapses whitespace, keeping vowels and cantillation.
func normalizeHebrew(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
