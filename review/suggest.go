// Package review generates human-gated capitalization suggestions and
// applies the approved ones. Nothing in this package edits a verse
// without an explicit APPROVE decision in the review worksheet.
package review

import (
	"regexp"
	"sort"
	"strings"

	"github.com/inkhorn/scriptorium/canon"
	"github.com/inkhorn/scriptorium/corpus"
)

// Suggestion kinds.
const (
	KindPronoun = "pronoun"
	KindTitle   = "title"
)

// Suggestion is a proposed capitalization edit for one verse. Suggested
// holds the full verse text after the edit so a reviewer can read it in
// place rather than reconstruct it from a diff.
type Suggestion struct {
	Ref        canon.Ref
	Original   string
	Suggested  string
	Reason     string
	Confidence float64
	Kind       string
}

// anchorRe matches explicit divine names. A verse without an anchor never
// gets pronoun suggestions.
var anchorRe = regexp.MustCompile(`\bLORD\b|\bGOD\b|\bO\s+LORD\b|\bO\s+God\b|\bGod\b`)

// pronounRe matches lowercase second- and third-person pronouns that may
// refer to God.
var pronounRe = regexp.MustCompile(`\b(he|him|his|you|your|yours|himself)\b`)

var (
	nearInvocationRe = regexp.MustCompile(`(?i)\bO\s+(LORD|God)\b`)
	divineOpeningRe  = regexp.MustCompile(`^\s*(God|The LORD|LORD)\b`)
)

var (
	isTitleRe         = regexp.MustCompile(`(?i)\bis\s+(my|our|his|their)\s+(rock|fortress|stronghold|high\s+tower)\b`)
	possessiveTitleRe = regexp.MustCompile(`(?i)\b(my|our|his|their)\s+(rock|fortress|stronghold|high\s+tower)\b`)
	salvationTitleRe  = regexp.MustCompile(`(?i)\b(my|our|his|their)\s+salvation\b`)
	salvationWordRe   = regexp.MustCompile(`(?i)\bsalvation\b`)
)

// pronounConfidence scores a pronoun suggestion. Conservative: the base
// only says "plausible", anchors and invocations raise it.
func pronounConfidence(text string, matchStart int) float64 {
	score := 0.55
	if anchorRe.MatchString(text) {
		score += 0.25
	}

	lo := matchStart - 40
	if lo < 0 {
		lo = 0
	}
	hi := matchStart + 40
	if hi > len(text) {
		hi = len(text)
	}
	if nearInvocationRe.MatchString(text[lo:hi]) {
		score += 0.15
	}

	if divineOpeningRe.MatchString(text) {
		score += 0.05
	}

	if score > 0.95 {
		score = 0.95
	}
	return score
}

// capPhrase title-cases each word of a phrase ("high tower" to "High Tower").
func capPhrase(phrase string) string {
	words := strings.Fields(strings.ToLower(phrase))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// suggestVerse builds all suggestions for one verse. Pronoun suggestions
// are cumulative: each one includes the previous edits, so approving the
// last suggestion approves them all.
func suggestVerse(ref canon.Ref, text string) []Suggestion {
	var suggestions []Suggestion
	original := text
	working := text

	if anchorRe.MatchString(working) {
		for {
			loc := pronounRe.FindStringIndex(working)
			if loc == nil {
				break
			}
			pron := working[loc[0]:loc[1]]
			capped := strings.ToUpper(pron[:1]) + pron[1:]
			conf := pronounConfidence(working, loc[0])
			suggested := working[:loc[0]] + capped + working[loc[1]:]
			suggestions = append(suggestions, Suggestion{
				Ref:        ref,
				Original:   original,
				Suggested:  suggested,
				Reason:     "Divine pronoun '" + pron + "' not capitalized (anchor present in verse).",
				Confidence: conf,
				Kind:       KindPronoun,
			})
			working = suggested
		}
	}

	// Titles are detected on the original text; pronoun edits must not
	// shift title spans.
	working = original

	for _, tc := range []struct {
		re     *regexp.Regexp
		reason string
		conf   float64
	}{
		{isTitleRe, "Divine title used as identity ('is my/our/his/their ...').", 0.92},
		{possessiveTitleRe, "Divine title used as possessive title ('my/our/his/their ...').", 0.88},
	} {
		// Capitalization preserves length, so spans found up front stay
		// valid across the sequential edits.
		for _, m := range tc.re.FindAllStringSubmatchIndex(working, -1) {
			start, end := m[4], m[5]
			suggested := working[:start] + capPhrase(working[start:end]) + working[end:]
			suggestions = append(suggestions, Suggestion{
				Ref:        ref,
				Original:   original,
				Suggested:  suggested,
				Reason:     tc.reason,
				Confidence: tc.conf,
				Kind:       KindTitle,
			})
			working = suggested
		}
	}

	for _, m := range salvationTitleRe.FindAllStringIndex(working, -1) {
		phrase := working[m[0]:m[1]]
		phrase = salvationWordRe.ReplaceAllString(phrase, "Salvation")
		suggested := working[:m[0]] + phrase + working[m[1]:]
		suggestions = append(suggestions, Suggestion{
			Ref:        ref,
			Original:   original,
			Suggested:  suggested,
			Reason:     "Salvation used as a title (my/our/his/their Salvation).",
			Confidence: 0.85,
			Kind:       KindTitle,
		})
		working = suggested
	}

	// Drop suggestions whose result duplicates an earlier one.
	seen := make(map[string]bool)
	uniq := suggestions[:0]
	for _, s := range suggestions {
		if seen[s.Suggested] {
			continue
		}
		seen[s.Suggested] = true
		uniq = append(uniq, s)
	}
	return uniq
}

// Suggest scans every translated verse and returns suggestions sorted by
// canonical reference, highest confidence first within a verse.
func Suggest(c *corpus.Corpus) []Suggestion {
	var all []Suggestion
	for _, v := range c.Verses() {
		if v.Translation == "" {
			continue
		}
		all = append(all, suggestVerse(v.Ref, v.Translation)...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Ref != all[j].Ref {
			return all[i].Ref.Less(all[j].Ref)
		}
		return all[i].Confidence > all[j].Confidence
	})

	return all
}
