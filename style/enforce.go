// Package style applies deterministic house-style rules to translated
// verses. The rules are mechanical rewrites that an LLM polish pass tends
// to regress on, so they run after every revision.
package style

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/inkhorn/scriptorium/metrics"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeSpace collapses runs of whitespace to single spaces.
func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// CollapseNewlines removes internal line breaks. A verse is a single line.
func CollapseNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return normalizeSpace(text)
}

var (
	lordGodRe     = regexp.MustCompile(`\bLord God\b`)
	lordSaidRe    = regexp.MustCompile(`\bAnd the Lord said\b`)
	theLordRe     = regexp.MustCompile(`\bthe Lord\b(\s+GOD\b)?`)
	angelOfLordRe = regexp.MustCompile(`\bangel of the Lord\b`)
)

// LordCaps enforces small-caps LORD for the divine name. "the Lord GOD"
// is the one context left alone, since GOD already carries the name.
func LordCaps(text string) string {
	text = lordGodRe.ReplaceAllString(text, "LORD God")
	text = lordSaidRe.ReplaceAllString(text, "And the LORD said")
	text = theLordRe.ReplaceAllStringFunc(text, func(m string) string {
		if strings.Contains(m, "GOD") {
			return m
		}
		return "the LORD"
	})
	text = angelOfLordRe.ReplaceAllString(text, "angel of the LORD")
	return text
}

var (
	separatedBetweenBareRe = regexp.MustCompile(`(?i)\bseparated between\b`)
	divideBetweenBareRe    = regexp.MustCompile(`(?i)\bdivid(e|ing) between\b`)
	divideBothBetweenRe    = regexp.MustCompile(`(?i)\bto divide\s+between\s+([^,;]+?)\s+and\s+between\s+([^,;]+?)\b`)
	divideAndBetweenRe     = regexp.MustCompile(`(?i)\bto divide\s+([^,;]+?)\s+and\s+between\s+([^,;]+?)\b`)
	separatedBetweenTheRe  = regexp.MustCompile(`(?i)\bseparated\s+between\s+([^,;]+?)\s+and\s+the\s+([^,;]+?)\b`)
	separatedBetweenRe     = regexp.MustCompile(`(?i)\bseparated\s+between\s+([^,;]+?)\s+and\s+([^,;]+?)\b`)
)

// BetweenFrom rewrites the Hebraic "divide between X and between Y"
// construction into natural English "divide X from Y".
func BetweenFrom(text string) string {
	text = divideBothBetweenRe.ReplaceAllString(text, "to divide $1 from $2")
	text = divideAndBetweenRe.ReplaceAllString(text, "to divide $1 from $2")
	text = separatedBetweenTheRe.ReplaceAllString(text, "separated $1 from the $2")
	text = separatedBetweenRe.ReplaceAllString(text, "separated $1 from $2")
	text = separatedBetweenBareRe.ReplaceAllString(text, "separated")
	text = divideBetweenBareRe.ReplaceAllString(text, "divid$1")
	return text
}

var (
	compoundHighRe = regexp.MustCompile(`(?i)\b(sixty|seventy|eighty|ninety)\s+and\s+(one|two|three|four|five|six|seven|eight|nine)\b`)
	compoundLowRe  = regexp.MustCompile(`(?i)\b(twenty|thirty|forty|fifty)\s+and\s+(one|two|three|four|five|six|seven|eight|nine)\b`)
)

// CompoundNumbers rewrites "sixty and five" as "sixty-five".
func CompoundNumbers(text string) string {
	text = compoundHighRe.ReplaceAllString(text, "$1-$2")
	text = compoundLowRe.ReplaceAllString(text, "$1-$2")
	return text
}

// divineSubjectRes match clauses that explicitly name God or the LORD as
// the grammatical subject. Reverential capitalization only triggers when
// one of these is present, which keeps the rule conservative.
var divineSubjectRes = []*regexp.Regexp{
	regexp.MustCompile(`\bGod\s+(said|did|made|created|saw|called|blessed|commanded|formed)\b`),
	regexp.MustCompile(`\bthe LORD\s+(said|did|made|saw|called|commanded|appeared)\b`),
	regexp.MustCompile(`\bthe LORD God\s+(said|did|made|formed|took|placed)\b`),
}

var lowercasePronounRe = regexp.MustCompile(`\b(he|him|his|himself)\b`)

var pronounCaps = map[string]string{
	"he": "He", "him": "Him", "his": "His", "himself": "Himself",
}

// ReverentialPronouns capitalizes he/him/his/himself when the verse has a
// divine grammatical subject. Verses without one are left untouched.
func ReverentialPronouns(text string) string {
	matched := false
	for _, re := range divineSubjectRes {
		if re.MatchString(text) {
			matched = true
			break
		}
	}
	if !matched {
		return text
	}

	return lowercasePronounRe.ReplaceAllStringFunc(text, func(m string) string {
		return pronounCaps[m]
	})
}

// validate rejects output the rules should have made impossible.
func validate(text string) error {
	if strings.Contains(text, "angel of the LORD") && strings.Contains(text, "angel of the Lord") {
		return fmt.Errorf("mixed 'angel of the LORD' and 'angel of the Lord' after enforcement")
	}
	return nil
}

// rule pairs a name (for metrics) with its rewrite function.
type rule struct {
	name  string
	apply func(string) string
}

var rules = []rule{
	{"collapse_newlines", CollapseNewlines},
	{"lord_caps", LordCaps},
	{"between_from", BetweenFrom},
	{"compound_numbers", CompoundNumbers},
	{"reverential_pronouns", ReverentialPronouns},
}

// Enforce runs every rule in order and validates the result.
func Enforce(text string) (string, error) {
	for _, r := range rules {
		out := r.apply(text)
		if out != text {
			metrics.RuleApplications.WithLabelValues(r.name).Inc()
		}
		text = out
	}
	if err := validate(text); err != nil {
		return "", err
	}
	return text, nil
}
