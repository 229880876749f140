package style

import (
	"regexp"

	"github.com/inkhorn/scriptorium/canon"
	"github.com/inkhorn/scriptorium/corpus"
)

// Classification describes how a KJV verse uses third-person masculine
// pronouns. The KJV's own capitalization is the authority for whether a
// pronoun is divine or human in a given verse.
type Classification string

const (
	ClassDivineOnly Classification = "divine_only"
	ClassHumanOnly  Classification = "human_only"
	ClassMixed      Classification = "mixed"
	ClassNone       Classification = "none"
)

var divineCapRe = regexp.MustCompile(`\b(He|Him|His|Himself)\b`)

var pronounLower = map[string]string{
	"He": "he", "Him": "him", "His": "his", "Himself": "himself",
}

// ClassifyKJV inspects a KJV verse's pronoun capitalization.
func ClassifyKJV(text string) Classification {
	hasDivine := divineCapRe.MatchString(text)
	hasHuman := lowercasePronounRe.MatchString(text)
	switch {
	case hasDivine && hasHuman:
		return ClassMixed
	case hasDivine:
		return ClassDivineOnly
	case hasHuman:
		return ClassHumanOnly
	default:
		return ClassNone
	}
}

// CapitalizePronouns uppercases every masculine pronoun in the verse.
func CapitalizePronouns(text string) string {
	return lowercasePronounRe.ReplaceAllStringFunc(text, func(m string) string {
		return pronounCaps[m]
	})
}

// LowercasePronouns lowercases every capitalized masculine pronoun.
func LowercasePronouns(text string) string {
	return divineCapRe.ReplaceAllStringFunc(text, func(m string) string {
		return pronounLower[m]
	})
}

// PronounStats summarizes a pronoun pass over a corpus.
type PronounStats struct {
	Total      int `json:"total"`
	Changed    int `json:"changed"`
	MissingKJV int `json:"missing_kjv"`
	Classified struct {
		DivineOnly int `json:"divine_only"`
		HumanOnly  int `json:"human_only"`
		Mixed      int `json:"mixed"`
		None       int `json:"none"`
	} `json:"classified"`
	ReviewTargets int `json:"review_targets"`
}

// ReviewTarget names a verse that needs human judgment.
type ReviewTarget struct {
	Ref    canon.Ref `json:"ref"`
	Reason string    `json:"reason"`
}

// PronounPass adjusts pronoun capitalization in every translated verse,
// gated on the KJV rendering of the same verse. Mixed verses are never
// touched automatically; they come back as review targets instead. The
// corpus is modified in place.
func PronounPass(c *corpus.Corpus) ([]ReviewTarget, PronounStats) {
	var stats PronounStats
	var review []ReviewTarget

	for _, v := range c.Verses() {
		stats.Total++

		if v.KJV == "" {
			stats.MissingKJV++
			continue
		}

		text := v.Translation
		newText := text

		switch ClassifyKJV(v.KJV) {
		case ClassDivineOnly:
			stats.Classified.DivineOnly++
			newText = CapitalizePronouns(text)
		case ClassHumanOnly:
			stats.Classified.HumanOnly++
			newText = LowercasePronouns(text)
		case ClassMixed:
			stats.Classified.Mixed++
			review = append(review, ReviewTarget{Ref: v.Ref, Reason: "mixed_pronouns_in_kjv"})
		case ClassNone:
			stats.Classified.None++
		}

		if newText != text {
			stats.Changed++
			v.Translation = newText
			c.Put(v)
		}
	}

	stats.ReviewTargets = len(review)
	return review, stats
}
