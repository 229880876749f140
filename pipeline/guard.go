package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Guard block reasons, used as metric labels and in log lines.
const (
	guardOK          = "ok"
	guardEmptyOutput = "empty_output"
	guardCommentary  = "commentary_or_heading"
	guardVerseNumber = "added_verse_number"
	guardTooShort    = "too_short"
	guardTooLong     = "too_long"
)

// Length drift bounds for the similarity guard. Short verses are exempt
// since a few words of legitimate rephrasing swings their ratio wildly.
const (
	guardMinLength = 20
	guardMinRatio  = 0.60
	guardMaxRatio  = 1.60
)

var (
	guardSpaceRe       = regexp.MustCompile(`\s+`)
	guardVerseNumberRe = regexp.MustCompile(`^\d+\s`)
)

// commentaryPrefixes catch the model explaining itself instead of revising.
var commentaryPrefixes = []string{"note:", "commentary:", "explanation:", "translator"}

func guardNormalize(s string) string {
	return strings.TrimSpace(guardSpaceRe.ReplaceAllString(s, " "))
}

// similarityGuard decides whether a revised verse is an acceptable
// replacement for the original. It rejects output that is empty, looks
// like commentary, gained a verse number, or drifted too far in length.
func similarityGuard(original, revised string) (bool, string) {
	o := guardNormalize(original)
	r := guardNormalize(revised)

	if r == "" {
		return false, guardEmptyOutput
	}

	lower := strings.ToLower(r)
	if strings.HasPrefix(r, "#") {
		return false, guardCommentary
	}
	for _, prefix := range commentaryPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false, guardCommentary
		}
	}

	if guardVerseNumberRe.MatchString(r) {
		return false, guardVerseNumber
	}

	oLen := utf8.RuneCountInString(o)
	if oLen >= guardMinLength {
		ratio := float64(utf8.RuneCountInString(r)) / float64(oLen)
		if ratio < guardMinRatio {
			return false, guardTooShort
		}
		if ratio > guardMaxRatio {
			return false, guardTooLong
		}
	}

	return true, guardOK
}
