package canon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Ref identifies a single verse.
type Ref struct {
	Book    Book
	Chapter int
	Verse   int
}

var refRe = regexp.MustCompile(`^([A-Z0-9]{3})\s+(\d+):(\d+)$`)

// ParseRef parses a reference of the form "GEN 1:1".
// Book aliases (PHI for PHP) are accepted and normalized.
func ParseRef(s string) (Ref, error) {
	m := refRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Ref{}, fmt.Errorf("malformed verse reference %q", s)
	}

	book, ok := NormalizeBook(m[1])
	if !ok {
		return Ref{}, fmt.Errorf("unknown book code %q in reference %q", m[1], s)
	}

	chapter, err := strconv.Atoi(m[2])
	if err != nil {
		return Ref{}, fmt.Errorf("parse chapter in %q: %w", s, err)
	}
	verse, err := strconv.Atoi(m[3])
	if err != nil {
		return Ref{}, fmt.Errorf("parse verse in %q: %w", s, err)
	}
	if chapter < 1 || verse < 1 {
		return Ref{}, fmt.Errorf("chapter and verse must be positive in %q", s)
	}

	return Ref{Book: book, Chapter: chapter, Verse: verse}, nil
}

// ParseOSISID parses an OSIS verse identifier such as "Gen.1.1" or "1Sam.17.4".
// Returns false for identifiers outside the canon or with non-numeric parts.
func ParseOSISID(osisID string) (Ref, bool) {
	parts := strings.Split(osisID, ".")
	if len(parts) < 3 {
		return Ref{}, false
	}

	book, ok := BookFromOSIS(parts[0])
	if !ok {
		return Ref{}, false
	}
	chapter, err := strconv.Atoi(parts[1])
	if err != nil {
		return Ref{}, false
	}
	verse, err := strconv.Atoi(parts[2])
	if err != nil {
		return Ref{}, false
	}

	return Ref{Book: book, Chapter: chapter, Verse: verse}, true
}

// String renders the reference as "GEN 1:1".
func (r Ref) String() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool {
	return r.Book == "" && r.Chapter == 0 && r.Verse == 0
}

// Compare orders references canonically: book order, then chapter, then verse.
// Returns -1, 0, or 1.
func (r Ref) Compare(other Ref) int {
	if d := r.Book.Order() - other.Book.Order(); d != 0 {
		return sign(d)
	}
	if d := r.Chapter - other.Chapter; d != 0 {
		return sign(d)
	}
	return sign(r.Verse - other.Verse)
}

// Less reports whether r sorts before other in canonical order.
func (r Ref) Less(other Ref) bool {
	return r.Compare(other) < 0
}

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler so refs serialize as "GEN 1:1".
func (r Ref) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Ref) UnmarshalText(text []byte) error {
	parsed, err := ParseRef(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
