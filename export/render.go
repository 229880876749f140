package export

import (
	"fmt"
	"strings"

	"github.com/inkhorn/scriptorium/canon"
	"github.com/inkhorn/scriptorium/corpus"
)

// USFMWriter accumulates a single book in USFM. Chapter markers are
// emitted automatically as verse references cross chapter boundaries.
type USFMWriter struct {
	sb             strings.Builder
	currentChapter int
}

// NewUSFMWriter creates a USFM writer and emits the book identifier.
func NewUSFMWriter(book canon.Book) *USFMWriter {
	w := &USFMWriter{}
	w.sb.WriteString(fmt.Sprintf("\\id %s\n", book))
	return w
}

// WriteVerse appends a verse, opening a new chapter when needed.
func (w *USFMWriter) WriteVerse(ref canon.Ref, text string) {
	if ref.Chapter != w.currentChapter {
		w.sb.WriteString(fmt.Sprintf("\\c %d\n", ref.Chapter))
		w.currentChapter = ref.Chapter
	}
	w.sb.WriteString(fmt.Sprintf("\\v %d %s\n", ref.Verse, text))
}

// String returns the accumulated USFM output.
func (w *USFMWriter) String() string {
	return w.sb.String()
}

// TextWriter accumulates a plain-text book with CHAPTER headings.
type TextWriter struct {
	lines          []string
	currentChapter int
}

// NewTextWriter creates a plain-text writer.
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

// WriteVerse appends a numbered verse line.
func (w *TextWriter) WriteVerse(ref canon.Ref, text string) {
	if ref.Chapter != w.currentChapter {
		w.lines = append(w.lines, fmt.Sprintf("\nCHAPTER %d\n", ref.Chapter))
		w.currentChapter = ref.Chapter
	}
	w.lines = append(w.lines, fmt.Sprintf("%d %s", ref.Verse, text))
}

// String returns the accumulated text output.
func (w *TextWriter) String() string {
	return strings.TrimSpace(strings.Join(w.lines, "\n")) + "\n"
}

// MarkdownWriter accumulates a Markdown book with chapter sections.
type MarkdownWriter struct {
	lines          []string
	currentChapter int
}

// NewMarkdownWriter creates a Markdown writer with an optional title.
func NewMarkdownWriter(title string) *MarkdownWriter {
	w := &MarkdownWriter{}
	if title != "" {
		w.lines = append(w.lines, fmt.Sprintf("# %s\n", title))
	}
	return w
}

// WriteVerse appends a bold-numbered verse line.
func (w *MarkdownWriter) WriteVerse(ref canon.Ref, text string) {
	if ref.Chapter != w.currentChapter {
		w.lines = append(w.lines, fmt.Sprintf("\n## Chapter %d\n", ref.Chapter))
		w.currentChapter = ref.Chapter
	}
	w.lines = append(w.lines, fmt.Sprintf("**%d** %s", ref.Verse, text))
}

// String returns the accumulated Markdown output.
func (w *MarkdownWriter) String() string {
	return strings.TrimSpace(strings.Join(w.lines, "\n")) + "\n"
}

// booksOf splits translated verses by book, preserving canonical order
// within each book. Verses without a translation are skipped.
func booksOf(c *corpus.Corpus) ([]canon.Book, map[canon.Book][]corpus.Verse) {
	var order []canon.Book
	byBook := make(map[canon.Book][]corpus.Verse)

	for _, v := range c.Verses() {
		if v.Translation == "" {
			continue
		}
		if _, ok := byBook[v.Ref.Book]; !ok {
			order = append(order, v.Ref.Book)
		}
		byBook[v.Ref.Book] = append(byBook[v.Ref.Book], v)
	}

	return order, byBook
}

// RenderBook renders one book's verses in the given format. The verses
// must already be in canonical order.
func RenderBook(book canon.Book, verses []corpus.Verse, format Format, title string) (string, error) {
	switch format {
	case FormatUSFM:
		w := NewUSFMWriter(book)
		for _, v := range verses {
			w.WriteVerse(v.Ref, v.Translation)
		}
		return w.String(), nil

	case FormatText:
		w := NewTextWriter()
		for _, v := range verses {
			w.WriteVerse(v.Ref, v.Translation)
		}
		return w.String(), nil

	case FormatMarkdown:
		w := NewMarkdownWriter(title)
		for _, v := range verses {
			w.WriteVerse(v.Ref, v.Translation)
		}
		return w.String(), nil

	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

// Render renders every translated book in the corpus, keyed by book code.
func Render(c *corpus.Corpus, format Format, title string) (map[canon.Book]string, error) {
	order, byBook := booksOf(c)

	out := make(map[canon.Book]string, len(order))
	for _, book := range order {
		doc, err := RenderBook(book, byBook[book], format, title)
		if err != nil {
			return nil, err
		}
		out[book] = doc
	}
	return out, nil
}
