package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxLineSize bounds a single JSONL line. The longest verse in the corpus is
// well under 1KB; 1MB leaves room for pathological inputs without letting a
// corrupt file exhaust memory.
const maxLineSize = 1 << 20

// ReadJSONL decodes verse records from r, one JSON object per line.
// Blank lines are skipped. Errors carry the 1-based line number.
func ReadJSONL(r io.Reader) ([]Verse, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var verses []Verse
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var v Verse
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if v.Ref.IsZero() {
			return nil, fmt.Errorf("line %d: missing ref", lineNo)
		}
		verses = append(verses, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo, err)
	}

	return verses, nil
}

// WriteJSONL encodes verses to w, one JSON object per line.
// The caller controls ordering; LoadFile/SaveFile use canonical order.
func WriteJSONL(w io.Writer, verses []Verse) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for _, v := range verses {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode %s: %w", v.Ref, err)
		}
	}
	return bw.Flush()
}

// LoadFile reads a JSONL corpus file.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	verses, err := ReadJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return New(verses), nil
}

// SaveFile writes the corpus to path in canonical order. The write is
// atomic: content goes to a temp file in the same directory, then renames
// over the target.
func SaveFile(path string, c *Corpus) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create corpus directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := WriteJSONL(tmp, c.Verses()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
