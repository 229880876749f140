package review

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkhorn/scriptorium/canon"
	"github.com/inkhorn/scriptorium/corpus"
)

// worksheetHeader is the column layout of the review CSV. The decision
// column is left empty for the reviewer to fill in.
var worksheetHeader = []string{"decision", "ref", "confidence", "kind", "reason", "original", "suggested"}

// WriteWorksheet writes suggestions as a review CSV.
func WriteWorksheet(w io.Writer, suggestions []Suggestion) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(worksheetHeader); err != nil {
		return fmt.Errorf("write worksheet header: %w", err)
	}

	for _, s := range suggestions {
		row := []string{
			"",
			s.Ref.String(),
			fmt.Sprintf("%.2f", s.Confidence),
			s.Kind,
			s.Reason,
			s.Original,
			s.Suggested,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write worksheet row %s: %w", s.Ref, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveWorksheet writes suggestions to a CSV file.
func SaveWorksheet(path string, suggestions []Suggestion) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create worksheet directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create worksheet: %w", err)
	}
	defer f.Close()

	if err := WriteWorksheet(f, suggestions); err != nil {
		return err
	}
	return f.Close()
}

// ReadApproved reads a reviewed worksheet and returns the approved verse
// texts by reference. Only rows whose decision is APPROVE count; when a
// reference has several approved rows the last one wins.
func ReadApproved(r io.Reader) (map[canon.Ref]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read worksheet header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"decision", "ref", "original", "suggested"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("worksheet missing column %q", required)
		}
	}

	approved := make(map[canon.Ref]string)

	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read worksheet: %w", err)
		}
		line++

		field := func(name string) string {
			i := cols[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		decision := strings.ToUpper(strings.TrimSpace(field("decision")))
		if decision != "APPROVE" {
			continue
		}

		refStr := strings.TrimSpace(field("ref"))
		if refStr == "" {
			continue
		}
		ref, err := canon.ParseRef(refStr)
		if err != nil {
			return nil, fmt.Errorf("worksheet line %d: %w", line, err)
		}

		approved[ref] = field("suggested")
	}

	return approved, nil
}

// LoadApproved reads approved edits from a worksheet file.
func LoadApproved(path string) (map[canon.Ref]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open worksheet: %w", err)
	}
	defer f.Close()
	return ReadApproved(f)
}

// ApplyStats summarizes an apply run.
type ApplyStats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Changed  int `json:"changed"`
}

// Apply replaces verse translations with their approved texts. Verses
// without an approved row, and approved texts identical to the current
// translation, are left alone.
func Apply(c *corpus.Corpus, approved map[canon.Ref]string) ApplyStats {
	stats := ApplyStats{
		Total:    c.Len(),
		Approved: len(approved),
	}

	for _, v := range c.Verses() {
		after, ok := approved[v.Ref]
		if !ok || v.Translation == after {
			continue
		}
		v.Translation = after
		c.Put(v)
		stats.Changed++
	}

	return stats
}
