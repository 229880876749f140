package osis

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/inkhorn/scriptorium/canon"
	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/metrics"
)

// HebrewImporter extracts pointed Hebrew verse text from an OSHB OSIS file.
// OSHB stores verses as containers; all visible text is kept, including
// vowels and cantillation.
type HebrewImporter struct{}

// NewHebrewImporter creates an OSHB importer.
func NewHebrewImporter() *HebrewImporter {
	return &HebrewImporter{}
}

// Edition returns the importer identifier.
func (h *HebrewImporter) Edition() string {
	return "oshb"
}

// Import parses the OSIS XML and returns verses in canonical order.
func (h *HebrewImporter) Import(r io.Reader) ([]corpus.Verse, error) {
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity

	out := make(map[canon.Ref]string)

	var (
		buf    strings.Builder
		active bool
		ok     bool
		ref    canon.Ref
		depth  int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse OSHB XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "verse" && !active {
				id := attr(t, "osisID")
				if id == "" {
					id = attr(t, "osisRef")
				}
				if id == "" {
					continue
				}
				active = true
				ref, ok = canon.ParseOSISID(id)
				if !ok {
					metrics.ImportSkips.WithLabelValues(h.Edition()).Inc()
				}
				depth = 1
				buf.Reset()
				continue
			}
			if active {
				depth++
			}

		case xml.EndElement:
			if !active {
				continue
			}
			depth--
			if depth == 0 {
				if ok {
					if text := normalizeHebrew(buf.String()); text != "" {
						out[ref] = text
					}
				}
				active = false
				buf.Reset()
			}

		case xml.CharData:
			if active {
				buf.Write(t)
			}
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no verses found; check the OSIS namespace and path")
	}

	verses := make([]corpus.Verse, 0, len(out))
	for vr, text := range out {
		verses = append(verses, corpus.Verse{Ref: vr, Source: text})
	}
	sort.Slice(verses, func(i, j int) bool {
		return verses[i].Ref.Less(verses[j].Ref)
	})
	return verses, nil
}
