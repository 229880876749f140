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

// KJVImporter extracts English verse text from a KJV OSIS file.
// It handles both container verses (<verse osisID="Ps.23.1">...</verse>)
// and milestone verses delimited by sID/eID pairs. Note subtrees are
// excluded from verse text.
type KJVImporter struct{}

// NewKJVImporter creates a KJV OSIS importer.
func NewKJVImporter() *KJVImporter {
	return &KJVImporter{}
}

// Edition returns the importer identifier.
func (k *KJVImporter) Edition() string {
	return "kjv"
}

// Import parses the OSIS XML and returns verses in canonical order.
// Verses whose osisID falls outside the 66-book canon are skipped.
func (k *KJVImporter) Import(r io.Reader) ([]corpus.Verse, error) {
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity

	out := make(map[canon.Ref]string)

	var (
		buf strings.Builder

		// Container verse state.
		containerActive bool
		containerRef    canon.Ref
		containerOK     bool
		containerDepth  int

		// Milestone verse state.
		milestoneID     string
		milestoneRef    canon.Ref
		milestoneOK     bool
		milestoneActive bool

		noteDepth int
	)

	flushMilestone := func() {
		if milestoneActive && milestoneOK {
			if text := normalizeEnglish(buf.String()); text != "" {
				out[milestoneRef] = text
			}
		}
		milestoneActive = false
		milestoneID = ""
		milestoneOK = false
		buf.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse OSIS XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := t.Name.Local

			if local == "note" {
				noteDepth++
				if containerActive {
					containerDepth++
				}
				continue
			}

			if local == "verse" {
				osisID := attr(t, "osisID")
				sID := attr(t, "sID")
				eID := attr(t, "eID")

				switch {
				case sID != "":
					flushMilestone()
					milestoneActive = true
					milestoneID = sID
					milestoneRef, milestoneOK = canon.ParseOSISID(sID)
					if !milestoneOK {
						metrics.ImportSkips.WithLabelValues(k.Edition()).Inc()
					}
				case eID != "":
					if milestoneActive && eID == milestoneID {
						flushMilestone()
					}
				case osisID != "":
					containerActive = true
					containerRef, containerOK = canon.ParseOSISID(osisID)
					if !containerOK {
						metrics.ImportSkips.WithLabelValues(k.Edition()).Inc()
					}
					containerDepth = 1
					buf.Reset()
				}
				continue
			}

			if containerActive {
				containerDepth++
			}

		case xml.EndElement:
			if t.Name.Local == "note" {
				if noteDepth > 0 {
					noteDepth--
				}
				if containerActive {
					containerDepth--
				}
				continue
			}

			if containerActive {
				containerDepth--
				if containerDepth == 0 {
					if containerOK {
						if text := normalizeEnglish(buf.String()); text != "" {
							out[containerRef] = text
						}
					}
					containerActive = false
					buf.Reset()
				}
			}

		case xml.CharData:
			if noteDepth > 0 {
				continue
			}
			if containerActive || milestoneActive {
				buf.Write(t)
			}
		}
	}

	// Flush in case the file ends inside an open milestone.
	flushMilestone()

	if len(out) == 0 {
		return nil, fmt.Errorf("no verses found; not an OSIS KJV file?")
	}

	verses := make([]corpus.Verse, 0, len(out))
	for ref, text := range out {
		verses = append(verses, corpus.Verse{Ref: ref, KJV: text})
	}
	sort.Slice(verses, func(i, j int) bool {
		return verses[i].Ref.Less(verses[j].Ref)
	})
	return verses, nil
}

// attr returns the value of a (namespace-agnostic) attribute.
func attr(e xml.StartElement, name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
