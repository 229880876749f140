// Package corpus provides verse records and the JSONL files the pipeline
// passes between phases. Every phase reads and writes the same line format:
// one JSON object per line keyed by a verse reference.
package corpus

import (
	"sort"

	"github.com/inkhorn/scriptorium/canon"
)

// Verse is a single verse record. Which fields are populated depends on the
// pipeline stage: imports carry Source or KJV, translation output carries
// Translation.
type Verse struct {
	Ref canon.Ref `json:"ref"`

	// Source is the original-language text (Hebrew for the OT).
	Source string `json:"source,omitempty"`

	// KJV is the King James rendering, used to gate pronoun capitalization.
	KJV string `json:"kjv,omitempty"`

	// Translation is the Modern Sacral English rendering.
	Translation string `json:"translation,omitempty"`
}

// Corpus is an ordered collection of verses with reference lookup.
type Corpus struct {
	verses []Verse
	byRef  map[canon.Ref]int
}

// New creates a Corpus from verses. Later duplicates replace earlier ones.
func New(verses []Verse) *Corpus {
	c := &Corpus{
		byRef: make(map[canon.Ref]int, len(verses)),
	}
	for _, v := range verses {
		c.Put(v)
	}
	return c
}

// Put inserts or replaces the verse for its reference.
func (c *Corpus) Put(v Verse) {
	if i, ok := c.byRef[v.Ref]; ok {
		c.verses[i] = v
		return
	}
	c.byRef[v.Ref] = len(c.verses)
	c.verses = append(c.verses, v)
}

// Get returns the verse for a reference.
func (c *Corpus) Get(ref canon.Ref) (Verse, bool) {
	i, ok := c.byRef[ref]
	if !ok {
		return Verse{}, false
	}
	return c.verses[i], true
}

// Len returns the number of verses.
func (c *Corpus) Len() int {
	return len(c.verses)
}

// Verses returns all verses in canonical order.
func (c *Corpus) Verses() []Verse {
	out := make([]Verse, len(c.verses))
	copy(out, c.verses)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ref.Less(out[j].Ref)
	})
	return out
}

// Refs returns all references in canonical order.
func (c *Corpus) Refs() []canon.Ref {
	verses := c.Verses()
	refs := make([]canon.Ref, len(verses))
	for i, v := range verses {
		refs[i] = v.Ref
	}
	return refs
}
