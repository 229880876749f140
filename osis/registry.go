// Package osis imports verse text from OSIS XML editions.
// Two importers are registered by default: "kjv" for the King James text
// (container and milestone verses) and "oshb" for the Open Scriptures
// Hebrew Bible (container verses, pointed Hebrew).
package osis

import (
	"fmt"
	"io"
	"sync"

	"github.com/inkhorn/scriptorium/corpus"
)

// Importer reads one OSIS edition into verse records.
type Importer interface {
	// Edition returns the importer identifier (e.g. "kjv", "oshb").
	Edition() string

	// Import parses OSIS XML and returns the verses found.
	Import(r io.Reader) ([]corpus.Verse, error)
}

// Registry manages edition importers.
type Registry struct {
	mu        sync.RWMutex
	importers map[string]Importer
}

// DefaultRegistry is the global importer registry with default importers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the default importers registered.
func NewRegistry() *Registry {
	r := &Registry{
		importers: make(map[string]Importer),
	}
	r.Register(NewKJVImporter())
	r.Register(NewHebrewImporter())
	return r
}

// Register adds an importer to the registry.
func (r *Registry) Register(imp Importer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.importers[imp.Edition()] = imp
}

// Get returns the importer for an edition, or nil.
func (r *Registry) Get(edition string) Importer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.importers[edition]
}

// Import parses OSIS XML using the named edition's importer.
func (r *Registry) Import(edition string, reader io.Reader) ([]corpus.Verse, error) {
	imp := r.Get(edition)
	if imp == nil {
		return nil, fmt.Errorf("no importer for edition %q (have %v)", edition, r.Editions())
	}
	return imp.Import(reader)
}

// Editions returns all registered edition names.
func (r *Registry) Editions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.importers))
	for name := range r.importers {
		names = append(names, name)
	}
	return names
}
