// Package charter loads the translation charter and enforces its lexical
// constraints. The charter document itself is opaque prompt text; only the
// mechanical constraints (forbidden archaisms, per-verse lexical locks) are
// checked in code.
package charter

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/inkhorn/scriptorium/canon"
)

// defaultForbidden lists archaic second-person and verb forms the charter
// bans from Modern Sacral English.
var defaultForbidden = []string{
	"thee", "thou", "thy", "thine", "ye",
	"hath", "doth", "saith",
}

// Charter holds the system prompt and the lexical constraints applied to
// every generated verse.
type Charter struct {
	// SystemPrompt is the full charter text sent as the system message.
	SystemPrompt string

	forbidden   []string
	forbiddenRe *regexp.Regexp
	locks       map[canon.Ref]string
}

// Option configures a Charter.
type Option func(*Charter)

// WithForbidden replaces the default forbidden-archaism list.
func WithForbidden(words []string) Option {
	return func(c *Charter) {
		c.forbidden = words
	}
}

// WithLocks replaces the default lexical locks.
func WithLocks(locks map[canon.Ref]string) Option {
	return func(c *Charter) {
		c.locks = locks
	}
}

// New creates a Charter from prompt text.
func New(systemPrompt string, opts ...Option) (*Charter, error) {
	c := &Charter{
		SystemPrompt: systemPrompt,
		forbidden:    defaultForbidden,
		locks:        DefaultLocks(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if len(c.forbidden) > 0 {
		escaped := make([]string, len(c.forbidden))
		for i, w := range c.forbidden {
			escaped[i] = regexp.QuoteMeta(strings.ToLower(w))
		}
		re, err := regexp.Compile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("compile forbidden-word pattern: %w", err)
		}
		c.forbiddenRe = re
	}

	return c, nil
}

// LoadFile creates a Charter from a prompt file.
func LoadFile(path string, opts ...Option) (*Charter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read charter: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return nil, fmt.Errorf("charter %s is empty", path)
	}
	return New(prompt, opts...)
}

// DefaultLocks returns the charter's per-verse required phrases.
func DefaultLocks() map[canon.Ref]string {
	return map[canon.Ref]string{
		{Book: "GEN", Chapter: 1, Verse: 1}:  "In the beginning",
		{Book: "GEN", Chapter: 1, Verse: 2}:  "without form",
		{Book: "GEN", Chapter: 1, Verse: 3}:  "Let there be light",
		{Book: "GEN", Chapter: 3, Verse: 15}: "Seed",
		{Book: "PHP", Chapter: 3, Verse: 8}:  "excrement",
		{Book: "REV", Chapter: 3, Verse: 16}: "spew",
	}
}

// Violation describes a charter constraint failure on one verse.
type Violation struct {
	Ref canon.Ref

	// Word is the forbidden archaism found, if any.
	Word string

	// MissingLock is the required phrase that was absent, if any.
	MissingLock string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	if v.Word != "" {
		return fmt.Sprintf("%s: forbidden archaic term %q", v.Ref, v.Word)
	}
	return fmt.Sprintf("%s: missing lexical lock %q", v.Ref, v.MissingLock)
}

// Check validates a translated verse against the charter's constraints.
// Returns a *Violation error on failure.
func (c *Charter) Check(ref canon.Ref, text string) error {
	if c.forbiddenRe != nil {
		if m := c.forbiddenRe.FindString(text); m != "" {
			return &Violation{Ref: ref, Word: strings.ToLower(m)}
		}
	}

	if required, ok := c.locks[ref]; ok {
		if !strings.Contains(text, required) {
			return &Violation{Ref: ref, MissingLock: required}
		}
	}

	return nil
}

// Lock returns the required phrase for a verse, if any.
func (c *Charter) Lock(ref canon.Ref) (string, bool) {
	phrase, ok := c.locks[ref]
	return phrase, ok
}
