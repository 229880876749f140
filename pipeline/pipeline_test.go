package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhorn/scriptorium/canon"
	"github.com/inkhorn/scriptorium/charter"
	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/llm"
)

// fakeCompleter returns canned responses keyed by the REFERENCE line of
// the user prompt.
type fakeCompleter struct {
	mu        sync.Mutex
	responses map[string]string
	calls     []string
	err       error
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	var ref string
	for _, msg := range req.Messages {
		if msg.Role != "user" {
			continue
		}
		for _, line := range strings.Split(msg.Content, "\n") {
			if after, ok := strings.CutPrefix(line, "REFERENCE: "); ok {
				ref = after
			}
		}
	}
	f.calls = append(f.calls, ref)

	content, ok := f.responses[ref]
	if !ok {
		return nil, fmt.Errorf("no canned response for %q", ref)
	}
	return &llm.Response{Content: content, Model: "fake"}, nil
}

func mustRef(t *testing.T, s string) canon.Ref {
	t.Helper()
	ref, err := canon.ParseRef(s)
	require.NoError(t, err)
	return ref
}

func testCharter(t *testing.T) *charter.Charter {
	t.Helper()
	ch, err := charter.New("Render the text in Modern Sacral English.")
	require.NoError(t, err)
	return ch
}

func TestTranslate(t *testing.T) {
	c := corpus.New([]corpus.Verse{
		{Ref: mustRef(t, "GEN 1:1"), Source: "בראשית ברא אלהים"},
		{Ref: mustRef(t, "GEN 1:2"), Source: "והארץ היתה תהו"},
		{Ref: mustRef(t, "GEN 1:4"), Source: "וירא אלהים", Translation: "already done"},
		{Ref: mustRef(t, "GEN 1:5")}, // no source text
	})

	fake := &fakeCompleter{responses: map[string]string{
		"GEN 1:1": "In the beginning God created the heavens and the earth.\n",
		"GEN 1:2": "And the earth was without form, and void.",
	}}

	tr := NewTranslator(fake, testCharter(t), WithConcurrency(2))
	stats, err := tr.Translate(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Translated)
	assert.Equal(t, 2, stats.Skipped)

	v, ok := c.Get(mustRef(t, "GEN 1:1"))
	require.True(t, ok)
	assert.Equal(t, "In the beginning God created the heavens and the earth.", v.Translation)

	// The already-translated verse was not re-sent.
	assert.NotContains(t, fake.calls, "GEN 1:4")
}

func TestTranslate_ForbiddenArchaismFailsRun(t *testing.T) {
	c := corpus.New([]corpus.Verse{
		{Ref: mustRef(t, "EXO 3:5"), Source: "source"},
	})

	fake := &fakeCompleter{responses: map[string]string{
		"EXO 3:5": "Put off thy shoes from off thy feet.",
	}}

	tr := NewTranslator(fake, testCharter(t))
	_, err := tr.Translate(context.Background(), c)
	require.Error(t, err)

	var violation *charter.Violation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "thy", violation.Word)

	// Failed output is not written back.
	v, _ := c.Get(mustRef(t, "EXO 3:5"))
	assert.Empty(t, v.Translation)
}

func TestTranslate_MissingLockFailsRun(t *testing.T) {
	c := corpus.New([]corpus.Verse{
		{Ref: mustRef(t, "GEN 1:1"), Source: "source"},
	})

	fake := &fakeCompleter{responses: map[string]string{
		"GEN 1:1": "At the first God created the heavens and the earth.",
	}}

	tr := NewTranslator(fake, testCharter(t))
	_, err := tr.Translate(context.Background(), c)
	require.Error(t, err)

	var violation *charter.Violation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "In the beginning", violation.MissingLock)
}

func TestSimilarityGuard(t *testing.T) {
	long := strings.Repeat("word ", 10) // 50 chars

	tests := []struct {
		name     string
		original string
		revised  string
		ok       bool
		reason   string
	}{
		{"accepted", long, long + "more", true, "ok"},
		{"empty", long, "   ", false, "empty_output"},
		{"heading", long, "# Chapter One", false, "commentary_or_heading"},
		{"note prefix", long, "Note: this verse is tricky", false, "commentary_or_heading"},
		{"translator prefix", long, "Translator's remark on the verse", false, "commentary_or_heading"},
		{"verse number", long, "12 And God said", false, "added_verse_number"},
		{"too short", long, "tiny", false, "too_short"},
		{"too long", long, strings.Repeat(long, 3), false, "too_long"},
		{"short original exempt from ratio", "brief text", "a much much much longer revision", true, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := similarityGuard(tt.original, tt.revised)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestPolish(t *testing.T) {
	original := "And God said that the light was good, and he divided the light from the darkness."
	c := corpus.New([]corpus.Verse{
		{Ref: mustRef(t, "GEN 1:4"), Translation: original},
		{Ref: mustRef(t, "GEN 1:5"), Translation: "And God called the light Day."},
	})

	fake := &fakeCompleter{responses: map[string]string{
		"GEN 1:4": "And God saw that the light was good, and He divided the light from the darkness.",
	}}

	p := NewPolisher(fake, testCharter(t))
	stats, err := p.Polish(context.Background(), c, map[canon.Ref]bool{
		mustRef(t, "GEN 1:4"): true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Targets)
	assert.Equal(t, 1, stats.Changed)
	assert.Equal(t, 0, stats.Blocked)

	v, _ := c.Get(mustRef(t, "GEN 1:4"))
	assert.Contains(t, v.Translation, "God saw")

	// Untargeted verse was not sent to the model.
	assert.NotContains(t, fake.calls, "GEN 1:5")
}

func TestPolish_GuardBlocksKeepOriginal(t *testing.T) {
	original := "And God made the firmament, and divided the waters which were under the firmament."
	c := corpus.New([]corpus.Verse{
		{Ref: mustRef(t, "GEN 1:7"), Translation: original},
	})

	fake := &fakeCompleter{responses: map[string]string{
		"GEN 1:7": "Note: this verse describes the firmament.",
	}}

	p := NewPolisher(fake, testCharter(t))
	stats, err := p.Polish(context.Background(), c, map[canon.Ref]bool{
		mustRef(t, "GEN 1:7"): true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Changed)
	assert.Equal(t, 1, stats.Blocked)

	v, _ := c.Get(mustRef(t, "GEN 1:7"))
	assert.Equal(t, original, v.Translation)
}

func TestPolish_Enforcement(t *testing.T) {
	c := corpus.New([]corpus.Verse{
		{Ref: mustRef(t, "GEN 2:4"), Translation: "These are the generations, in the day that the Lord God made the earth."},
	})

	// No targets: only enforcement runs.
	p := NewPolisher(&fakeCompleter{}, testCharter(t), WithEnforcement(true))
	stats, err := p.Polish(context.Background(), c, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Enforced)

	v, _ := c.Get(mustRef(t, "GEN 2:4"))
	assert.Contains(t, v.Translation, "LORD God")
}

func TestLoadTargets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.jsonl")
	content := `{"ref": "GEN 1:1"}

{"ref": "GEN 1:3"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	targets, err := LoadTargets(path)
	require.NoError(t, err)

	assert.Len(t, targets, 2)
	assert.True(t, targets[mustRef(t, "GEN 1:1")])
	assert.True(t, targets[mustRef(t, "GEN 1:3")])
}

func TestLoadTargets_MissingRef(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"reason": "x"}`+"\n"), 0644))

	_, err := LoadTargets(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing ref")
}
