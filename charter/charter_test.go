package charter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhorn/scriptorium/canon"
)

func mustRef(t *testing.T, s string) canon.Ref {
	t.Helper()
	r, err := canon.ParseRef(s)
	require.NoError(t, err)
	return r
}

func TestCheck_ForbiddenArchaisms(t *testing.T) {
	c, err := New("charter text")
	require.NoError(t, err)

	ref := mustRef(t, "PSA 23:1")

	tests := []struct {
		name string
		text string
		word string
	}{
		{"clean", "The LORD is my shepherd; I shall not want.", ""},
		{"thou", "Thou preparest a table before me.", "thou"},
		{"hath", "He hath made everything beautiful.", "hath"},
		{"case insensitive", "And God SAITH to him.", "saith"},
		{"word boundary", "These are the generations.", ""}, // "thee" inside "These" does not count
		{"ye", "Hear, O ye people.", "ye"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Check(ref, tt.text)
			if tt.word == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			viol, ok := err.(*Violation)
			require.True(t, ok)
			assert.Equal(t, tt.word, viol.Word)
			assert.Equal(t, ref, viol.Ref)
		})
	}
}

func TestCheck_LexicalLocks(t *testing.T) {
	c, err := New("charter text")
	require.NoError(t, err)

	gen11 := mustRef(t, "GEN 1:1")
	assert.NoError(t, c.Check(gen11, "In the beginning God created the heavens and the earth."))

	err = c.Check(gen11, "At the first, God created the heavens and the earth.")
	require.Error(t, err)
	viol := err.(*Violation)
	assert.Equal(t, "In the beginning", viol.MissingLock)

	// Locks are case-sensitive: GEN 3:15 requires capitalized "Seed".
	gen315 := mustRef(t, "GEN 3:15")
	assert.Error(t, c.Check(gen315, "between your seed and her seed"))
	assert.NoError(t, c.Check(gen315, "between your seed and her Seed"))

	// Unlocked verses only face the archaism check.
	assert.NoError(t, c.Check(mustRef(t, "GEN 2:1"), "Thus the heavens and the earth were finished."))
}

func TestCheck_CustomConstraints(t *testing.T) {
	locks := map[canon.Ref]string{
		mustRef(t, "JHN 1:1"): "the Word",
	}
	c, err := New("charter", WithForbidden([]string{"verily"}), WithLocks(locks))
	require.NoError(t, err)

	assert.Error(t, c.Check(mustRef(t, "JHN 1:51"), "Verily, verily, I say to you."))
	assert.NoError(t, c.Check(mustRef(t, "GEN 1:1"), "At the first God created."))
	assert.Error(t, c.Check(mustRef(t, "JHN 1:1"), "In the beginning was the Logos."))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system_prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("Translate into Modern Sacral English.\n"), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Translate into Modern Sacral English.", c.SystemPrompt)

	_, err = LoadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o644))
	_, err = LoadFile(empty)
	assert.Error(t, err)
}

func TestLock(t *testing.T) {
	c, err := New("charter")
	require.NoError(t, err)

	phrase, ok := c.Lock(mustRef(t, "REV 3:16"))
	assert.True(t, ok)
	assert.Equal(t, "spew", phrase)

	_, ok = c.Lock(mustRef(t, "REV 3:17"))
	assert.False(t, ok)
}

func TestViolationError(t *testing.T) {
	v := &Violation{Ref: mustRef(t, "GEN 1:1"), Word: "thou"}
	assert.Contains(t, v.Error(), "GEN 1:1")
	assert.Contains(t, v.Error(), "thou")

	v = &Violation{Ref: mustRef(t, "GEN 1:1"), MissingLock: "In the beginning"}
	assert.Contains(t, v.Error(), "lexical lock")
}
