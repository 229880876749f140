package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "kjv"), 0755))
	for _, name := range []string{"kjv/gen.xml", "kjv/exo.xml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	// Literal path passes through untouched, even if it does not exist.
	paths, err := expandGlobs([]string{filepath.Join(dir, "kjv", "gen.xml")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "kjv", "gen.xml")}, paths)

	// Doublestar glob finds nested XML only.
	paths, err = expandGlobs([]string{filepath.Join(dir, "**", "*.xml")})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	for _, p := range paths {
		assert.Equal(t, ".xml", filepath.Ext(p))
	}

	// Duplicates collapse.
	paths, err = expandGlobs([]string{
		filepath.Join(dir, "kjv", "gen.xml"),
		filepath.Join(dir, "kjv", "gen.xml"),
	})
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestRootCommandWiring(t *testing.T) {
	cmd := rootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"import", "translate", "polish", "pronouns", "suggest", "apply", "render", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}
