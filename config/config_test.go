package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "charter.md", cfg.Charter.Path)
	assert.Equal(t, "corpus", cfg.Corpus.Dir)
	assert.Equal(t, 0.2, cfg.Model.Temperature)
	assert.Equal(t, 4, cfg.Pipeline.Concurrency)
	assert.True(t, cfg.Pipeline.Enforce)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing charter", func(c *Config) { c.Charter.Path = "" }, "charter.path"},
		{"missing corpus dir", func(c *Config) { c.Corpus.Dir = "" }, "corpus.dir"},
		{"temperature too high", func(c *Config) { c.Model.Temperature = 1.5 }, "temperature"},
		{"zero concurrency", func(c *Config) { c.Pipeline.Concurrency = 0 }, "concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scriptorium.yaml")

	content := `
charter:
  path: prompts/charter.md
corpus:
  dir: data
  working: wip.jsonl
model:
  temperature: 0.1
  timeout: 2m
pipeline:
  concurrency: 8
export:
  formats: [usfm]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "prompts/charter.md", cfg.Charter.Path)
	assert.Equal(t, "data", cfg.Corpus.Dir)
	assert.Equal(t, "wip.jsonl", cfg.Corpus.Working)
	assert.Equal(t, 0.1, cfg.Model.Temperature)
	assert.Equal(t, 2*time.Minute, cfg.Model.Timeout)
	assert.Equal(t, 8, cfg.Pipeline.Concurrency)
	assert.Equal(t, []string{"usfm"}, cfg.Export.Formats)

	// Unspecified fields keep their defaults.
	assert.Equal(t, "dist", cfg.Export.Dir)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Merge(&Config{
		Charter:  CharterConfig{Path: "other.md"},
		Model:    ModelConfig{Temperature: 0.5},
		Pipeline: PipelineConfig{Concurrency: 16},
	})

	assert.Equal(t, "other.md", base.Charter.Path)
	assert.Equal(t, 0.5, base.Model.Temperature)
	assert.Equal(t, 16, base.Pipeline.Concurrency)

	// Zero values in the overlay leave the base untouched.
	assert.Equal(t, "corpus", base.Corpus.Dir)
	assert.Equal(t, 5*time.Minute, base.Model.Timeout)

	base.Merge(nil) // must not panic
	assert.Equal(t, "other.md", base.Charter.Path)
}

func TestWorkingPath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("corpus", "working.jsonl"), cfg.WorkingPath())

	cfg.Corpus.Working = "/abs/working.jsonl"
	assert.Equal(t, "/abs/working.jsonl", cfg.WorkingPath())
}

func TestAnchorTo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.Registry = "models.json"
	cfg.anchorTo("/proj")

	assert.Equal(t, filepath.Join("/proj", "charter.md"), cfg.Charter.Path)
	assert.Equal(t, filepath.Join("/proj", "corpus"), cfg.Corpus.Dir)
	assert.Equal(t, filepath.Join("/proj", "models.json"), cfg.Model.Registry)
	assert.Equal(t, filepath.Join("/proj", "dist"), cfg.Export.Dir)

	// Absolute paths are left alone.
	cfg2 := DefaultConfig()
	cfg2.Charter.Path = "/etc/charter.md"
	cfg2.anchorTo("/proj")
	assert.Equal(t, "/etc/charter.md", cfg2.Charter.Path)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Pipeline.Concurrency = 12
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Pipeline.Concurrency)
}
