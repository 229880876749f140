// Package config provides configuration loading and management for Scriptorium.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Scriptorium configuration
type Config struct {
	Charter  CharterConfig  `yaml:"charter"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Model    ModelConfig    `yaml:"model"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Export   ExportConfig   `yaml:"export"`
}

// CharterConfig locates the translation charter
type CharterConfig struct {
	// Path is the charter file sent verbatim as the system prompt
	Path string `yaml:"path"`
}

// CorpusConfig configures corpus file locations
type CorpusConfig struct {
	// Dir is the directory holding corpus JSONL files
	Dir string `yaml:"dir"`
	// Working is the working translation file, relative to Dir if not absolute
	Working string `yaml:"working"`
}

// ModelConfig configures the LLM model settings
type ModelConfig struct {
	// Registry is the path to a model registry JSON file (empty = built-in defaults)
	Registry string `yaml:"registry"`
	// Temperature controls randomness (0.0-1.0, default: 0.2)
	Temperature float64 `yaml:"temperature"`
	// Timeout is the maximum time to wait for model responses
	Timeout time.Duration `yaml:"timeout"`
}

// PipelineConfig configures pipeline execution
type PipelineConfig struct {
	// Concurrency is the number of verses translated in parallel
	Concurrency int `yaml:"concurrency"`
	// Enforce applies the deterministic style rules after polishing
	Enforce bool `yaml:"enforce"`
}

// ExportConfig configures rendered output
type ExportConfig struct {
	// Dir is the directory rendered editions are written to
	Dir string `yaml:"dir"`
	// Formats lists the formats rendered by default (usfm, txt, md)
	Formats []string `yaml:"formats"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Charter: CharterConfig{
			Path: "charter.md",
		},
		Corpus: CorpusConfig{
			Dir:     "corpus",
			Working: "working.jsonl",
		},
		Model: ModelConfig{
			Registry:    "",
			Temperature: 0.2,
			Timeout:     5 * time.Minute,
		},
		Pipeline: PipelineConfig{
			Concurrency: 4,
			Enforce:     true,
		},
		Export: ExportConfig{
			Dir:     "dist",
			Formats: []string{"usfm", "txt", "md"},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Charter.Path == "" {
		return fmt.Errorf("charter.path is required")
	}
	if c.Corpus.Dir == "" {
		return fmt.Errorf("corpus.dir is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1")
	}
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("pipeline.concurrency must be at least 1")
	}
	return nil
}

// WorkingPath returns the absolute-or-relative path of the working corpus file.
func (c *Config) WorkingPath() string {
	if filepath.IsAbs(c.Corpus.Working) {
		return c.Corpus.Working
	}
	return filepath.Join(c.Corpus.Dir, c.Corpus.Working)
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Charter
	if other.Charter.Path != "" {
		c.Charter.Path = other.Charter.Path
	}

	// Corpus
	if other.Corpus.Dir != "" {
		c.Corpus.Dir = other.Corpus.Dir
	}
	if other.Corpus.Working != "" {
		c.Corpus.Working = other.Corpus.Working
	}

	// Model
	if other.Model.Registry != "" {
		c.Model.Registry = other.Model.Registry
	}
	if other.Model.Temperature != 0 {
		c.Model.Temperature = other.Model.Temperature
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	// Pipeline
	if other.Pipeline.Concurrency != 0 {
		c.Pipeline.Concurrency = other.Pipeline.Concurrency
	}

	// Export
	if other.Export.Dir != "" {
		c.Export.Dir = other.Export.Dir
	}
	if len(other.Export.Formats) > 0 {
		c.Export.Formats = other.Export.Formats
	}
}
