// Package pipeline runs the two LLM phases of the translation workflow:
// the initial source-to-English translation and the cadence polish pass.
// Both phases read and write the working corpus; deterministic style
// enforcement and pronoun passes live in the style package.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/inkhorn/scriptorium/charter"
	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/llm"
	"github.com/inkhorn/scriptorium/metrics"
)

// Completer is the LLM surface the pipeline needs. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// translateMaxTokens bounds a single translated verse. The longest verses
// in the corpus run about 100 words.
const translateMaxTokens = 400

// Translator runs the first LLM phase over untranslated verses.
type Translator struct {
	client      Completer
	charter     *charter.Charter
	concurrency int
	temperature *float64
	logger      *slog.Logger
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithConcurrency sets the number of verses translated in parallel.
func WithConcurrency(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float64) TranslatorOption {
	return func(t *Translator) {
		t.temperature = &temp
	}
}

// WithTranslatorLogger sets the logger.
func WithTranslatorLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// NewTranslator creates a Translator bound to a charter.
func NewTranslator(client Completer, ch *charter.Charter, opts ...TranslatorOption) *Translator {
	t := &Translator{
		client:      client,
		charter:     ch,
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TranslateStats summarizes a translation run.
type TranslateStats struct {
	Total      int `json:"total"`
	Translated int `json:"translated"`
	Skipped    int `json:"skipped"`
}

// Translate fills in Translation for every verse that has Source text and
// no translation yet. Verses are processed concurrently; a charter
// violation in any verse fails the whole run, since it means the model is
// not honoring the charter and continuing would waste tokens.
func (t *Translator) Translate(ctx context.Context, c *corpus.Corpus) (TranslateStats, error) {
	var stats TranslateStats

	verses := c.Verses()
	stats.Total = len(verses)

	type job struct {
		index int
		verse corpus.Verse
	}

	var jobs []job
	for i, v := range verses {
		if v.Source == "" || v.Translation != "" {
			stats.Skipped++
			continue
		}
		jobs = append(jobs, job{index: i, verse: v})
	}

	results := make([]string, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for i, j := range jobs {
		g.Go(func() error {
			text, err := t.translateVerse(gctx, j.verse)
			if err != nil {
				return err
			}
			results[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	for i, j := range jobs {
		v := j.verse
		v.Translation = results[i]
		c.Put(v)
		stats.Translated++
		metrics.VersesProcessed.WithLabelValues("translate").Inc()
		metrics.VersesChanged.WithLabelValues("translate").Inc()
	}

	return stats, nil
}

// translateVerse sends one verse through the LLM and checks the result
// against the charter.
func (t *Translator) translateVerse(ctx context.Context, v corpus.Verse) (string, error) {
	userPrompt := fmt.Sprintf(
		"REFERENCE: %s\n"+
			"Translate the following SOURCE TEXT into Modern Sacral English under the established charter.\n"+
			"Output only the translated verse text. Do NOT include the verse number.\n\n"+
			"SOURCE TEXT:\n%s",
		v.Ref, v.Source)

	resp, err := t.client.Complete(ctx, llm.Request{
		Capability: "translation",
		Messages: []llm.Message{
			{Role: "system", Content: t.charter.SystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: t.temperature,
		MaxTokens:   translateMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("translate %s: %w", v.Ref, err)
	}

	text := strings.TrimSpace(resp.Content)

	if err := t.charter.Check(v.Ref, text); err != nil {
		return "", fmt.Errorf("translate %s: %w", v.Ref, err)
	}

	t.logger.Debug("Translated verse",
		"ref", v.Ref.String(),
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens)

	return text, nil
}
