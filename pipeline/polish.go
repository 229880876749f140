package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/inkhorn/scriptorium/canon"
	"github.com/inkhorn/scriptorium/charter"
	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/llm"
	"github.com/inkhorn/scriptorium/metrics"
	"github.com/inkhorn/scriptorium/style"
)

// polishMaxTokens bounds a revised verse. Revisions may not grow the
// verse, so this is tighter than the translation budget.
const polishMaxTokens = 300

// polishRules is appended to the charter when revising. The model only
// reworks English cadence; translation happened in phase one.
const polishRules = "\n\n" +
	"PHASE-2 OPERATIONAL RULES\n" +
	"- You are NOT translating Hebrew or Greek.\n" +
	"- Revise English ONLY for cadence and beauty.\n" +
	"- Meaning must remain unchanged.\n" +
	"- Output ONLY the revised verse text.\n"

// Polisher runs the second LLM phase over targeted verses.
type Polisher struct {
	client      Completer
	charter     *charter.Charter
	concurrency int
	temperature *float64
	enforce     bool
	logger      *slog.Logger
}

// PolisherOption configures a Polisher.
type PolisherOption func(*Polisher)

// WithPolishConcurrency sets the number of verses revised in parallel.
func WithPolishConcurrency(n int) PolisherOption {
	return func(p *Polisher) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithPolishTemperature sets the sampling temperature.
func WithPolishTemperature(temp float64) PolisherOption {
	return func(p *Polisher) {
		p.temperature = &temp
	}
}

// WithEnforcement applies the deterministic style rules to every verse
// after revision, not just the targeted ones.
func WithEnforcement(on bool) PolisherOption {
	return func(p *Polisher) {
		p.enforce = on
	}
}

// WithPolisherLogger sets the logger.
func WithPolisherLogger(logger *slog.Logger) PolisherOption {
	return func(p *Polisher) {
		p.logger = logger
	}
}

// NewPolisher creates a Polisher bound to a charter.
func NewPolisher(client Completer, ch *charter.Charter, opts ...PolisherOption) *Polisher {
	p := &Polisher{
		client:      client,
		charter:     ch,
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PolishStats summarizes a polish run.
type PolishStats struct {
	Targets  int `json:"targets"`
	Changed  int `json:"changed"`
	Blocked  int `json:"blocked"`
	Enforced int `json:"enforced"`
}

// Polish revises the targeted verses for cadence. A revision that fails
// the similarity guard is discarded and the original kept; the run
// continues. With enforcement on, the deterministic style rules are then
// applied to every translated verse in the corpus.
func (p *Polisher) Polish(ctx context.Context, c *corpus.Corpus, targets map[canon.Ref]bool) (PolishStats, error) {
	var stats PolishStats
	stats.Targets = len(targets)

	systemPrompt := p.charter.SystemPrompt + polishRules

	type job struct {
		verse corpus.Verse
	}

	var jobs []job
	for _, v := range c.Verses() {
		if targets[v.Ref] && v.Translation != "" {
			jobs = append(jobs, job{verse: v})
		}
	}

	results := make([]string, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, j := range jobs {
		g.Go(func() error {
			revised, err := p.reviseVerse(gctx, systemPrompt, j.verse)
			if err != nil {
				return err
			}
			results[i] = revised
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	for i, j := range jobs {
		v := j.verse
		original := v.Translation
		revised := results[i]

		metrics.VersesProcessed.WithLabelValues("polish").Inc()

		ok, reason := similarityGuard(original, revised)
		if !ok {
			stats.Blocked++
			metrics.GuardBlocks.WithLabelValues(reason).Inc()
			p.logger.Warn("Guard blocked revision",
				"ref", v.Ref.String(),
				"reason", reason)
			continue
		}

		if guardNormalize(revised) != guardNormalize(original) {
			stats.Changed++
			metrics.VersesChanged.WithLabelValues("polish").Inc()
		}

		v.Translation = revised
		c.Put(v)
	}

	if p.enforce {
		enforced, err := p.enforceAll(c)
		if err != nil {
			return stats, err
		}
		stats.Enforced = enforced
	}

	return stats, nil
}

// reviseVerse sends one verse through the LLM for cadence revision.
func (p *Polisher) reviseVerse(ctx context.Context, systemPrompt string, v corpus.Verse) (string, error) {
	userPrompt := fmt.Sprintf(
		"REFERENCE: %s\n"+
			"Revise the following English verse for cadence and beauty.\n"+
			"Do not change meaning or theology.\n"+
			"Output only the revised verse text.\n\n"+
			"ORIGINAL ENGLISH:\n%s",
		v.Ref, v.Translation)

	resp, err := p.client.Complete(ctx, llm.Request{
		Capability: "revision",
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: p.temperature,
		MaxTokens:   polishMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("polish %s: %w", v.Ref, err)
	}

	return strings.TrimSpace(resp.Content), nil
}

// enforceAll runs the deterministic style rules over every translated
// verse, targeted or not.
func (p *Polisher) enforceAll(c *corpus.Corpus) (int, error) {
	enforced := 0
	for _, v := range c.Verses() {
		if v.Translation == "" {
			continue
		}
		out, err := style.Enforce(v.Translation)
		if err != nil {
			return enforced, fmt.Errorf("enforce %s: %w", v.Ref, err)
		}
		if out != v.Translation {
			enforced++
			v.Translation = out
			c.Put(v)
		}
	}
	return enforced, nil
}

// LoadTargets reads a JSONL file of {"ref": "..."} lines into a target set.
func LoadTargets(path string) (map[canon.Ref]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets: %w", err)
	}
	defer f.Close()

	targets := make(map[canon.Ref]bool)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var row struct {
			Ref canon.Ref `json:"ref"`
		}
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, fmt.Errorf("targets line %d: %w", lineNo, err)
		}
		if row.Ref.IsZero() {
			return nil, fmt.Errorf("targets line %d: missing ref", lineNo)
		}
		targets[row.Ref] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}

	return targets, nil
}
