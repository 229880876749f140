package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/inkhorn/scriptorium/charter"
	"github.com/inkhorn/scriptorium/config"
	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/llm"
	"github.com/inkhorn/scriptorium/model"
	"github.com/inkhorn/scriptorium/pipeline"
)

func translateCmd(a *app) *cobra.Command {
	var (
		inPath      string
		outPath     string
		charterPath string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate source verses into Modern Sacral English",
		Long: `Translate sends every verse with source text and no translation
through the LLM under the charter. Output that uses a forbidden archaism
or misses a lexical lock fails the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := charter.LoadFile(firstNonEmpty(charterPath, a.cfg.Charter.Path))
			if err != nil {
				return err
			}

			in := firstNonEmpty(inPath, a.cfg.WorkingPath())
			c, err := corpus.LoadFile(in)
			if err != nil {
				return err
			}

			client, err := newLLMClient(a.cfg, a.logger)
			if err != nil {
				return err
			}

			translator := pipeline.NewTranslator(client, ch,
				pipeline.WithConcurrency(pickConcurrency(concurrency, a.cfg)),
				pipeline.WithTemperature(a.cfg.Model.Temperature),
				pipeline.WithTranslatorLogger(a.logger))

			stats, err := translator.Translate(cmd.Context(), c)
			if err != nil {
				return err
			}

			out := firstNonEmpty(outPath, in)
			if err := corpus.SaveFile(out, c); err != nil {
				return err
			}

			a.logger.Info("Translation complete",
				"out", out,
				"total", stats.Total,
				"translated", stats.Translated,
				"skipped", stats.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Input corpus JSONL (default: configured working file)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output corpus JSONL (default: same as input)")
	cmd.Flags().StringVar(&charterPath, "charter", "", "Charter file (default: configured path)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Verses translated in parallel (default: configured value)")

	return cmd
}

// newLLMClient builds the model registry (config file or defaults) and
// wraps it in a client.
func newLLMClient(cfg *config.Config, logger *slog.Logger) (*llm.Client, error) {
	registry := model.NewDefaultRegistry()
	if cfg.Model.Registry != "" {
		loaded, err := model.LoadFromFile(cfg.Model.Registry)
		if err != nil {
			return nil, fmt.Errorf("load model registry: %w", err)
		}
		registry = loaded
	}

	opts := []llm.ClientOption{llm.WithLogger(logger)}
	if cfg.Model.Timeout > 0 {
		opts = append(opts, llm.WithHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}))
	}
	return llm.NewClient(registry, opts...), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickConcurrency(flag int, cfg *config.Config) int {
	if flag > 0 {
		return flag
	}
	return cfg.Pipeline.Concurrency
}
