package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/style"
)

func pronounsCmd(a *app) *cobra.Command {
	var (
		inPath     string
		kjvPath    string
		outPath    string
		reviewPath string
		statsPath  string
	)

	cmd := &cobra.Command{
		Use:   "pronouns",
		Short: "KJV-gated pronoun capitalization pass (no LLM)",
		Long: `Pronouns adjusts He/Him/His/Himself capitalization using the KJV
rendering of each verse as the authority. Verses where the KJV itself
mixes divine and human pronouns are left untouched and written to the
review file for human judgment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := firstNonEmpty(inPath, a.cfg.WorkingPath())
			c, err := corpus.LoadFile(in)
			if err != nil {
				return err
			}

			kjv, err := corpus.LoadFile(kjvPath)
			if err != nil {
				return err
			}

			// Attach the KJV rendering to each working verse.
			for _, v := range c.Verses() {
				if kv, ok := kjv.Get(v.Ref); ok && kv.KJV != "" {
					v.KJV = kv.KJV
					c.Put(v)
				}
			}

			review, stats := style.PronounPass(c)

			// The KJV column is reference material, not output.
			out := corpus.New(nil)
			for _, v := range c.Verses() {
				v.KJV = ""
				out.Put(v)
			}

			outFile := firstNonEmpty(outPath, in)
			if err := corpus.SaveFile(outFile, out); err != nil {
				return err
			}

			if err := writeReviewTargets(reviewPath, review); err != nil {
				return err
			}

			if statsPath != "" {
				if err := writeJSONFile(statsPath, stats); err != nil {
					return err
				}
			}

			a.logger.Info("Pronoun pass complete",
				"out", outFile,
				"total", stats.Total,
				"changed", stats.Changed,
				"mixed", stats.Classified.Mixed,
				"review_targets", stats.ReviewTargets)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Input corpus JSONL (default: configured working file)")
	cmd.Flags().StringVar(&kjvPath, "kjv", "", "KJV corpus JSONL")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output corpus JSONL (default: same as input)")
	cmd.Flags().StringVar(&reviewPath, "review-out", "", "Review targets JSONL for mixed verses")
	cmd.Flags().StringVar(&statsPath, "stats-out", "", "Optional stats JSON file")
	_ = cmd.MarkFlagRequired("kjv")
	_ = cmd.MarkFlagRequired("review-out")

	return cmd
}

func writeReviewTargets(path string, targets []style.ReviewTarget) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create review directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create review file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, t := range targets {
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("write review target: %w", err)
		}
	}
	return f.Close()
}

func writeJSONFile(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create stats directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
