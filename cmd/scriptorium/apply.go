package main

import (
	"github.com/spf13/cobra"

	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/review"
)

func applyCmd(a *app) *cobra.Command {
	var (
		inPath     string
		outPath    string
		reviewPath string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply approved worksheet edits to the corpus",
		Long: `Apply reads a reviewed worksheet and replaces verse texts with the
suggested column of every APPROVE row. When a verse has several
approved rows the last one wins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := firstNonEmpty(inPath, a.cfg.WorkingPath())
			c, err := corpus.LoadFile(in)
			if err != nil {
				return err
			}

			approved, err := review.LoadApproved(reviewPath)
			if err != nil {
				return err
			}

			stats := review.Apply(c, approved)

			out := firstNonEmpty(outPath, in)
			if err := corpus.SaveFile(out, c); err != nil {
				return err
			}

			a.logger.Info("Approved edits applied",
				"out", out,
				"total", stats.Total,
				"approved", stats.Approved,
				"changed", stats.Changed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Input corpus JSONL (default: configured working file)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output corpus JSONL (default: same as input)")
	cmd.Flags().StringVar(&reviewPath, "review", "", "Reviewed worksheet CSV")
	_ = cmd.MarkFlagRequired("review")

	return cmd
}
