package main

import (
	"github.com/spf13/cobra"

	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/review"
)

func suggestCmd(a *app) *cobra.Command {
	var (
		inPath  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Generate a capitalization review worksheet",
		Long: `Suggest scans the corpus for divine pronouns and titles that may
need capitalization and writes them to a CSV worksheet. Nothing is
applied automatically: a reviewer marks rows APPROVE, then the apply
command writes the approved texts back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := firstNonEmpty(inPath, a.cfg.WorkingPath())
			c, err := corpus.LoadFile(in)
			if err != nil {
				return err
			}

			suggestions := review.Suggest(c)

			if err := review.SaveWorksheet(outPath, suggestions); err != nil {
				return err
			}

			a.logger.Info("Worksheet written",
				"out", outPath,
				"suggestions", len(suggestions))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Input corpus JSONL (default: configured working file)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output worksheet CSV")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
