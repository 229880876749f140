package main

import (
	"github.com/spf13/cobra"

	"github.com/inkhorn/scriptorium/charter"
	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/pipeline"
)

func polishCmd(a *app) *cobra.Command {
	var (
		inPath      string
		outPath     string
		targetsPath string
		charterPath string
		concurrency int
		enforce     bool
		enforceSet  bool
	)

	cmd := &cobra.Command{
		Use:   "polish",
		Short: "Revise targeted verses for cadence",
		Long: `Polish sends the targeted verses through the LLM for cadence
revision. A similarity guard discards revisions that drift too far from
the original; guarded verses keep their current text. With enforcement
on, the deterministic style rules then run over the whole corpus.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enforceSet = cmd.Flags().Changed("enforce")

			ch, err := charter.LoadFile(firstNonEmpty(charterPath, a.cfg.Charter.Path))
			if err != nil {
				return err
			}

			in := firstNonEmpty(inPath, a.cfg.WorkingPath())
			c, err := corpus.LoadFile(in)
			if err != nil {
				return err
			}

			targets, err := pipeline.LoadTargets(targetsPath)
			if err != nil {
				return err
			}

			client, err := newLLMClient(a.cfg, a.logger)
			if err != nil {
				return err
			}

			doEnforce := a.cfg.Pipeline.Enforce
			if enforceSet {
				doEnforce = enforce
			}

			polisher := pipeline.NewPolisher(client, ch,
				pipeline.WithPolishConcurrency(pickConcurrency(concurrency, a.cfg)),
				pipeline.WithPolishTemperature(a.cfg.Model.Temperature),
				pipeline.WithEnforcement(doEnforce),
				pipeline.WithPolisherLogger(a.logger))

			stats, err := polisher.Polish(cmd.Context(), c, targets)
			if err != nil {
				return err
			}

			out := firstNonEmpty(outPath, in)
			if err := corpus.SaveFile(out, c); err != nil {
				return err
			}

			a.logger.Info("Polish complete",
				"out", out,
				"targets", stats.Targets,
				"changed", stats.Changed,
				"blocked", stats.Blocked,
				"enforced", stats.Enforced)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Input corpus JSONL (default: configured working file)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output corpus JSONL (default: same as input)")
	cmd.Flags().StringVar(&targetsPath, "targets", "", "Targets JSONL listing refs to revise")
	cmd.Flags().StringVar(&charterPath, "charter", "", "Charter file (default: configured path)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Verses revised in parallel (default: configured value)")
	cmd.Flags().BoolVar(&enforce, "enforce", true, "Apply deterministic style rules after revision")
	_ = cmd.MarkFlagRequired("targets")

	return cmd
}
