package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/export"
)

func renderCmd(a *app) *cobra.Command {
	var (
		inPath  string
		outDir  string
		formats []string
		title   string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the corpus to USFM, text, and Markdown",
		Long: `Render writes one file per book and format into the output
directory. With --watch it keeps running and re-renders whenever the
corpus file changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := firstNonEmpty(inPath, a.cfg.WorkingPath())
			dir := firstNonEmpty(outDir, a.cfg.Export.Dir)

			names := formats
			if len(names) == 0 {
				names = a.cfg.Export.Formats
			}
			parsed := make([]export.Format, 0, len(names))
			for _, name := range names {
				f, err := export.ParseFormat(name)
				if err != nil {
					return err
				}
				parsed = append(parsed, f)
			}

			render := func() error {
				c, err := corpus.LoadFile(in)
				if err != nil {
					return err
				}
				paths, err := export.WriteFiles(c, dir, parsed, title)
				if err != nil {
					return err
				}
				a.logger.Info("Rendered corpus", "in", in, "files", len(paths))
				return nil
			}

			if err := render(); err != nil {
				return err
			}

			if !watch {
				return nil
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			a.logger.Info("Watching for changes", "path", in)
			err := export.Watch(ctx, in, render, a.logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Input corpus JSONL (default: configured working file)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory (default: configured export dir)")
	cmd.Flags().StringSliceVar(&formats, "formats", nil, "Formats to render (usfm, txt, md)")
	cmd.Flags().StringVar(&title, "title", "", "Document title for Markdown output")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-render when the corpus file changes")

	return cmd
}
