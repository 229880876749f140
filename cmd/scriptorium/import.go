package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/inkhorn/scriptorium/corpus"
	"github.com/inkhorn/scriptorium/osis"
)

func importCmd(a *app) *cobra.Command {
	var (
		edition string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "import [globs...]",
		Short: "Import OSIS XML editions into a verse corpus",
		Long: `Import parses OSIS XML files into the JSONL verse corpus.

File arguments may be literal paths or doublestar globs
(sources/kjv/**/*.xml). The edition selects the importer: "kjv" fills
the kjv field, "oshb" fills the source field.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no files match %v", args)
			}

			c := corpus.New(nil)
			for _, path := range paths {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open %s: %w", path, err)
				}

				verses, err := osis.DefaultRegistry.Import(edition, f)
				f.Close()
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}

				for _, v := range verses {
					c.Put(v)
				}
				a.logger.Info("Imported edition file",
					"path", path,
					"edition", edition,
					"verses", len(verses))
			}

			if err := corpus.SaveFile(outPath, c); err != nil {
				return err
			}

			a.logger.Info("Import complete", "out", outPath, "verses", c.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&edition, "edition", "kjv", "OSIS edition importer (kjv, oshb)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output corpus JSONL path")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// expandGlobs resolves each argument as a doublestar glob, falling back
// to treating it as a literal path when it contains no glob metacharacters.
func expandGlobs(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	for _, arg := range args {
		if !stringsContainsGlob(arg) {
			if !seen[arg] {
				seen[arg] = true
				paths = append(paths, arg)
			}
			continue
		}

		base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))
		matches, err := doublestar.Glob(os.DirFS(base), pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", arg, err)
		}
		for _, m := range matches {
			full := filepath.Join(base, m)
			if !seen[full] {
				seen[full] = true
				paths = append(paths, full)
			}
		}
	}

	return paths, nil
}

func stringsContainsGlob(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
