package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inkhorn/scriptorium/corpus"
)

// WriteFiles renders the corpus in each format and writes one file per
// book under dir, named by book code and format extension (GEN.usfm).
// It returns the paths written.
func WriteFiles(c *corpus.Corpus, dir string, formats []Format, title string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	var paths []string

	for _, format := range formats {
		info, ok := GetFormatInfo(format)
		if !ok {
			return nil, fmt.Errorf("unknown format %q", format)
		}

		docs, err := Render(c, format, title)
		if err != nil {
			return nil, err
		}

		order, _ := booksOf(c)
		for _, book := range order {
			path := filepath.Join(dir, string(book)+info.Extension)
			if err := os.WriteFile(path, []byte(docs[book]), 0644); err != nil {
				return nil, fmt.Errorf("write %s: %w", path, err)
			}
			paths = append(paths, path)
		}
	}

	return paths, nil
}
