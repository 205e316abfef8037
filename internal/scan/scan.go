// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan discovers source documents and plans their PDF outputs.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bkhodirov/fileconv/pkg/types"
)

// Plan walks sourceDir and returns a Document for every file whose format
// matches the filter, with OutputPath mirroring the source's relative
// directory under targetDir and the extension replaced by .pdf. Walk order
// is lexicographic, so the plan is deterministic.
//
// The filter decides which formats are included; passing nil includes the
// convertible formats only (PDFs excluded).
func Plan(sourceDir, targetDir string, filter func(types.Format) bool) ([]types.Document, error) {
	if filter == nil {
		filter = types.Format.Convertible
	}

	var docs []types.Document
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		format := types.FormatOf(path)
		if !filter(format) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}

		relDir := filepath.Dir(rel)
		base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))

		outDir := targetDir
		if relDir != "." {
			outDir = filepath.Join(targetDir, relDir)
		}

		outName := base + ".pdf"
		if format == types.FormatPdf {
			// Mirrored PDFs keep their original filename.
			outName = filepath.Base(rel)
		}

		docs = append(docs, types.Document{
			ID:         filepath.ToSlash(filepath.Join(relDir, base)),
			SourcePath: path,
			RelDir:     relDir,
			OutputPath: filepath.Join(outDir, outName),
			Format:     format,
			Size:       info.Size(),
			ModTime:    info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", sourceDir, err)
	}
	return docs, nil
}

// Census counts files per format under dir. Formats not in the given list
// are ignored. A missing directory is not an error; it yields zero counts.
func Census(dir string, formats []types.Format) (map[types.Format]int, error) {
	counts := make(map[types.Format]int, len(formats))
	for _, f := range formats {
		counts[f] = 0
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return counts, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f := types.FormatOf(path)
		if _, ok := counts[f]; ok {
			counts[f]++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return counts, nil
}

// Total sums the counts in a Census result.
func Total(counts map[types.Format]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
