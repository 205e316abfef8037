// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mirror copies source PDFs into the target tree with relative
// paths preserved. PDFs need no conversion; they only need to appear in
// the output alongside the converted documents.
package mirror

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bkhodirov/fileconv/pkg/types"
)

// BatchResult holds the outcome of a copy run.
type BatchResult struct {
	Copied  int
	Skipped int
	Failed  int
}

// Total returns the total number of PDFs processed.
func (r BatchResult) Total() int {
	return r.Copied + r.Skipped + r.Failed
}

// HasFailures reports whether any copies failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Outcome is the recorded result of one copy, shaped for the ledger.
type Outcome struct {
	Doc      types.Document
	Status   types.ConversionStatus
	Duration time.Duration
	Err      error
}

// CopyDocument copies one PDF to doc.OutputPath. A destination with
// identical size is assumed current and skipped; a size mismatch is
// overwritten. The source modification time is preserved on the copy.
func CopyDocument(doc types.Document, w io.Writer) Outcome {
	start := time.Now()

	if info, err := os.Stat(doc.OutputPath); err == nil {
		if info.Size() == doc.Size {
			fmt.Fprintf(w, "skipped: %s (already present)\n", doc.ID)
			return Outcome{Doc: doc, Status: types.ConversionNone, Duration: time.Since(start)}
		}
		fmt.Fprintf(w, "size mismatch, recopying: %s\n", doc.ID)
	}

	if err := copyFile(doc.SourcePath, doc.OutputPath, doc.ModTime); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", doc.ID, err)
		return Outcome{Doc: doc, Status: types.ConversionFailed, Duration: time.Since(start), Err: err}
	}

	fmt.Fprintf(w, "copied: %s\n", doc.ID)
	return Outcome{Doc: doc, Status: types.ConversionCopied, Duration: time.Since(start)}
}

// CopyBatch copies a list of PDFs, printing per-file status to w and
// returning a summary plus per-document outcomes.
func CopyBatch(docs []types.Document, w io.Writer) (BatchResult, []Outcome) {
	var result BatchResult
	outcomes := make([]Outcome, 0, len(docs))

	for i, doc := range docs {
		fmt.Fprintf(w, "[%d/%d] %s\n", i+1, len(docs), doc.ID)
		outcome := CopyDocument(doc, w)
		outcomes = append(outcomes, outcome)

		switch outcome.Status {
		case types.ConversionCopied:
			result.Copied++
		case types.ConversionNone:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nCopy summary: %d copied, %d skipped, %d failed (total: %d)\n",
		result.Copied, result.Skipped, result.Failed, result.Total())
	return result, outcomes
}

// copyFile writes src to dst via a temp file in the destination directory,
// renaming on success so a partial copy never shadows the real output.
func copyFile(src, dst string, modTime time.Time) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".fileconv-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copying: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	if !modTime.IsZero() {
		os.Chtimes(dst, modTime, modTime)
	}
	return nil
}
