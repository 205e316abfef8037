// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements document-to-PDF conversion with a chain of
// pluggable backends. Each document is tried against every backend that
// supports its format, in configured order, until one produces a PDF that
// passes verification.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bkhodirov/fileconv/pkg/types"
)

// Backend converts a single document into a PDF at doc.OutputPath.
// Different tools (libreoffice, pandoc, the native image and sheet
// renderers) implement this interface.
type Backend interface {
	// Name returns the backend name used in configuration and the ledger.
	Name() string

	// Supports reports whether the backend handles the given format.
	Supports(f types.Format) bool

	// Convert writes the PDF for doc at doc.OutputPath.
	Convert(ctx context.Context, doc types.Document) error
}

// Verifier checks a produced PDF. A non-nil error fails the backend attempt
// and the chain moves on.
type Verifier func(path string) error

// Outcome is the recorded result of processing one document.
type Outcome struct {
	Doc      types.Document
	Status   types.ConversionStatus
	Backend  string
	Duration time.Duration
	Err      error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted  int
	Skipped    int
	Failed     int
	FailedDocs []types.Document
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any documents failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline runs documents through an ordered backend chain.
type Pipeline struct {
	backends []Backend
	verify   Verifier
	force    bool
}

// NewPipeline creates a pipeline with the given backend order. A nil
// verifier accepts every produced file. When force is set, existing
// outputs are re-converted instead of skipped.
func NewPipeline(backends []Backend, verify Verifier, force bool) *Pipeline {
	if verify == nil {
		verify = func(string) error { return nil }
	}
	return &Pipeline{backends: backends, verify: verify, force: force}
}

// ConvertDocument converts a single document, writing per-attempt status
// lines to w. An existing non-empty output is skipped unless the pipeline
// is in force mode.
func (p *Pipeline) ConvertDocument(ctx context.Context, doc types.Document, w io.Writer) Outcome {
	start := time.Now()

	if !p.force {
		if info, err := os.Stat(doc.OutputPath); err == nil && info.Size() > 0 {
			fmt.Fprintf(w, "skipped: %s (already converted)\n", doc.ID)
			return Outcome{Doc: doc, Status: types.ConversionNone, Duration: time.Since(start)}
		}
	}

	if err := os.MkdirAll(filepath.Dir(doc.OutputPath), 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", doc.ID, err)
		return Outcome{Doc: doc, Status: types.ConversionFailed, Duration: time.Since(start), Err: err}
	}

	var lastErr error
	tried := 0
	for _, b := range p.backends {
		if !b.Supports(doc.Format) {
			continue
		}
		tried++

		if err := b.Convert(ctx, doc); err != nil {
			lastErr = err
			fmt.Fprintf(w, "  %s: %v\n", b.Name(), err)
			continue
		}

		if err := p.verify(doc.OutputPath); err != nil {
			lastErr = err
			fmt.Fprintf(w, "  %s: produced invalid PDF: %v\n", b.Name(), err)
			os.Remove(doc.OutputPath)
			continue
		}

		fmt.Fprintf(w, "converted: %s (%s)\n", doc.ID, b.Name())
		return Outcome{
			Doc:      doc,
			Status:   types.ConversionDone,
			Backend:  b.Name(),
			Duration: time.Since(start),
		}
	}

	if tried == 0 {
		lastErr = fmt.Errorf("no backend supports format %q", doc.Format)
	}
	fmt.Fprintf(w, "failed:  %s (%v)\n", doc.ID, lastErr)
	return Outcome{Doc: doc, Status: types.ConversionFailed, Duration: time.Since(start), Err: lastErr}
}

// ConvertBatch processes documents through the pipeline, printing per-file
// status to w and returning a summary. The returned outcomes carry one
// entry per document, in input order, for ledger recording.
func (p *Pipeline) ConvertBatch(ctx context.Context, docs []types.Document, w io.Writer) (BatchResult, []Outcome) {
	var result BatchResult
	outcomes := make([]Outcome, 0, len(docs))

	for i, doc := range docs {
		select {
		case <-ctx.Done():
			return result, outcomes
		default:
		}

		fmt.Fprintf(w, "[%d/%d] %s\n", i+1, len(docs), doc.ID)
		outcome := p.ConvertDocument(ctx, doc, w)
		outcomes = append(outcomes, outcome)

		switch outcome.Status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionNone:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
			result.FailedDocs = append(result.FailedDocs, doc)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	if len(result.FailedDocs) > 0 {
		fmt.Fprintln(w, "Failed documents:")
		for _, d := range result.FailedDocs {
			fmt.Fprintf(w, "  - %s\n", d.SourcePath)
		}
	}
	return result, outcomes
}
