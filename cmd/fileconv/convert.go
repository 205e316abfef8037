// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bkhodirov/fileconv/internal/convert"
	"github.com/bkhodirov/fileconv/internal/ledger"
	"github.com/bkhodirov/fileconv/internal/mirror"
	"github.com/bkhodirov/fileconv/internal/office"
	"github.com/bkhodirov/fileconv/internal/scan"
	"github.com/bkhodirov/fileconv/pkg/types"
)

const (
	defaultSourceDir = "inbox"
	defaultTargetDir = "converted"
	convertLog       = "conversion.log"
	forceLog         = "force_conversion.log"
)

var defaultBackendOrder = []string{"image", "sheet", "libreoffice", "pandoc"}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the source tree to a mirrored tree of PDFs",
	Long: `Convert walks the source directory, copies PDFs into the target tree,
and converts every supported document (docx, doc, xlsx, xls, pptx, ppt,
png) to PDF with the same relative path. Documents whose output already
exists are skipped unless --force is given.

Each document is tried against every backend that supports its format, in
--backend-order, until one produces a valid PDF. Status lines go to stdout
and to the run log; outcomes are recorded in the ledger under the target
directory.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("source", defaultSourceDir, "source directory to convert")
	convertCmd.Flags().String("target", defaultTargetDir, "target directory for PDFs")
	convertCmd.Flags().Bool("force", false, "re-convert documents whose output already exists")
	convertCmd.Flags().StringSlice("backend-order", defaultBackendOrder, "backend fallback order: image, sheet, libreoffice, pandoc")
	convertCmd.Flags().String("log", "", "run log file (default conversion.log, or force_conversion.log with --force)")
	convertCmd.Flags().Duration("office-timeout", 0, "per-document LibreOffice timeout (default 120s)")
	convertCmd.Flags().Duration("pandoc-timeout", 0, "per-document Pandoc timeout (default 60s)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := convertConfigFromFlags(cmd)

	logPath, _ := cmd.Flags().GetString("log")
	if logPath == "" {
		logPath = convertLog
		if cfg.Force {
			logPath = forceLog
		}
	}
	w, closeLog, err := teeLog(logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := ledger.NewStore(types.LedgerConfig{TargetDir: cfg.TargetDir})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	// Pass 1: mirror PDFs already present in the source tree.
	pdfs, err := scan.Plan(cfg.SourceDir, cfg.TargetDir, func(f types.Format) bool {
		return f == types.FormatPdf
	})
	if err != nil {
		return err
	}
	var copyResult mirror.BatchResult
	if len(pdfs) > 0 {
		fmt.Fprintf(w, "Mirroring %d PDF(s)...\n", len(pdfs))
		var copyOutcomes []mirror.Outcome
		copyResult, copyOutcomes = mirror.CopyBatch(pdfs, w)
		if err := store.RecordAll(ctx, copyRecords(copyOutcomes)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: ledger update failed: %v\n", err)
		}
	}

	// Pass 2: convert everything else.
	docs, err := scan.Plan(cfg.SourceDir, cfg.TargetDir, nil)
	if err != nil {
		return err
	}
	if len(docs) == 0 && len(pdfs) == 0 {
		fmt.Fprintln(w, "No convertible documents found.")
		return nil
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Converting %d document(s)...\n", len(docs))
	result, outcomes := pipeline.ConvertBatch(ctx, docs, w)
	if err := store.RecordAll(ctx, convertRecords(outcomes)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: ledger update failed: %v\n", err)
	}

	fmt.Fprintf(w, "Run log saved to: %s\n", logPath)

	failed := result.Failed + copyResult.Failed
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed", failed)
	}
	return nil
}

func convertConfigFromFlags(cmd *cobra.Command) types.ConvertConfig {
	sourceDir, _ := cmd.Flags().GetString("source")
	targetDir, _ := cmd.Flags().GetString("target")
	force, _ := cmd.Flags().GetBool("force")
	order, _ := cmd.Flags().GetStringSlice("backend-order")
	officeTimeout, _ := cmd.Flags().GetDuration("office-timeout")
	pandocTimeout, _ := cmd.Flags().GetDuration("pandoc-timeout")

	return types.ConvertConfig{
		SourceDir:     sourceDir,
		TargetDir:     targetDir,
		BackendOrder:  order,
		Force:         force,
		OfficeTimeout: officeTimeout,
		PandocTimeout: pandocTimeout,
	}
}

// buildPipeline assembles the backend chain named by cfg.BackendOrder.
func buildPipeline(cfg types.ConvertConfig) (*convert.Pipeline, error) {
	order := cfg.BackendOrder
	if len(order) == 0 {
		order = defaultBackendOrder
	}

	backends := make([]convert.Backend, 0, len(order))
	for _, name := range order {
		switch name {
		case "libreoffice":
			backends = append(backends, convert.NewLibreOfficeBackend(office.NewLibreOffice(), cfg.OfficeTimeout))
		case "pandoc":
			backends = append(backends, convert.NewPandocBackend(office.NewPandoc(), cfg.PandocTimeout))
		case "image":
			backends = append(backends, convert.NewImageBackend())
		case "sheet":
			backends = append(backends, convert.NewSheetBackend())
		default:
			return nil, fmt.Errorf("unknown backend %q: use image, sheet, libreoffice, or pandoc", name)
		}
	}
	return convert.NewPipeline(backends, convert.VerifyPDF, cfg.Force), nil
}

// teeLog returns a writer duplicating output to stdout and an append-mode
// log file, plus a close function. A log file that cannot be opened
// degrades to stdout-only with a warning.
func teeLog(path string) (io.Writer, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open log file %s: %v\n", path, err)
		return os.Stdout, func() {}, nil
	}
	fmt.Fprintf(f, "--- run %s ---\n", time.Now().Format(time.RFC3339))
	return io.MultiWriter(os.Stdout, f), func() { f.Close() }, nil
}

func convertRecords(outcomes []convert.Outcome) []ledger.Record {
	records := make([]ledger.Record, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == types.ConversionNone {
			continue
		}
		r := ledger.Record{
			SourcePath: o.Doc.SourcePath,
			OutputPath: o.Doc.OutputPath,
			Format:     o.Doc.Format,
			Backend:    o.Backend,
			Status:     o.Status,
			DurationMS: o.Duration.Milliseconds(),
			SourceMod:  o.Doc.ModTime,
		}
		if o.Err != nil {
			r.Error = o.Err.Error()
		}
		records = append(records, r)
	}
	return records
}

func copyRecords(outcomes []mirror.Outcome) []ledger.Record {
	records := make([]ledger.Record, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == types.ConversionNone {
			continue
		}
		r := ledger.Record{
			SourcePath: o.Doc.SourcePath,
			OutputPath: o.Doc.OutputPath,
			Format:     o.Doc.Format,
			Status:     o.Status,
			DurationMS: o.Duration.Milliseconds(),
			SourceMod:  o.Doc.ModTime,
		}
		if o.Err != nil {
			r.Error = o.Err.Error()
		}
		records = append(records, r)
	}
	return records
}
