// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bkhodirov/fileconv/internal/ledger"
	"github.com/bkhodirov/fileconv/internal/mirror"
	"github.com/bkhodirov/fileconv/internal/scan"
	"github.com/bkhodirov/fileconv/pkg/types"
)

const copyLog = "pdf_copy.log"

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy source PDFs into the target tree",
	Long: `Copy mirrors PDFs found under the source directory into the target
directory with relative paths preserved. Destinations with identical size
are skipped; size mismatches are recopied.`,
	RunE: runCopy,
}

func init() {
	copyCmd.Flags().String("source", defaultSourceDir, "source directory to scan for PDFs")
	copyCmd.Flags().String("target", defaultTargetDir, "target directory")
	copyCmd.Flags().String("log", copyLog, "run log file")

	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	sourceDir, _ := cmd.Flags().GetString("source")
	targetDir, _ := cmd.Flags().GetString("target")
	logPath, _ := cmd.Flags().GetString("log")

	w, closeLog, err := teeLog(logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	pdfs, err := scan.Plan(sourceDir, targetDir, func(f types.Format) bool {
		return f == types.FormatPdf
	})
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		fmt.Fprintln(w, "No PDFs found.")
		return nil
	}

	fmt.Fprintf(w, "Found %d PDF(s)\n", len(pdfs))
	result, outcomes := mirror.CopyBatch(pdfs, w)

	store, err := ledger.NewStore(types.LedgerConfig{TargetDir: targetDir})
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.RecordAll(context.Background(), copyRecords(outcomes)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: ledger update failed: %v\n", err)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d PDF(s) failed to copy", result.Failed)
	}
	return nil
}
