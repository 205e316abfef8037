// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bkhodirov/fileconv/internal/ledger"
	"github.com/bkhodirov/fileconv/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the conversion ledger",
	Long: `History lists recorded conversion and copy outcomes from the ledger under
the target directory, most recent first. Filter by --status or
--file-format.`,
	RunE: runHistory,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the conversion ledger to YAML or JSON",
	Long: `Export writes the full ledger (or a filtered subset) to export.yaml or
export.json under the target directory. Supports the same filter flags as
history.`,
	RunE: runExport,
}

func init() {
	for _, c := range []*cobra.Command{historyCmd, exportCmd} {
		c.Flags().String("target", defaultTargetDir, "target directory holding the ledger")
		c.Flags().String("status", "", "filter by status: converted, copied, failed")
		c.Flags().String("file-format", "", "filter by source format: docx, doc, xlsx, xls, pptx, ppt, png, pdf")
	}
	historyCmd.Flags().Int("limit", 0, "maximum results (0 = default)")
	historyCmd.Flags().Bool("json", false, "output results as JSON")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
}

func ledgerOptsFromFlags(cmd *cobra.Command) ledger.QueryOptions {
	status, _ := cmd.Flags().GetString("status")
	fileFormat, _ := cmd.Flags().GetString("file-format")
	limit, _ := cmd.Flags().GetInt("limit")

	return ledger.QueryOptions{
		Status:     types.ConversionStatus(status),
		Format:     types.Format(fileFormat),
		MaxResults: limit,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	targetDir, _ := cmd.Flags().GetString("target")

	store, err := ledger.NewStore(types.LedgerConfig{TargetDir: targetDir})
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.History(context.Background(), ledgerOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	fmt.Printf("%-40s  %-6s  %-11s  %-12s  %-8s  %s\n",
		"Source", "Format", "Backend", "Status", "Time", "Recorded")
	fmt.Println(strings.Repeat("-", 100))
	for _, r := range records {
		src := r.SourcePath
		if len(src) > 40 {
			src = "..." + src[len(src)-37:]
		}
		backend := r.Backend
		if backend == "" {
			backend = "-"
		}
		fmt.Printf("%-40s  %-6s  %-11s  %-12s  %-8s  %s\n",
			src, r.Format, backend, r.Status,
			(time.Duration(r.DurationMS) * time.Millisecond).String(),
			r.RecordedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Printf("\n%d record(s)\n", len(records))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	targetDir, _ := cmd.Flags().GetString("target")
	format, _ := cmd.Flags().GetString("format")

	store, err := ledger.NewStore(types.LedgerConfig{TargetDir: targetDir})
	if err != nil {
		return err
	}
	defer store.Close()

	opts := ledgerOptsFromFlags(cmd)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background(), opts)
	case "json":
		path, err = store.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}
