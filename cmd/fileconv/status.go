// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bkhodirov/fileconv/internal/scan"
	"github.com/bkhodirov/fileconv/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare the source and target trees",
	Long: `Status counts convertible documents under the source directory and PDFs
under the target directory, then reports how many documents remain to be
converted.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().String("source", defaultSourceDir, "source directory")
	statusCmd.Flags().String("target", defaultTargetDir, "target directory")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	sourceDir, _ := cmd.Flags().GetString("source")
	targetDir, _ := cmd.Flags().GetString("target")

	sourceCounts, err := scan.Census(sourceDir, types.ConvertibleFormats)
	if err != nil {
		return err
	}
	targetCounts, err := scan.Census(targetDir, []types.Format{types.FormatPdf})
	if err != nil {
		return err
	}

	totalSource := scan.Total(sourceCounts)
	totalConverted := targetCounts[types.FormatPdf]

	fmt.Printf("Source: %s\n", sourceDir)
	fmt.Printf("  documents: %d\n", totalSource)
	for _, f := range types.ConvertibleFormats {
		if n := sourceCounts[f]; n > 0 {
			fmt.Printf("    .%s: %d\n", f, n)
		}
	}

	fmt.Printf("Target: %s\n", targetDir)
	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		fmt.Println("  (does not exist yet)")
	} else {
		fmt.Printf("  PDFs: %d\n", totalConverted)
	}

	remaining := totalSource - totalConverted
	if remaining < 0 {
		remaining = 0
	}
	fmt.Printf("\nConverted: %d/%d, remaining: %d\n", totalConverted, totalSource, remaining)
	if remaining > 0 {
		fmt.Println("Run `fileconv convert` to convert the remaining documents.")
	}
	return nil
}
