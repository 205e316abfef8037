// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bkhodirov/fileconv/internal/bootstrap"
	"github.com/bkhodirov/fileconv/pkg/types"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Check for required tools and install the missing ones",
	Long: `Setup probes for the external tools the pipeline uses (LibreOffice,
Pandoc) and installs missing ones through Homebrew when --with-brew is
given. It also installs the Python helper packages used by the legacy
converter scripts, preferring a local .venv when one exists.

Individual install failures are warnings; setup fails only when it cannot
run at all.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().Bool("with-brew", false, "install missing tools through Homebrew")
	setupCmd.Flags().String("venv", ".venv", "local Python virtual environment directory")

	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	withBrew, _ := cmd.Flags().GetBool("with-brew")
	venv, _ := cmd.Flags().GetString("venv")

	runner := bootstrap.NewRunner(types.BootstrapConfig{
		WithBrew: withBrew,
		VenvDir:  venv,
	})
	results := runner.Run(context.Background(), os.Stdout)

	// The converters need at least one office tool; warn when both are
	// still missing after setup.
	avail := bootstrap.Available("libreoffice", "pandoc")
	if !avail["libreoffice"] && !avail["pandoc"] {
		fmt.Fprintln(os.Stderr, "warning: neither libreoffice nor pandoc is available; office documents will not convert")
	}

	for _, r := range results {
		if r.Status == bootstrap.StepFailed && r.Err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", r.Err)
		}
	}
	return nil
}
