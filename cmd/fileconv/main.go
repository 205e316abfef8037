// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the fileconv CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the fileconv CLI.
var rootCmd = &cobra.Command{
	Use:   "fileconv",
	Short: "Convert document trees to PDF",
	Long: `fileconv converts a directory tree of office documents and images into a
mirrored tree of PDFs. Office formats go through LibreOffice or Pandoc;
PNG images and XLSX workbooks have native renderers; PDFs already present
in the source are copied as-is.

Each stage is a subcommand: setup installs missing tools, convert runs the
pipeline, copy mirrors existing PDFs, status compares source and target
trees, and history queries past runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./fileconv.yaml or ~/.config/fileconv/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("fileconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "fileconv"))
		}
	}

	viper.SetEnvPrefix("FILECONV")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
