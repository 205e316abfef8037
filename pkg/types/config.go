package types

import "time"

// ConvertConfig holds settings for the conversion stage.
type ConvertConfig struct {
	// SourceDir is the root of the tree to convert.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// TargetDir is the root of the mirrored output tree.
	TargetDir string `json:"target_dir" yaml:"target_dir"`

	// BackendOrder lists backend names in the order the fallback chain
	// tries them (default: image, sheet, libreoffice, pandoc).
	BackendOrder []string `json:"backend_order" yaml:"backend_order"`

	// Force re-attempts documents whose output already exists.
	Force bool `json:"force" yaml:"force"`

	// OfficeTimeout bounds a single LibreOffice invocation (default 120s).
	OfficeTimeout time.Duration `json:"office_timeout" yaml:"office_timeout"`

	// PandocTimeout bounds a single Pandoc invocation (default 60s).
	PandocTimeout time.Duration `json:"pandoc_timeout" yaml:"pandoc_timeout"`
}

// CopyConfig holds settings for the PDF mirror pass.
type CopyConfig struct {
	// SourceDir is the root of the tree to scan for PDFs.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// TargetDir is the root of the mirrored output tree.
	TargetDir string `json:"target_dir" yaml:"target_dir"`
}

// LedgerConfig holds settings for the run-history ledger.
type LedgerConfig struct {
	// TargetDir is the output root; the ledger database lives under it.
	TargetDir string `json:"target_dir" yaml:"target_dir"`

	// MaxResults is the default maximum number of history query results
	// (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// BootstrapConfig holds settings for dependency bootstrapping.
type BootstrapConfig struct {
	// WithBrew enables Homebrew-managed steps (pandoc, LibreOffice).
	WithBrew bool `json:"with_brew" yaml:"with_brew"`

	// VenvDir is a local Python virtual environment directory. When it
	// exists, its pip is preferred over the system one.
	VenvDir string `json:"venv_dir" yaml:"venv_dir"`
}
