// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office implements detection and execution of external document
// converters (LibreOffice and Pandoc).
package office

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	binLibreOffice = "libreoffice"
	binPandoc      = "pandoc"
)

// libreOfficeCandidates lists known install locations probed before PATH.
var libreOfficeCandidates = []string{
	"/Applications/LibreOffice.app/Contents/MacOS/soffice",
	"/usr/bin/libreoffice",
	"/usr/local/bin/libreoffice",
}

// pandocCandidates lists known install locations probed before PATH.
var pandocCandidates = []string{
	"/usr/local/bin/pandoc",
	"/opt/homebrew/bin/pandoc",
	"/usr/bin/pandoc",
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	FileExists(path string) bool
	RunSilent(name string, args ...string) error
	RunOutput(ctx context.Context, name string, args ...string) (string, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunOutput(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

var defaultExec = &osExecutor{}

// tool resolves a converter binary over candidate install paths and PATH,
// and runs it. LibreOffice and Pandoc share this logic; they differ only in
// binary name, candidate paths, and invocation shape.
type tool struct {
	bin        string
	candidates []string
	exec       executor
	resolved   string
}

// resolve returns the binary path, trying known install locations first
// and PATH last. The result is cached; an empty string means not found.
func (t *tool) resolve() string {
	if t.resolved != "" {
		return t.resolved
	}
	for _, c := range t.candidates {
		if t.exec.FileExists(c) {
			t.resolved = c
			return c
		}
	}
	if p, err := t.exec.LookPath(t.bin); err == nil {
		t.resolved = p
		return p
	}
	return ""
}

// Available reports whether the binary exists and responds to --version.
func (t *tool) Available() bool {
	bin := t.resolve()
	if bin == "" {
		return false
	}
	return t.exec.RunSilent(bin, "--version") == nil
}

func (t *tool) run(ctx context.Context, args ...string) error {
	bin := t.resolve()
	if bin == "" {
		return fmt.Errorf("%s not found", t.bin)
	}
	out, err := t.exec.RunOutput(ctx, bin, args...)
	if err != nil {
		msg := strings.TrimSpace(out)
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", t.bin, err, msg)
		}
		return fmt.Errorf("%s: %w", t.bin, err)
	}
	return nil
}

// LibreOffice converts office documents through a headless soffice process.
type LibreOffice struct {
	tool
}

// NewLibreOffice creates a LibreOffice tool using the default executor.
func NewLibreOffice() *LibreOffice {
	return newLibreOffice(defaultExec)
}

func newLibreOffice(exec executor) *LibreOffice {
	return &LibreOffice{tool{
		bin:        binLibreOffice,
		candidates: libreOfficeCandidates,
		exec:       exec,
	}}
}

// Name returns the tool name.
func (l *LibreOffice) Name() string { return binLibreOffice }

// Convert renders input as PDF into outDir. LibreOffice itself chooses the
// output filename (input basename with a .pdf extension); callers that need
// a different name must rename afterwards.
func (l *LibreOffice) Convert(ctx context.Context, input, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outDir, err)
	}
	return l.run(ctx, "--headless", "--convert-to", "pdf", "--outdir", outDir, input)
}

// Pandoc converts documents through the pandoc binary.
type Pandoc struct {
	tool
}

// NewPandoc creates a Pandoc tool using the default executor.
func NewPandoc() *Pandoc {
	return newPandoc(defaultExec)
}

func newPandoc(exec executor) *Pandoc {
	return &Pandoc{tool{
		bin:        binPandoc,
		candidates: pandocCandidates,
		exec:       exec,
	}}
}

// Name returns the tool name.
func (p *Pandoc) Name() string { return binPandoc }

// Convert renders input as PDF at the exact output path.
func (p *Pandoc) Convert(ctx context.Context, input, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return p.run(ctx, input, "-o", output)
}
