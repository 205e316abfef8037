// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bootstrap checks for the external tools the pipeline uses and
// conditionally installs the missing ones. Each prerequisite is a
// check-then-install step; a failing install is reported, not fatal, so a
// partial toolchain still converts whatever it can.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bkhodirov/fileconv/pkg/types"
)

// pipPackages is the helper-library set the original converter scripts
// installed; kept for environments that still run those scripts alongside
// fileconv.
var pipPackages = []string{
	"docx2pdf",
	"python-docx",
	"openpyxl",
	"python-pptx",
	"Pillow",
	"reportlab",
	"xlsxwriter",
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	FileExists(path string) bool
	RunSilent(name string, args ...string) error
	RunOutput(ctx context.Context, name string, args ...string) (string, error)
}

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

var defaultExec executor = &osExecutor{}

// StepStatus reports how a bootstrap step concluded.
type StepStatus string

const (
	StepPresent   StepStatus = "present"   // probe succeeded, nothing to do
	StepInstalled StepStatus = "installed" // install ran and the probe now succeeds
	StepFailed    StepStatus = "failed"    // install ran and failed
	StepSkipped   StepStatus = "skipped"   // installer unavailable (e.g. no brew)
)

// StepResult is the outcome of one bootstrap step.
type StepResult struct {
	Name   string
	Status StepStatus
	Err    error
}

// step is one check-then-install action.
type step struct {
	name    string
	probe   string   // binary looked up on PATH
	install []string // install command; empty slice means probe-only
}

// Runner executes bootstrap steps.
type Runner struct {
	cfg  types.BootstrapConfig
	exec executor
}

// NewRunner creates a bootstrap runner for the given configuration.
func NewRunner(cfg types.BootstrapConfig) *Runner {
	return &Runner{cfg: cfg, exec: defaultExec}
}

// Available reports which of the named tools resolve on PATH.
func Available(tools ...string) map[string]bool {
	return available(defaultExec, tools...)
}

func available(e executor, tools ...string) map[string]bool {
	result := make(map[string]bool, len(tools))
	for _, tool := range tools {
		_, err := e.LookPath(tool)
		result[tool] = err == nil
	}
	return result
}

// Run executes every applicable step, printing per-step lines to w.
// Individual failures do not abort the run; the returned results let the
// caller decide what is fatal.
func (r *Runner) Run(ctx context.Context, w io.Writer) []StepResult {
	var steps []step

	if r.cfg.WithBrew {
		if _, err := r.exec.LookPath("brew"); err != nil {
			fmt.Fprintln(w, "brew not found; skipping Homebrew-managed tools")
			steps = append(steps,
				step{name: "pandoc", probe: "pandoc"},
				step{name: "libreoffice", probe: "libreoffice"},
			)
		} else {
			steps = append(steps,
				step{name: "pandoc", probe: "pandoc", install: []string{"brew", "install", "pandoc"}},
				step{name: "libreoffice", probe: "libreoffice", install: []string{"brew", "install", "--cask", "libreoffice"}},
			)
		}
	} else {
		steps = append(steps,
			step{name: "pandoc", probe: "pandoc"},
			step{name: "libreoffice", probe: "libreoffice"},
		)
	}

	results := make([]StepResult, 0, len(steps)+len(pipPackages))
	for _, s := range steps {
		results = append(results, r.runStep(ctx, s, w))
	}
	results = append(results, r.installPipPackages(ctx, w)...)

	installed, failed := 0, 0
	for _, res := range results {
		switch res.Status {
		case StepInstalled:
			installed++
		case StepFailed:
			failed++
		}
	}
	fmt.Fprintf(w, "\nBootstrap summary: %d step(s), %d installed, %d failed\n",
		len(results), installed, failed)
	return results
}

func (r *Runner) runStep(ctx context.Context, s step, w io.Writer) StepResult {
	if _, err := r.exec.LookPath(s.probe); err == nil {
		fmt.Fprintf(w, "present:   %s\n", s.name)
		return StepResult{Name: s.name, Status: StepPresent}
	}

	if len(s.install) == 0 {
		fmt.Fprintf(w, "missing:   %s (no installer configured)\n", s.name)
		return StepResult{Name: s.name, Status: StepSkipped}
	}

	fmt.Fprintf(w, "installing: %s\n", s.name)
	out, err := r.exec.RunOutput(ctx, s.install[0], s.install[1:]...)
	if err != nil {
		msg := strings.TrimSpace(out)
		wrapped := fmt.Errorf("installing %s: %w", s.name, err)
		if msg != "" {
			wrapped = fmt.Errorf("installing %s: %w: %s", s.name, err, msg)
		}
		fmt.Fprintf(w, "failed:    %s (%v)\n", s.name, err)
		return StepResult{Name: s.name, Status: StepFailed, Err: wrapped}
	}

	fmt.Fprintf(w, "installed: %s\n", s.name)
	return StepResult{Name: s.name, Status: StepInstalled}
}

// installPipPackages installs the Python helper packages one by one,
// tolerating per-package failures. When cfg.VenvDir exists its pip is used;
// otherwise the system python3 -m pip.
func (r *Runner) installPipPackages(ctx context.Context, w io.Writer) []StepResult {
	pip := r.pipCommand()
	if pip == nil {
		fmt.Fprintln(w, "pip not found; skipping Python packages")
		results := make([]StepResult, 0, len(pipPackages))
		for _, pkg := range pipPackages {
			results = append(results, StepResult{Name: pkg, Status: StepSkipped})
		}
		return results
	}

	results := make([]StepResult, 0, len(pipPackages))
	for _, pkg := range pipPackages {
		args := append(append([]string{}, pip[1:]...), "install", pkg)
		if _, err := r.exec.RunOutput(ctx, pip[0], args...); err != nil {
			fmt.Fprintf(w, "warning:   %s install failed: %v\n", pkg, err)
			results = append(results, StepResult{
				Name:   pkg,
				Status: StepFailed,
				Err:    fmt.Errorf("installing %s: %w", pkg, err),
			})
			continue
		}
		fmt.Fprintf(w, "installed: %s\n", pkg)
		results = append(results, StepResult{Name: pkg, Status: StepInstalled})
	}
	return results
}

// pipCommand returns the pip invocation to use: the local virtualenv's pip
// when the venv directory exists, the system python3 -m pip otherwise, or
// nil when neither is present.
func (r *Runner) pipCommand() []string {
	if r.cfg.VenvDir != "" {
		venvPip := filepath.Join(r.cfg.VenvDir, "bin", "pip")
		if r.exec.FileExists(venvPip) {
			return []string{venvPip}
		}
	}
	if _, err := r.exec.LookPath("python3"); err == nil {
		return []string{"python3", "-m", "pip"}
	}
	return nil
}
