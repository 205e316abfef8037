// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"context"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	pathBins     map[string]bool // binary -> whether LookPath succeeds
	files        map[string]bool // absolute path -> whether FileExists succeeds
	runnableCmds map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	ranCommands  []string        // every RunOutput invocation, joined
	runOutput    string
	runErr       error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.pathBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errNotFound(file)
}

func (m *mockExecutor) FileExists(path string) bool {
	return m.files[path]
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errNotFound(key)
}

func (m *mockExecutor) RunOutput(ctx context.Context, name string, args ...string) (string, error) {
	m.ranCommands = append(m.ranCommands, name+" "+strings.Join(args, " "))
	return m.runOutput, m.runErr
}

type errNotFound string

func (e errNotFound) Error() string { return "not found: " + string(e) }

func TestToolResolve(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantPath string
	}{
		{
			name: "candidate path preferred over PATH",
			exec: &mockExecutor{
				files:    map[string]bool{"/usr/bin/libreoffice": true},
				pathBins: map[string]bool{"libreoffice": true},
			},
			wantPath: "/usr/bin/libreoffice",
		},
		{
			name: "macOS app bundle found first",
			exec: &mockExecutor{
				files: map[string]bool{
					"/Applications/LibreOffice.app/Contents/MacOS/soffice": true,
				},
			},
			wantPath: "/Applications/LibreOffice.app/Contents/MacOS/soffice",
		},
		{
			name:     "PATH fallback",
			exec:     &mockExecutor{pathBins: map[string]bool{"libreoffice": true}},
			wantPath: "/usr/bin/libreoffice",
		},
		{
			name:     "not installed",
			exec:     &mockExecutor{},
			wantPath: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo := newLibreOffice(tt.exec)
			if got := lo.resolve(); got != tt.wantPath {
				t.Errorf("resolve() = %q, want %q", got, tt.wantPath)
			}
		})
	}
}

func TestToolAvailable(t *testing.T) {
	exec := &mockExecutor{
		pathBins:     map[string]bool{"pandoc": true},
		runnableCmds: map[string]bool{"/usr/bin/pandoc --version": true},
	}
	p := newPandoc(exec)
	if !p.Available() {
		t.Error("pandoc should be available")
	}

	// Binary present but version probe fails.
	broken := newPandoc(&mockExecutor{pathBins: map[string]bool{"pandoc": true}})
	if broken.Available() {
		t.Error("pandoc with failing --version should not be available")
	}

	missing := newPandoc(&mockExecutor{})
	if missing.Available() {
		t.Error("missing pandoc should not be available")
	}
}

func TestLibreOfficeConvert(t *testing.T) {
	exec := &mockExecutor{pathBins: map[string]bool{"libreoffice": true}}
	lo := newLibreOffice(exec)

	outDir := t.TempDir()
	if err := lo.Convert(context.Background(), "in.docx", outDir); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if len(exec.ranCommands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(exec.ranCommands))
	}
	cmd := exec.ranCommands[0]
	for _, part := range []string{"--headless", "--convert-to pdf", "--outdir " + outDir, "in.docx"} {
		if !strings.Contains(cmd, part) {
			t.Errorf("command %q missing %q", cmd, part)
		}
	}
}

func TestPandocConvert(t *testing.T) {
	exec := &mockExecutor{pathBins: map[string]bool{"pandoc": true}}
	p := newPandoc(exec)

	out := t.TempDir() + "/out/report.pdf"
	if err := p.Convert(context.Background(), "report.docx", out); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if len(exec.ranCommands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(exec.ranCommands))
	}
	want := "/usr/bin/pandoc report.docx -o " + out
	if exec.ranCommands[0] != want {
		t.Errorf("command = %q, want %q", exec.ranCommands[0], want)
	}
}

func TestRunIncludesStderrInError(t *testing.T) {
	exec := &mockExecutor{
		pathBins:  map[string]bool{"pandoc": true},
		runOutput: "pandoc: unknown input format\n",
		runErr:    errNotFound("exit status 1"),
	}
	p := newPandoc(exec)

	err := p.Convert(context.Background(), "weird.docx", t.TempDir()+"/out.pdf")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unknown input format") {
		t.Errorf("error %q should include tool output", err)
	}
}
