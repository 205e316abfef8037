// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bkhodirov/fileconv/internal/office"
	"github.com/bkhodirov/fileconv/pkg/types"
)

const (
	defaultOfficeTimeout = 120 * time.Second
	defaultPandocTimeout = 60 * time.Second
)

// dirTool converts into a directory, naming its own output (LibreOffice).
type dirTool interface {
	Available() bool
	Convert(ctx context.Context, input, outDir string) error
}

// pathTool converts to an exact output path (Pandoc).
type pathTool interface {
	Available() bool
	Convert(ctx context.Context, input, output string) error
}

// LibreOfficeBackend converts office documents through a headless
// LibreOffice process. LibreOffice writes the output as the input basename
// with a .pdf extension, so the backend renames when the planned output
// path differs.
type LibreOfficeBackend struct {
	tool    dirTool
	timeout time.Duration
}

// NewLibreOfficeBackend wraps a LibreOffice tool. A zero timeout uses the
// default (120s per document).
func NewLibreOfficeBackend(tool *office.LibreOffice, timeout time.Duration) *LibreOfficeBackend {
	if timeout <= 0 {
		timeout = defaultOfficeTimeout
	}
	return &LibreOfficeBackend{tool: tool, timeout: timeout}
}

// Name returns "libreoffice".
func (b *LibreOfficeBackend) Name() string { return "libreoffice" }

// Supports reports true for every office format. Images are left to the
// native image backend.
func (b *LibreOfficeBackend) Supports(f types.Format) bool {
	switch f {
	case types.FormatDocx, types.FormatDoc, types.FormatXlsx, types.FormatXls,
		types.FormatPptx, types.FormatPpt:
		return true
	}
	return false
}

// Convert runs soffice --headless --convert-to pdf and moves the generated
// file onto doc.OutputPath when the names differ.
func (b *LibreOfficeBackend) Convert(ctx context.Context, doc types.Document) error {
	if !b.tool.Available() {
		return fmt.Errorf("libreoffice not available")
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	outDir := filepath.Dir(doc.OutputPath)
	if err := b.tool.Convert(ctx, doc.SourcePath, outDir); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(doc.SourcePath), filepath.Ext(doc.SourcePath))
	generated := filepath.Join(outDir, base+".pdf")

	if generated != doc.OutputPath {
		if err := os.Rename(generated, doc.OutputPath); err != nil {
			return fmt.Errorf("renaming %s: %w", generated, err)
		}
	}

	if _, err := os.Stat(doc.OutputPath); err != nil {
		return fmt.Errorf("libreoffice reported success but produced no output for %s", doc.SourcePath)
	}
	return nil
}

// PandocBackend converts DOCX documents through the pandoc binary.
type PandocBackend struct {
	tool    pathTool
	timeout time.Duration
}

// NewPandocBackend wraps a Pandoc tool. A zero timeout uses the default
// (60s per document).
func NewPandocBackend(tool *office.Pandoc, timeout time.Duration) *PandocBackend {
	if timeout <= 0 {
		timeout = defaultPandocTimeout
	}
	return &PandocBackend{tool: tool, timeout: timeout}
}

// Name returns "pandoc".
func (b *PandocBackend) Name() string { return "pandoc" }

// Supports reports true for DOCX only; pandoc has no reader for the legacy
// binary formats or spreadsheets.
func (b *PandocBackend) Supports(f types.Format) bool {
	return f == types.FormatDocx
}

// Convert runs pandoc with the exact output path.
func (b *PandocBackend) Convert(ctx context.Context, doc types.Document) error {
	if !b.tool.Available() {
		return fmt.Errorf("pandoc not available")
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.tool.Convert(ctx, doc.SourcePath, doc.OutputPath); err != nil {
		return err
	}
	if _, err := os.Stat(doc.OutputPath); err != nil {
		return fmt.Errorf("pandoc reported success but produced no output for %s", doc.SourcePath)
	}
	return nil
}
