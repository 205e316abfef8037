// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/bkhodirov/fileconv/pkg/types"
)

// Letter page size in points.
const (
	letterWidth  = 612.0
	letterHeight = 792.0
	// imageScale leaves a margin around the image: it is scaled to at most
	// 80% of the page in each dimension, aspect ratio preserved.
	imageScale = 0.8
)

// ImageBackend renders PNG images onto a Letter-size PDF page natively,
// with no external tool.
type ImageBackend struct{}

// NewImageBackend creates the native image renderer.
func NewImageBackend() *ImageBackend { return &ImageBackend{} }

// Name returns "image".
func (b *ImageBackend) Name() string { return "image" }

// Supports reports true for PNG.
func (b *ImageBackend) Supports(f types.Format) bool {
	return f == types.FormatPng
}

// Convert places the image centered on a single Letter page, scaled to fit
// while preserving aspect ratio.
func (b *ImageBackend) Convert(ctx context.Context, doc types.Document) error {
	f, err := os.Open(doc.SourcePath)
	if err != nil {
		return fmt.Errorf("opening image %s: %w", doc.SourcePath, err)
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decoding image %s: %w", doc.SourcePath, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("image %s has empty dimensions", doc.SourcePath)
	}

	scale := letterWidth * imageScale / float64(cfg.Width)
	if s := letterHeight * imageScale / float64(cfg.Height); s < scale {
		scale = s
	}
	w := float64(cfg.Width) * scale
	h := float64(cfg.Height) * scale
	x := (letterWidth - w) / 2
	y := (letterHeight - h) / 2

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pdf.ImageOptions(doc.SourcePath, x, y, w, h, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if err := pdf.OutputFileAndClose(doc.OutputPath); err != nil {
		return fmt.Errorf("writing PDF for %s: %w", doc.SourcePath, err)
	}
	return nil
}
