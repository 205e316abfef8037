// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the fileconv pipeline.
package types

import (
	"path/filepath"
	"strings"
	"time"
)

// Format identifies a source document format, derived from the file extension.
type Format string

const (
	FormatDocx    Format = "docx"
	FormatDoc     Format = "doc"
	FormatXlsx    Format = "xlsx"
	FormatXls     Format = "xls"
	FormatPptx    Format = "pptx"
	FormatPpt     Format = "ppt"
	FormatPng     Format = "png"
	FormatPdf     Format = "pdf"
	FormatUnknown Format = ""
)

// ConvertibleFormats lists the formats the pipeline converts to PDF.
// PDFs themselves are mirrored, not converted.
var ConvertibleFormats = []Format{
	FormatDocx, FormatDoc, FormatXlsx, FormatXls, FormatPptx, FormatPpt, FormatPng,
}

// FormatOf classifies a path by its extension. The match is
// case-insensitive; unrecognized extensions yield FormatUnknown.
func FormatOf(path string) Format {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "docx", "doc", "xlsx", "xls", "pptx", "ppt", "png", "pdf":
		return Format(ext)
	}
	return FormatUnknown
}

// Convertible reports whether the format is converted to PDF (as opposed
// to mirrored or ignored).
func (f Format) Convertible() bool {
	for _, c := range ConvertibleFormats {
		if f == c {
			return true
		}
	}
	return false
}

// ConversionStatus indicates the outcome recorded for a document.
type ConversionStatus string

const (
	ConversionNone   ConversionStatus = "none"
	ConversionDone   ConversionStatus = "converted"
	ConversionCopied ConversionStatus = "copied"
	ConversionFailed ConversionStatus = "failed"
)

// Document describes one source file discovered under the source tree and
// the PDF output planned for it.
type Document struct {
	// ID is the slash-separated source path relative to the source root,
	// without extension (e.g. "reports/2023/q1-summary").
	ID string `json:"id" yaml:"id"`

	// SourcePath is the absolute or working-directory-relative path to the
	// source file.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// RelDir is the directory of the source file relative to the source
	// root ("." for top-level files). Mirrored under the target root.
	RelDir string `json:"rel_dir" yaml:"rel_dir"`

	// OutputPath is the planned PDF (or copied-PDF) destination.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Format is the classified source format.
	Format Format `json:"format" yaml:"format"`

	// Size is the source file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// ModTime is the source file modification time.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}
