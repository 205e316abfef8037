// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/bkhodirov/fileconv/pkg/types"
)

const (
	// sheetCellLimit truncates cell text so a single value cannot blow up
	// the grid layout.
	sheetCellLimit = 60
	sheetMargin    = 10.0 // mm
)

// SheetBackend renders XLSX workbooks as bordered text grids, one sheet
// per page, landscape A4. It handles the modern format only; legacy .xls
// files fall through to the LibreOffice backend.
type SheetBackend struct{}

// NewSheetBackend creates the native spreadsheet renderer.
func NewSheetBackend() *SheetBackend { return &SheetBackend{} }

// Name returns "sheet".
func (b *SheetBackend) Name() string { return "sheet" }

// Supports reports true for XLSX.
func (b *SheetBackend) Supports(f types.Format) bool {
	return f == types.FormatXlsx
}

// Convert reads every sheet and renders its populated rows as a grid with
// an emphasized header row.
func (b *SheetBackend) Convert(ctx context.Context, doc types.Document) error {
	wb, err := excelize.OpenFile(doc.SourcePath)
	if err != nil {
		return fmt.Errorf("opening workbook %s: %w", doc.SourcePath, err)
	}
	defer wb.Close()

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, sheetMargin)

	rendered := 0
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		rows = normalizeRows(rows)
		if len(rows) == 0 {
			continue
		}

		pdf.AddPage()
		renderGrid(pdf, sheet, rows)
		rendered++
	}

	if rendered == 0 {
		return fmt.Errorf("workbook %s has no populated sheets", doc.SourcePath)
	}

	if err := pdf.OutputFileAndClose(doc.OutputPath); err != nil {
		return fmt.Errorf("writing PDF for %s: %w", doc.SourcePath, err)
	}
	return nil
}

// normalizeRows drops empty rows and pads ragged rows to a uniform width.
func normalizeRows(rows [][]string) [][]string {
	maxCols := 0
	var kept [][]string
	for _, row := range rows {
		empty := true
		for _, cell := range row {
			if cell != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		if len(row) > maxCols {
			maxCols = len(row)
		}
		kept = append(kept, row)
	}
	for i, row := range kept {
		for len(row) < maxCols {
			row = append(row, "")
		}
		kept[i] = row
	}
	return kept
}

func renderGrid(pdf *fpdf.Fpdf, sheet string, rows [][]string) {
	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*sheetMargin
	colW := usable / float64(len(rows[0]))

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(usable, 8, sheet, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for i, row := range rows {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 8)
			pdf.SetFillColor(220, 220, 220)
		} else {
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetFillColor(255, 255, 255)
		}
		for _, cell := range row {
			pdf.CellFormat(colW, 6, truncateCell(cell), "1", 0, "L", i == 0, 0, "")
		}
		pdf.Ln(-1)
	}
}

func truncateCell(s string) string {
	if len(s) <= sheetCellLimit {
		return s
	}
	return s[:sheetCellLimit-3] + "..."
}
