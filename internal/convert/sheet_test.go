// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/bkhodirov/fileconv/pkg/types"
)

// writeWorkbook creates an XLSX file with the given sheets and returns its path.
func writeWorkbook(t *testing.T, dir string, sheets map[string][][]any) string {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	first := true
	for name, rows := range sheets {
		if first {
			if err := wb.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
			first = false
		} else {
			if _, err := wb.NewSheet(name); err != nil {
				t.Fatal(err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := wb.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(dir, "numbers.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSheetBackendConvert(t *testing.T) {
	tmpDir := t.TempDir()
	src := writeWorkbook(t, tmpDir, map[string][][]any{
		"Revenue": {
			{"Quarter", "Amount"},
			{"Q1", 1200},
			{"Q2", 1850},
		},
	})

	doc := types.Document{
		ID:         "numbers",
		SourcePath: src,
		OutputPath: filepath.Join(tmpDir, "numbers.pdf"),
		Format:     types.FormatXlsx,
	}

	b := NewSheetBackend()
	if !b.Supports(types.FormatXlsx) {
		t.Fatal("sheet backend should support xlsx")
	}
	if b.Supports(types.FormatXls) {
		t.Fatal("legacy xls is left to libreoffice")
	}

	if err := b.Convert(context.Background(), doc); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if err := VerifyPDF(doc.OutputPath); err != nil {
		t.Errorf("output should be a valid PDF: %v", err)
	}
}

func TestSheetBackendConvert_EmptyWorkbook(t *testing.T) {
	tmpDir := t.TempDir()
	src := writeWorkbook(t, tmpDir, map[string][][]any{"Empty": {}})

	doc := types.Document{
		SourcePath: src,
		OutputPath: filepath.Join(tmpDir, "empty.pdf"),
		Format:     types.FormatXlsx,
	}

	if err := NewSheetBackend().Convert(context.Background(), doc); err == nil {
		t.Fatal("expected error for workbook with no populated sheets")
	}
	if _, err := os.Stat(doc.OutputPath); err == nil {
		t.Error("no output should be written for an empty workbook")
	}
}

func TestNormalizeRows(t *testing.T) {
	rows := [][]string{
		{"a", "b", "c"},
		{"", "", ""},
		{"d"},
	}
	got := normalizeRows(rows)
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2 (empty row dropped)", len(got))
	}
	for i, row := range got {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", i, len(row))
		}
	}
}

func TestTruncateCell(t *testing.T) {
	long := make([]byte, sheetCellLimit+20)
	for i := range long {
		long[i] = 'x'
	}
	got := truncateCell(string(long))
	if len(got) != sheetCellLimit {
		t.Errorf("len = %d, want %d", len(got), sheetCellLimit)
	}
	if got[len(got)-3:] != "..." {
		t.Error("truncated cell should end with ellipsis")
	}
	if truncateCell("short") != "short" {
		t.Error("short cells pass through unchanged")
	}
}
