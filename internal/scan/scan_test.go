// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkhodirov/fileconv/pkg/types"
)

// writeFile creates a file with dummy content, making parent directories
// as needed.
func writeFile(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
}

func TestPlan(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "report.docx")
	writeFile(t, source, "2023/q1/numbers.XLSX")
	writeFile(t, source, "2023/q1/chart.png")
	writeFile(t, source, "notes.txt")        // unsupported, ignored
	writeFile(t, source, "archive/done.pdf") // not convertible

	docs, err := Plan(source, target, nil)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	byID := make(map[string]types.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	report, ok := byID["report"]
	require.True(t, ok)
	assert.Equal(t, types.FormatDocx, report.Format)
	assert.Equal(t, ".", report.RelDir)
	assert.Equal(t, filepath.Join(target, "report.pdf"), report.OutputPath)
	assert.Equal(t, int64(len("content")), report.Size)
	assert.False(t, report.ModTime.IsZero())

	numbers, ok := byID["2023/q1/numbers"]
	require.True(t, ok)
	assert.Equal(t, types.FormatXlsx, numbers.Format, "extension match is case-insensitive")
	assert.Equal(t, filepath.Join(target, "2023", "q1", "numbers.pdf"), numbers.OutputPath)

	chart, ok := byID["2023/q1/chart"]
	require.True(t, ok)
	assert.Equal(t, types.FormatPng, chart.Format)
}

func TestPlan_PDFFilterKeepsFilename(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, source, "docs/manual.pdf")
	writeFile(t, source, "docs/manual.docx")

	docs, err := Plan(source, target, func(f types.Format) bool {
		return f == types.FormatPdf
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, filepath.Join(target, "docs", "manual.pdf"), docs[0].OutputPath)
	assert.Equal(t, types.FormatPdf, docs[0].Format)
}

func TestPlan_Deterministic(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	for _, name := range []string{"c.docx", "a.docx", "b/x.docx"} {
		writeFile(t, source, name)
	}

	first, err := Plan(source, target, nil)
	require.NoError(t, err)
	second, err := Plan(source, target, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCensus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.docx")
	writeFile(t, dir, "sub/b.docx")
	writeFile(t, dir, "sub/c.png")
	writeFile(t, dir, "d.txt")

	counts, err := Census(dir, types.ConvertibleFormats)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[types.FormatDocx])
	assert.Equal(t, 1, counts[types.FormatPng])
	assert.Equal(t, 0, counts[types.FormatXlsx])
	assert.Equal(t, 3, Total(counts))
}

func TestCensus_MissingDirectory(t *testing.T) {
	counts, err := Census(filepath.Join(t.TempDir(), "nope"), types.ConvertibleFormats)
	require.NoError(t, err)
	assert.Equal(t, 0, Total(counts))
}
