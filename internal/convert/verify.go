// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// VerifyPDF checks that the file at path is a parseable PDF with at least
// one page. Backends occasionally exit zero while producing garbage;
// verification turns that into a chain failure.
func VerifyPDF(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("output missing: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output is empty")
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("parsing PDF: %w", err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return fmt.Errorf("PDF has no pages")
	}
	return nil
}
