// Package extractor pulls embedded text out of born-digital PDFs. It uses
// ledongthuc/pdf (pure Go, no CGO) so text-mode runs on PDFs with a real
// text layer never touch the OCR engine. Scanned PDFs come back with empty
// or whitespace-only page text; callers fall back to rasterization and OCR
// for those pages.
package extractor

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor reads the embedded text layer of a single PDF file.
type Extractor struct {
	file   *os.File
	reader *pdf.Reader
}

// Open prepares a PDF for per-page text extraction.
func Open(path string) (*Extractor, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &Extractor{file: f, reader: r}, nil
}

// PageCount reports the number of pages in the document.
func (e *Extractor) PageCount() int { return e.reader.NumPage() }

// PageText extracts the embedded text of the zero-based page index. A page
// without a text layer yields an empty string, not an error.
func (e *Extractor) PageText(index int) (text string, err error) {
	// The underlying parser panics on some malformed content streams;
	// surface those as ordinary extraction errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract page %d: %v", index, r)
		}
	}()

	if index < 0 || index >= e.reader.NumPage() {
		return "", fmt.Errorf("page index %d out of range [0,%d)", index, e.reader.NumPage())
	}
	page := e.reader.Page(index + 1)
	if page.V.IsNull() {
		return "", nil
	}
	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract page %d: %w", index, err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases the underlying file handle.
func (e *Extractor) Close() error {
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

// HasUsableText reports whether extracted page text is substantial enough to
// skip OCR. Whitespace-only output means the page has no real text layer.
func HasUsableText(text string) bool {
	return strings.TrimSpace(text) != ""
}
