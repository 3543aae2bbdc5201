// Package writer serializes semantic PDF documents to the PDF 1.7 file
// format: catalog, page tree, font and image XObject resources, content
// streams, cross-reference table and trailer.
package writer

import (
	"context"
	"io"

	"github.com/1am2syman/omni-pdf/ir/semantic"
)

type PDFVersion string

const (
	PDF17 PDFVersion = "1.7"
)

// Config controls serialization behavior.
type Config struct {
	// Version selects the PDF header version; empty means 1.7.
	Version PDFVersion
	// Compression is the flate level applied to content streams and raw
	// image data. Zero disables compression; pre-encoded images (DCTDecode)
	// pass through untouched either way.
	Compression int
	// Deterministic derives the file /ID from document content so identical
	// inputs produce identical bytes.
	Deterministic bool
}

// Writer emits a complete PDF file for a semantic document.
type Writer interface {
	Write(ctx context.Context, doc *semantic.Document, w io.Writer, cfg Config) error
}

// New constructs the default writer.
func New() Writer { return &impl{} }
