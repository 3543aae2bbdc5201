package extractor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/1am2syman/omni-pdf/builder"
	"github.com/1am2syman/omni-pdf/contentstream"
	"github.com/1am2syman/omni-pdf/writer"
)

// writeTextPDF produces a minimal born-digital PDF with a visible text run.
func writeTextPDF(t *testing.T, text string) string {
	t.Helper()
	b := builder.NewBuilder()
	b.NewPage(612, 792).DrawText(text, 72, 700, builder.TextOptions{FontSize: 12, RenderMode: contentstream.TextFill})
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	var buf bytes.Buffer
	if err := writer.New().Write(context.Background(), doc, &buf, writer.Config{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "sample.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestOpenAndExtract(t *testing.T) {
	path := writeTextPDF(t, "hello extractor")
	e, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Close()

	if e.PageCount() != 1 {
		t.Fatalf("PageCount() = %d, want 1", e.PageCount())
	}
	text, err := e.PageText(0)
	if err != nil {
		t.Fatalf("PageText() error = %v", err)
	}
	if text == "" {
		t.Fatalf("expected embedded text, got empty string")
	}
}

func TestPageTextOutOfRange(t *testing.T) {
	e, err := Open(writeTextPDF(t, "x"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Close()
	if _, err := e.PageText(5); err == nil {
		t.Fatalf("expected range error")
	}
	if _, err := e.PageText(-1); err == nil {
		t.Fatalf("expected range error for negative index")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	e, err := Open(writeTextPDF(t, "x"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestHasUsableText(t *testing.T) {
	if HasUsableText("  \n\t ") {
		t.Fatalf("whitespace-only text should not count as usable")
	}
	if !HasUsableText("Invoice 42") {
		t.Fatalf("real text should count as usable")
	}
}
