package synth

import (
	"bytes"
	"context"
	"image"
	"strings"
	"testing"

	"github.com/1am2syman/omni-pdf/coords"
	"github.com/1am2syman/omni-pdf/ocr"
	"github.com/1am2syman/omni-pdf/raster"
)

func letterPage(t *testing.T) *raster.Page {
	t.Helper()
	// 2550x3300 at 300 DPI maps to US Letter; use a small raster at the
	// same aspect to keep tests fast.
	return raster.FromImage(image.NewNRGBA(image.Rect(0, 0, 255, 330)), 30)
}

func TestAddPageAndWrite(t *testing.T) {
	s := New(Options{Deterministic: true})
	lines := []ocr.Line{
		{Text: "Invoice 42", Bounds: coords.Rect{X: 10, Y: 10, Width: 100, Height: 12}},
		{Text: "Total: 99", Bounds: coords.Rect{X: 10, Y: 40, Width: 80, Height: 12}},
	}
	stats := s.AddPage(letterPage(t), lines)
	if stats.Lines != 2 || stats.Skipped != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if s.PageCount() != 1 {
		t.Fatalf("PageCount() = %d", s.PageCount())
	}

	var buf bytes.Buffer
	if err := s.Write(context.Background(), &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"3 Tr", "(Invoice 42) Tj", "/Subtype /Image", "/MediaBox [0 0 612 792]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestAddPageWithoutLines(t *testing.T) {
	s := New(Options{})
	stats := s.AddPage(letterPage(t), nil)
	if stats.Lines != 0 || stats.Skipped != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	var buf bytes.Buffer
	if err := s.Write(context.Background(), &buf); err != nil {
		t.Fatalf("a page without text must still be written: %v", err)
	}
	if !strings.Contains(buf.String(), "/Subtype /Image") {
		t.Fatalf("image-only page missing its background image")
	}
}

func TestAddPageSkipsUnencodableLine(t *testing.T) {
	s := New(Options{})
	lines := []ocr.Line{
		{Text: "　　", Bounds: coords.Rect{X: 0, Y: 0, Width: 10, Height: 10}},
		{Text: "kept", Bounds: coords.Rect{X: 0, Y: 20, Width: 10, Height: 10}},
	}
	stats := s.AddPage(letterPage(t), lines)
	if stats.Skipped != 1 || stats.Lines != 1 {
		t.Fatalf("stats = %+v, want one skipped and one kept", stats)
	}
}

func TestDeterministicOutput(t *testing.T) {
	render := func() []byte {
		s := New(Options{Deterministic: true})
		s.AddPage(letterPage(t), []ocr.Line{{Text: "same", Bounds: coords.Rect{X: 1, Y: 1, Width: 20, Height: 8}}})
		var buf bytes.Buffer
		if err := s.Write(context.Background(), &buf); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(render(), render()) {
		t.Fatalf("deterministic renders differ")
	}
}

func TestEncodeLineASCII(t *testing.T) {
	got, ok := encodeLine("plain text 123")
	if !ok || string(got) != "plain text 123" {
		t.Fatalf("encodeLine = %q, %v", got, ok)
	}
}

func TestEncodeLineLatin1AndCP1252(t *testing.T) {
	got, ok := encodeLine("café — 5€")
	if !ok {
		t.Fatalf("expected encodable line")
	}
	want := []byte{'c', 'a', 'f', 0xE9, ' ', 0x97, ' ', '5', 0x80}
	if !bytes.Equal(got, want) {
		t.Fatalf("encodeLine = %v, want %v", got, want)
	}
}

func TestEncodeLineTransliterates(t *testing.T) {
	got, ok := encodeLine("Ωmega")
	if !ok {
		t.Fatalf("expected encodable line")
	}
	if strings.Contains(string(got), "Ω") {
		t.Fatalf("greek rune leaked through: %q", got)
	}
	if !strings.HasSuffix(string(got), "mega") {
		t.Fatalf("tail mangled: %q", got)
	}
}

func TestEncodeLineEmpty(t *testing.T) {
	if _, ok := encodeLine("   "); ok {
		t.Fatalf("whitespace-only line should not be encodable")
	}
}
