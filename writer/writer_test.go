package writer

import (
	"bytes"
	"compress/flate"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/1am2syman/omni-pdf/builder"
	"github.com/1am2syman/omni-pdf/contentstream"
	"github.com/1am2syman/omni-pdf/ir/semantic"
)

func sampleDoc(t *testing.T) *semantic.Document {
	t.Helper()
	b := builder.NewBuilder()
	pb := b.NewPage(612, 792)
	img := &semantic.Image{Width: 2, Height: 2, BitsPerComponent: 8, Data: make([]byte, 12)}
	pb.DrawImage(img, 0, 0, 612, 792, builder.ImageOptions{})
	pb.DrawText("hidden", 72, 700, builder.TextOptions{FontSize: 11, RenderMode: contentstream.TextInvisible})
	doc, err := pb.Finish().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return doc
}

func writeDoc(t *testing.T, doc *semantic.Document, cfg Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := New().Write(context.Background(), doc, &buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return buf.Bytes()
}

func TestWriteStructure(t *testing.T) {
	out := string(writeDoc(t, sampleDoc(t), Config{}))
	for _, want := range []string{
		"%PDF-1.7\n",
		"/Type /Catalog",
		"/Type /Pages",
		"/Type /Page",
		"/Subtype /Image",
		"/BaseFont /Helvetica",
		"/Encoding /WinAnsiEncoding",
		"3 Tr",
		"(hidden) Tj",
		"startxref",
		"%%EOF",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestWriteCompressedContent(t *testing.T) {
	out := string(writeDoc(t, sampleDoc(t), Config{Compression: 6}))
	if !strings.Contains(out, "/Filter /FlateDecode") {
		t.Fatalf("compressed output missing FlateDecode filter")
	}
	if strings.Contains(out, "(hidden) Tj") {
		t.Fatalf("content stream left uncompressed")
	}
}

func TestWriteDCTPassthrough(t *testing.T) {
	doc := sampleDoc(t)
	xo := doc.Pages[0].Resources.XObjects["Im1"]
	xo.Filter = "DCTDecode"
	xo.Data = []byte{0xFF, 0xD8, 0xFF}
	doc.Pages[0].Resources.XObjects["Im1"] = xo

	out := writeDoc(t, doc, Config{Compression: 6})
	if !bytes.Contains(out, []byte("/Filter /DCTDecode")) {
		t.Fatalf("DCT filter not preserved")
	}
	if !bytes.Contains(out, []byte{0xFF, 0xD8, 0xFF}) {
		t.Fatalf("pre-encoded image bytes were re-encoded")
	}
}

func TestWriteDeterministicID(t *testing.T) {
	a := writeDoc(t, sampleDoc(t), Config{Deterministic: true})
	b := writeDoc(t, sampleDoc(t), Config{Deterministic: true})
	if !bytes.Equal(a, b) {
		t.Fatalf("deterministic writes differ")
	}
}

func TestWriteEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(context.Background(), &semantic.Document{}, &buf, Config{}); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestWriteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := New().Write(ctx, sampleDoc(t), &buf, Config{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestWriteInfoDictionary(t *testing.T) {
	doc := sampleDoc(t)
	doc.Info = &semantic.DocumentInfo{Title: "Scan (2026)", Producer: "omni-pdf"}
	out := string(writeDoc(t, doc, Config{}))
	if !strings.Contains(out, `/Title (Scan \(2026\))`) {
		t.Fatalf("title not escaped: %s", out[:200])
	}
	if !strings.Contains(out, "/Info ") {
		t.Fatalf("trailer missing /Info reference")
	}
}

func TestFlateRoundTrip(t *testing.T) {
	data := []byte("BT /F1 11 Tf (hello) Tj ET\n")
	enc, err := flateEncode(data, 6)
	if err != nil {
		t.Fatalf("flateEncode() error = %v", err)
	}
	dec, err := io.ReadAll(flate.NewReader(bytes.NewReader(enc)))
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatalf("round trip mismatch: %q", dec)
	}
}

func TestEscapeLiteralString(t *testing.T) {
	got := string(escapeLiteralString([]byte("a(b)\\c\nd\xff")))
	want := `(a\(b\)\\c\nd\377)`
	if got != want {
		t.Fatalf("escapeLiteralString = %q, want %q", got, want)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := formatNumber(612); got != "612" {
		t.Fatalf("formatNumber(612) = %q", got)
	}
	if got := formatNumber(10.25); got != "10.25" {
		t.Fatalf("formatNumber(10.25) = %q", got)
	}
}

func TestSerializeContentStreamPrefersRawBytes(t *testing.T) {
	cs := semantic.ContentStream{
		RawBytes:   []byte("raw"),
		Operations: []semantic.Operation{{Operator: "BT"}},
	}
	if got := string(serializeContentStream(cs)); got != "raw" {
		t.Fatalf("serializeContentStream = %q", got)
	}
}
