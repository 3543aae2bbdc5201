package builder

import (
	"image"
	"testing"

	"github.com/1am2syman/omni-pdf/contentstream"
	"github.com/1am2syman/omni-pdf/ir/semantic"
	"github.com/1am2syman/omni-pdf/raster"
)

func ops(t *testing.T, p *semantic.Page) []semantic.Operation {
	t.Helper()
	if len(p.Contents) == 0 {
		t.Fatalf("page has no content stream")
	}
	return p.Contents[0].Operations
}

func operators(ops []semantic.Operation) []string {
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.Operator)
	}
	return out
}

func TestDrawTextInvisible(t *testing.T) {
	b := NewBuilder()
	pb := b.NewPage(612, 792)
	pb.DrawText("hello", 100, 700, TextOptions{FontSize: 10, RenderMode: contentstream.TextInvisible})
	doc, err := pb.Finish().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	page := doc.Pages[0]

	got := operators(ops(t, page))
	want := []string{"BT", "Tf", "Tr", "Tm", "Tj", "ET"}
	if len(got) != len(want) {
		t.Fatalf("operators = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("operators = %v, want %v", got, want)
		}
	}

	tr := ops(t, page)[2]
	if n, ok := tr.Operands[0].(semantic.NumberOperand); !ok || n.Value != float64(contentstream.TextInvisible) {
		t.Fatalf("Tr operand = %v, want %d", tr.Operands, contentstream.TextInvisible)
	}
	if _, ok := page.Resources.Fonts["F1"]; !ok {
		t.Fatalf("default font not registered: %v", page.Resources.Fonts)
	}
	if page.Resources.Fonts["F1"].Encoding != "WinAnsiEncoding" {
		t.Fatalf("default font encoding = %q", page.Resources.Fonts["F1"].Encoding)
	}
}

func TestDrawTextFillOmitsRenderMode(t *testing.T) {
	b := NewBuilder()
	pb := b.NewPage(612, 792)
	pb.DrawText("x", 0, 0, TextOptions{})
	doc, _ := pb.Finish().Build()
	for _, op := range ops(t, doc.Pages[0]) {
		if op.Operator == "Tr" {
			t.Fatalf("fill mode should not emit Tr")
		}
	}
}

func TestDrawImage(t *testing.T) {
	b := NewBuilder()
	pb := b.NewPage(612, 792)
	img := &semantic.Image{Width: 10, Height: 5, BitsPerComponent: 8, Data: make([]byte, 150)}
	pb.DrawImage(img, 0, 0, 612, 792, ImageOptions{Interpolate: true})
	doc, _ := pb.Finish().Build()
	page := doc.Pages[0]

	got := operators(ops(t, page))
	want := []string{"q", "cm", "Do", "Q"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("operators = %v, want %v", got, want)
		}
	}
	xo, ok := page.Resources.XObjects["Im1"]
	if !ok {
		t.Fatalf("image XObject not registered: %v", page.Resources.XObjects)
	}
	if xo.Subtype != "Image" || !xo.Interpolate {
		t.Fatalf("unexpected xobject: %+v", xo)
	}
}

func TestImageNamesAreStablePerImage(t *testing.T) {
	b := NewBuilder().(*builderImpl)
	img := &semantic.Image{Width: 1, Height: 1}
	if a, c := b.imageName(img), b.imageName(img); a != c {
		t.Fatalf("same image got different names: %s vs %s", a, c)
	}
	other := &semantic.Image{Width: 1, Height: 1}
	if b.imageName(img) == b.imageName(other) {
		t.Fatalf("distinct images share a name")
	}
}

func TestBuildAssignsPageIndexes(t *testing.T) {
	b := NewBuilder()
	b.NewPage(100, 100).Finish().NewPage(200, 200)
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for i, p := range doc.Pages {
		if p.Index != i {
			t.Fatalf("page %d has index %d", i, p.Index)
		}
	}
}

func TestFromImageOpaque(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		src.Pix[i*4+0] = 10
		src.Pix[i*4+1] = 20
		src.Pix[i*4+2] = 30
		src.Pix[i*4+3] = 255
	}
	img := FromImage(src)
	if img.SMask != nil {
		t.Fatalf("opaque image should not carry a soft mask")
	}
	if len(img.Data) != 12 {
		t.Fatalf("packed data length = %d, want 12", len(img.Data))
	}
	if img.Data[0] != 10 || img.Data[1] != 20 || img.Data[2] != 30 {
		t.Fatalf("unexpected first pixel: %v", img.Data[:3])
	}
}

func TestFromImageWithAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.Pix[3] = 128
	img := FromImage(src)
	if img.SMask == nil {
		t.Fatalf("translucent image should carry a soft mask")
	}
	if img.SMask.Data[0] != 128 {
		t.Fatalf("mask sample = %d, want 128", img.SMask.Data[0])
	}
}

func TestFromPage(t *testing.T) {
	p := raster.FromImage(image.NewNRGBA(image.Rect(0, 0, 3, 2)), 300)
	img := FromPage(p)
	if img.Width != 3 || img.Height != 2 {
		t.Fatalf("dimensions = %dx%d", img.Width, img.Height)
	}
	if len(img.Data) != 18 {
		t.Fatalf("packed data length = %d, want 18", len(img.Data))
	}
	if img.ColorSpace.ColorSpaceName() != "DeviceRGB" {
		t.Fatalf("color space = %s", img.ColorSpace.ColorSpaceName())
	}
}
