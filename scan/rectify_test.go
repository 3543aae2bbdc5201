package scan

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/1am2syman/omni-pdf/coords"
	"github.com/1am2syman/omni-pdf/raster"
)

func gradientPage(w, h int) *raster.Page {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	return &raster.Page{NRGBA: img, DPI: 300}
}

func TestRectifyIdempotentOnRectangle(t *testing.T) {
	p := gradientPage(120, 80)
	quad := coords.FromRect(coords.Rect{Width: 120, Height: 80})
	out := Rectify(p, quad)
	if out.Width() != 120 || out.Height() != 80 {
		t.Fatalf("size changed: %dx%d", out.Width(), out.Height())
	}
	if !bytes.Equal(out.NRGBA.Pix, p.NRGBA.Pix) {
		t.Fatalf("rectifying an already-rectangular page should be a pixel-exact no-op")
	}
}

func TestRectifySkipsDegenerateQuad(t *testing.T) {
	p := gradientPage(50, 50)
	line := coords.Canonical([4]coords.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 30, Y: 0}})
	if out := Rectify(p, line); out != p {
		t.Fatalf("degenerate quad must skip rectification and return the input")
	}
}

func TestRectifyCornerOrderInvariant(t *testing.T) {
	p := gradientPage(100, 100)
	pts := [4]coords.Point{{X: 5, Y: 8}, {X: 92, Y: 4}, {X: 95, Y: 90}, {X: 3, Y: 94}}
	a := Rectify(p, coords.Quad{pts[0], pts[1], pts[2], pts[3]})
	b := Rectify(p, coords.Quad{pts[2], pts[0], pts[3], pts[1]})
	if a.Width() != b.Width() || a.Height() != b.Height() {
		t.Fatalf("permuted corners changed output size: %dx%d vs %dx%d", a.Width(), a.Height(), b.Width(), b.Height())
	}
	if !bytes.Equal(a.NRGBA.Pix, b.NRGBA.Pix) {
		t.Fatalf("permuted corners must produce identical rectification")
	}
}

func TestRectifyWarpsPerspective(t *testing.T) {
	// A trapezoid quad: output dimensions follow the longer edges.
	p := gradientPage(200, 200)
	q := coords.Canonical([4]coords.Point{{X: 20, Y: 10}, {X: 180, Y: 10}, {X: 160, Y: 190}, {X: 40, Y: 190}})
	out := Rectify(p, q)
	if out == p {
		t.Fatalf("valid quad should produce a new raster")
	}
	if out.Width() != 160 || out.Height() < 180 {
		t.Fatalf("unexpected target size %dx%d", out.Width(), out.Height())
	}
}
