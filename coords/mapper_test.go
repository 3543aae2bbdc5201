package coords

import (
	"math"
	"testing"
)

func TestPageSizeFromDPI(t *testing.T) {
	m := NewPageMapper(2550, 3300, 300, DefaultFontClamp())
	w, h := m.PageSize()
	if math.Abs(w-612) > 1e-9 || math.Abs(h-792) > 1e-9 {
		t.Fatalf("300 DPI letter raster should map to 612x792pt, got %fx%f", w, h)
	}
}

func TestMapLineStaysInsidePage(t *testing.T) {
	m := NewPageMapper(1000, 1500, 150, DefaultFontClamp())
	pageW, pageH := m.PageSize()
	boxes := []Rect{
		{X: 0, Y: 0, Width: 1000, Height: 40},
		{X: 120, Y: 700, Width: 500, Height: 28},
		{X: 990, Y: 1490, Width: 10, Height: 10},
	}
	for _, px := range boxes {
		ml := m.MapLine("sample", px)
		if ml.Box.X < 0 || ml.Box.Y < 0 {
			t.Fatalf("negative mapped origin: %+v", ml.Box)
		}
		if ml.Box.X+ml.Box.Width > pageW+1e-9 || ml.Box.Y+ml.Box.Height > pageH+1e-9 {
			t.Fatalf("mapped box overflows page: %+v", ml.Box)
		}
	}
}

func TestFontSizeClamped(t *testing.T) {
	m := NewPageMapper(1000, 1000, 72, FontClamp{MinPt: 4, MaxPt: 30})
	if got := m.FontSize(0.5); got != 4 {
		t.Fatalf("near-zero box should clamp to min: %f", got)
	}
	if got := m.FontSize(500); got != 30 {
		t.Fatalf("huge box should clamp to max: %f", got)
	}
	if got := m.FontSize(20); math.Abs(got-16) > 1e-9 {
		t.Fatalf("regular box should scale by 0.8: %f", got)
	}
}

func TestAnchorFlipsAxis(t *testing.T) {
	m := NewPageMapper(100, 100, 72, DefaultFontClamp())
	ml := m.MapLine("x", Rect{X: 10, Y: 20, Width: 50, Height: 10})
	_, pageH := m.PageSize()
	wantY := pageH - 20 - ml.FontSize
	if math.Abs(ml.Anchor.Y-wantY) > 1e-9 {
		t.Fatalf("anchor y = %f, want %f", ml.Anchor.Y, wantY)
	}
	if ml.Anchor.X != ml.Box.X {
		t.Fatalf("anchor x should equal box x")
	}
}
