package coords

import (
	"math"
	"testing"
)

func TestHomographyIdentity(t *testing.T) {
	q := FromRect(Rect{X: 0, Y: 0, Width: 200, Height: 100})
	h, err := HomographyFromQuads(q, q)
	if err != nil {
		t.Fatalf("HomographyFromQuads() error = %v", err)
	}
	for _, p := range []Point{{0, 0}, {200, 0}, {100, 50}, {37.5, 99}} {
		got := h.Apply(p)
		if math.Abs(got.X-p.X) > 1e-6 || math.Abs(got.Y-p.Y) > 1e-6 {
			t.Fatalf("identity mapping moved %v to %v", p, got)
		}
	}
}

func TestHomographyMapsCorners(t *testing.T) {
	src := Canonical([4]Point{{20, 10}, {380, 30}, {400, 290}, {10, 310}})
	dst := FromRect(Rect{X: 0, Y: 0, Width: 400, Height: 300})
	h, err := HomographyFromQuads(src, dst)
	if err != nil {
		t.Fatalf("HomographyFromQuads() error = %v", err)
	}
	for i := 0; i < 4; i++ {
		got := h.Apply(src[i])
		if math.Abs(got.X-dst[i].X) > 1e-6 || math.Abs(got.Y-dst[i].Y) > 1e-6 {
			t.Fatalf("corner %d: got %v want %v", i, got, dst[i])
		}
	}
}

func TestHomographySingular(t *testing.T) {
	line := Canonical([4]Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}})
	dst := FromRect(Rect{X: 0, Y: 0, Width: 10, Height: 10})
	if _, err := HomographyFromQuads(line, dst); err == nil {
		t.Fatalf("expected singular system for collinear corners")
	}
}
