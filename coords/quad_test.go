package coords

import (
	"math"
	"testing"
)

func TestCanonicalOrderingInvariant(t *testing.T) {
	tl := Point{10, 12}
	tr := Point{410, 8}
	br := Point{420, 309}
	bl := Point{6, 300}
	want := Quad{tl, tr, br, bl}

	perms := [][4]Point{
		{tl, tr, br, bl},
		{br, bl, tl, tr},
		{tr, tl, bl, br}, // reflected listing
		{bl, br, tr, tl},
		{tl, br, tr, bl},
	}
	for i, pts := range perms {
		if got := Canonical(pts); got != want {
			t.Fatalf("perm %d: got %v want %v", i, got, want)
		}
	}
}

func TestTargetSizeUsesMaxOppositeEdges(t *testing.T) {
	q := Quad{{0, 0}, {100, 0}, {120, 50}, {0, 40}}
	w, h := q.TargetSize()
	if w < 100 || h < 40 {
		t.Fatalf("target size should not shrink below longer edges: %f x %f", w, h)
	}
	bottom := math.Hypot(120, 10)
	if math.Abs(w-bottom) > 1e-9 {
		t.Fatalf("width should follow the longer bottom edge: got %f want %f", w, bottom)
	}
}

func TestDegenerateQuads(t *testing.T) {
	collinear := Canonical([4]Point{{0, 0}, {10, 0}, {20, 0}, {30, 0}})
	if !collinear.Degenerate() {
		t.Fatalf("collinear points must be degenerate")
	}
	square := FromRect(Rect{X: 0, Y: 0, Width: 50, Height: 50})
	if square.Degenerate() {
		t.Fatalf("square must not be degenerate")
	}
}
