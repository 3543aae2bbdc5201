package scan

import (
	"image"
	"math"
	"testing"

	"github.com/1am2syman/omni-pdf/coords"
)

func syntheticDocument(w, h int, doc image.Rectangle) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(30)
			if image.Pt(x, y).In(doc) {
				v = 220
			}
			g.Pix[y*g.Stride+x] = v
		}
	}
	return g
}

func TestDetectFindsDocumentOutline(t *testing.T) {
	doc := image.Rect(40, 50, 160, 150)
	g := syntheticDocument(200, 200, doc)
	quad, found := NewDetector(DetectorConfig{}).Detect(g)
	if !found {
		t.Fatalf("expected an outline on a high-contrast frame")
	}
	want := [4]coords.Point{
		{X: float64(doc.Min.X), Y: float64(doc.Min.Y)},
		{X: float64(doc.Max.X), Y: float64(doc.Min.Y)},
		{X: float64(doc.Max.X), Y: float64(doc.Max.Y)},
		{X: float64(doc.Min.X), Y: float64(doc.Max.Y)},
	}
	for i := range want {
		dx := math.Abs(quad[i].X - want[i].X)
		dy := math.Abs(quad[i].Y - want[i].Y)
		if dx > 5 || dy > 5 {
			t.Fatalf("corner %d too far off: got %v want %v", i, quad[i], want[i])
		}
	}
}

func TestDetectNoEdges(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 100, 100))
	for i := range g.Pix {
		g.Pix[i] = 128
	}
	if _, found := NewDetector(DetectorConfig{}).Detect(g); found {
		t.Fatalf("flat frame must report no edges, not a quad")
	}
}

func TestDetectIgnoresTinyContours(t *testing.T) {
	// A small speck well below the area floor.
	g := syntheticDocument(200, 200, image.Rect(90, 90, 96, 96))
	if _, found := NewDetector(DetectorConfig{}).Detect(g); found {
		t.Fatalf("speck should be rejected by the area floor")
	}
}

func TestApproxPolygonRectangle(t *testing.T) {
	var ring []coords.Point
	for x := 0; x <= 100; x++ {
		ring = append(ring, coords.Point{X: float64(x), Y: 0})
	}
	for y := 1; y <= 60; y++ {
		ring = append(ring, coords.Point{X: 100, Y: float64(y)})
	}
	for x := 99; x >= 0; x-- {
		ring = append(ring, coords.Point{X: float64(x), Y: 60})
	}
	for y := 59; y >= 1; y-- {
		ring = append(ring, coords.Point{X: 0, Y: float64(y)})
	}
	got := approxPolygon(ring, 0.02*perimeter(ring))
	if len(got) != 4 {
		t.Fatalf("rectangle ring should simplify to 4 corners, got %d: %v", len(got), got)
	}
}
