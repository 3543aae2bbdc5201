// Package scan turns a photographed page into a print-like raster: it finds
// the document outline, rectifies perspective, and enhances legibility.
package scan

import (
	"image"

	"github.com/1am2syman/omni-pdf/coords"
)

// DetectorConfig names the edge-search heuristics. The defaults follow the
// usual document-scanning recipe; they are tunable because they materially
// affect which outline wins.
type DetectorConfig struct {
	// BlurSigma is the Gaussian pre-blur applied before gradient
	// computation, suppressing paper texture.
	BlurSigma float64
	// EdgeThreshold is the minimum Sobel gradient magnitude for a pixel to
	// count as an edge.
	EdgeThreshold uint8
	// ApproxFactor scales the polygon-approximation tolerance relative to
	// the contour perimeter.
	ApproxFactor float64
	// MinAreaFraction discards contours enclosing less than this fraction of
	// the frame; tiny contours are content, not the page outline.
	MinAreaFraction float64
}

// DefaultDetectorConfig returns the documented defaults.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		BlurSigma:       1.4,
		EdgeThreshold:   80,
		ApproxFactor:    0.02,
		MinAreaFraction: 0.05,
	}
}

// Detector locates the dominant document-boundary quadrilateral in a raster.
type Detector struct {
	cfg DetectorConfig
}

// NewDetector builds a Detector; zero-valued config fields fall back to the
// defaults.
func NewDetector(cfg DetectorConfig) *Detector {
	def := DefaultDetectorConfig()
	if cfg.BlurSigma <= 0 {
		cfg.BlurSigma = def.BlurSigma
	}
	if cfg.EdgeThreshold == 0 {
		cfg.EdgeThreshold = def.EdgeThreshold
	}
	if cfg.ApproxFactor <= 0 {
		cfg.ApproxFactor = def.ApproxFactor
	}
	if cfg.MinAreaFraction <= 0 {
		cfg.MinAreaFraction = def.MinAreaFraction
	}
	return &Detector{cfg: cfg}
}

// Detect searches a grayscale raster for the document outline. The second
// return value is false when no usable contour exists; that is an ordinary
// outcome ("no edges found") and the caller should treat the whole frame as
// the working region. When the strongest contour does not simplify to four
// corners, its axis-aligned bounding rectangle is returned as a degenerate
// quadrilateral.
func (d *Detector) Detect(gray *image.Gray) (coords.Quad, bool) {
	blurred := gaussianBlurGray(gray, d.cfg.BlurSigma)
	edges := sobelEdges(blurred, d.cfg.EdgeThreshold)

	contours := findContours(edges)
	if len(contours) == 0 {
		return coords.Quad{}, false
	}

	minArea := d.cfg.MinAreaFraction * float64(gray.Rect.Dx()*gray.Rect.Dy())
	var best contour
	bestArea := 0.0
	for _, c := range contours {
		a := polygonArea(c)
		if a > bestArea {
			bestArea = a
			best = c
		}
	}
	if best == nil || bestArea < minArea {
		return coords.Quad{}, false
	}

	approx := approxPolygon(best, d.cfg.ApproxFactor*perimeter(best))
	if len(approx) == 4 {
		return coords.Canonical([4]coords.Point{approx[0], approx[1], approx[2], approx[3]}), true
	}
	return coords.FromRect(boundingRect(best)), true
}
