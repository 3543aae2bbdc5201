package coords

const (
	// PointsPerInch is the fixed PDF user-space resolution.
	PointsPerInch = 72.0

	// fontHeightRatio sizes the invisible glyphs relative to the mapped line
	// box so ascenders and descenders stay inside it.
	fontHeightRatio = 0.8
)

// FontClamp bounds the synthesized font size so degenerate line boxes never
// produce illegible or oversized invisible glyphs.
type FontClamp struct {
	MinPt float64
	MaxPt float64
}

// DefaultFontClamp is the documented default range.
func DefaultFontClamp() FontClamp { return FontClamp{MinPt: 4, MaxPt: 30} }

// MappedLine is a recognized line converted into PDF point space.
type MappedLine struct {
	// Box is the line's bounding box in point space, top-left anchored with
	// the y axis still pointing down (raster convention).
	Box Rect
	// Anchor is the text placement origin in PDF space (bottom-left origin,
	// y up), positioned so glyphs of FontSize sit inside Box.
	Anchor Point
	// FontSize is the clamped size for the invisible run.
	FontSize float64
	// Text is the recognized content, carried through unchanged.
	Text string
}

// PageMapper converts raster pixel coordinates into the destination page's
// point space. It is bound to the exact pixel dimensions that were fed to
// the recognizer; reusing a mapper across differently sized rasters is a
// caller bug.
type PageMapper struct {
	scaleX float64
	scaleY float64
	pageW  float64
	pageH  float64
	clamp  FontClamp
}

// NewPageMapper derives the destination page size from the raster dimensions
// at the given DPI and returns a mapper onto it. A non-positive dpi falls
// back to 72 (one pixel per point).
func NewPageMapper(widthPx, heightPx int, dpi float64, clamp FontClamp) *PageMapper {
	if dpi <= 0 {
		dpi = PointsPerInch
	}
	pageW := float64(widthPx) * PointsPerInch / dpi
	pageH := float64(heightPx) * PointsPerInch / dpi
	m := &PageMapper{pageW: pageW, pageH: pageH, clamp: clamp}
	if widthPx > 0 {
		m.scaleX = pageW / float64(widthPx)
	}
	if heightPx > 0 {
		m.scaleY = pageH / float64(heightPx)
	}
	return m
}

// PageSize returns the destination page dimensions in points.
func (m *PageMapper) PageSize() (w, h float64) { return m.pageW, m.pageH }

// MapRect scales a pixel-space rectangle into point space, keeping the
// top-left-anchored raster convention.
func (m *PageMapper) MapRect(px Rect) Rect {
	return Rect{
		X:      px.X * m.scaleX,
		Y:      px.Y * m.scaleY,
		Width:  px.Width * m.scaleX,
		Height: px.Height * m.scaleY,
	}
}

// FontSize computes the clamped glyph size for a mapped box height.
func (m *PageMapper) FontSize(boxHeightPt float64) float64 {
	size := boxHeightPt * fontHeightRatio
	if size < m.clamp.MinPt {
		size = m.clamp.MinPt
	}
	if size > m.clamp.MaxPt {
		size = m.clamp.MaxPt
	}
	return size
}

// MapLine converts one recognized line box into a MappedLine. The anchor is
// the box's top-left corner flipped into PDF space and dropped by the font
// size so the text baseline sits near the bottom of the glyph box.
func (m *PageMapper) MapLine(text string, px Rect) MappedLine {
	box := m.MapRect(px)
	size := m.FontSize(box.Height)
	return MappedLine{
		Box:      box,
		Anchor:   Point{X: box.X, Y: m.pageH - box.Y - size},
		FontSize: size,
		Text:     text,
	}
}
