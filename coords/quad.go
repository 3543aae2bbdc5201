package coords

import "math"

// Quad is a quadrilateral in canonical corner order: top-left, top-right,
// bottom-right, bottom-left. Construct it with Canonical so the ordering is
// derived from geometry rather than trusted from a detector's output order.
type Quad [4]Point

const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// Canonical orders four corners into TL, TR, BR, BL regardless of the order
// they were listed in. The top-left corner has the minimal coordinate sum and
// the bottom-right the maximal; the top-right has the minimal y-x difference
// and the bottom-left the maximal. The rule is invariant under permutation
// and reflection of the input.
func Canonical(pts [4]Point) Quad {
	var q Quad
	minSum, maxSum := math.Inf(1), math.Inf(-1)
	minDiff, maxDiff := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		sum := p.X + p.Y
		diff := p.Y - p.X
		if sum < minSum {
			minSum = sum
			q[TopLeft] = p
		}
		if sum > maxSum {
			maxSum = sum
			q[BottomRight] = p
		}
		if diff < minDiff {
			minDiff = diff
			q[TopRight] = p
		}
		if diff > maxDiff {
			maxDiff = diff
			q[BottomLeft] = p
		}
	}
	return q
}

// FromRect returns the quad spanning an axis-aligned rectangle.
func FromRect(r Rect) Quad {
	return Quad{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
}

// TargetSize returns the dimensions of the axis-aligned rectangle the quad
// should be rectified onto: the maximum of the two opposite horizontal edge
// lengths for the width, and of the two vertical edges for the height.
// Taking the max rather than the mean avoids shrinking content near the
// longer edge.
func (q Quad) TargetSize() (width, height float64) {
	top := dist(q[TopLeft], q[TopRight])
	bottom := dist(q[BottomLeft], q[BottomRight])
	left := dist(q[TopLeft], q[BottomLeft])
	right := dist(q[TopRight], q[BottomRight])
	return math.Max(top, bottom), math.Max(left, right)
}

// Area returns the unsigned area of the quad via the shoelace formula.
func (q Quad) Area() float64 {
	var s float64
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		s += q[i].X*q[j].Y - q[j].X*q[i].Y
	}
	return math.Abs(s) / 2
}

// Degenerate reports whether the quad cannot anchor a meaningful
// rectification: collapsed corners, (near-)collinear points, or zero area.
func (q Quad) Degenerate() bool {
	w, h := q.TargetSize()
	if w < 1 || h < 1 {
		return true
	}
	// A proper quad's area is comparable to its edge-derived extent; a sliver
	// means three or more corners are nearly collinear.
	return q.Area() < w*h*0.1
}
