package coords

import (
	"errors"
	"math"
)

// Homography is a 3x3 projective transform in row-major order with the last
// element fixed to 1.
type Homography [9]float64

// ErrSingular is returned when the corner correspondences do not determine a
// transform (degenerate or collinear quadrilateral).
var ErrSingular = errors.New("coords: singular homography")

// HomographyFromQuads computes the projective transform mapping each src
// corner onto the corresponding dst corner. Corners must correspond by
// index; use Canonical ordering on both sides.
func HomographyFromQuads(src, dst Quad) (Homography, error) {
	// Eight unknowns h0..h7 from four point correspondences:
	//   dst.x = (h0 x + h1 y + h2) / (h6 x + h7 y + 1)
	//   dst.y = (h3 x + h4 y + h5) / (h6 x + h7 y + 1)
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y
		a[2*i] = [9]float64{sx, sy, 1, 0, 0, 0, -dx * sx, -dx * sy, dx}
		a[2*i+1] = [9]float64{0, 0, 0, sx, sy, 1, -dy * sx, -dy * sy, dy}
	}
	h, err := solve8(a)
	if err != nil {
		return Homography{}, err
	}
	return Homography{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, nil
}

// solve8 runs Gaussian elimination with partial pivoting on an 8x8 system
// stored with its right-hand side in column 8.
func solve8(a [8][9]float64) ([8]float64, error) {
	var x [8]float64
	for col := 0; col < 8; col++ {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-9 {
			return x, ErrSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		for row := col + 1; row < 8; row++ {
			f := a[row][col] / a[col][col]
			for k := col; k < 9; k++ {
				a[row][k] -= f * a[col][k]
			}
		}
	}
	for row := 7; row >= 0; row-- {
		sum := a[row][8]
		for k := row + 1; k < 8; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x, nil
}

// Apply maps a point through the homography.
func (h Homography) Apply(p Point) Point {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if math.Abs(w) < 1e-12 {
		w = 1e-12
	}
	return Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}
