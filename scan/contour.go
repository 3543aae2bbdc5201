package scan

import (
	"image"
	"math"

	"github.com/1am2syman/omni-pdf/coords"
)

// contour is an ordered outer boundary of one connected edge component, in
// pixel coordinates.
type contour []coords.Point

// findContours extracts the outer boundary of every 8-connected component in
// a binary edge map. Inner (hole) boundaries are not traced; only external
// contours matter for locating the document outline.
func findContours(edges *image.Gray) []contour {
	w, h := edges.Rect.Dx(), edges.Rect.Dy()
	visited := make([]bool, w*h)
	isEdge := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && edges.Pix[y*edges.Stride+x] != 0
	}

	var out []contour
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !isEdge(x, y) || visited[y*w+x] {
				continue
			}
			c := traceBoundary(isEdge, x, y, w, h)
			if len(c) > 0 {
				out = append(out, c)
			}
			floodMark(isEdge, visited, x, y, w, h)
		}
	}
	return out
}

// Moore neighborhood in clockwise order starting from the west neighbor.
var mooreOffsets = [8][2]int{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// traceBoundary walks the outer boundary clockwise starting at the
// component's first pixel in scan order. It terminates when the walk
// revisits the start pixel entering from the initial direction, or after a
// safety bound proportional to the frame size.
func traceBoundary(isEdge func(x, y int) bool, sx, sy, w, h int) contour {
	c := contour{{X: float64(sx), Y: float64(sy)}}
	// The scan reaches the start pixel from the west, so begin searching
	// there.
	cx, cy := sx, sy
	dir := 0
	limit := 4 * (w + h) * 4
	for step := 0; step < limit; step++ {
		found := false
		for i := 0; i < 8; i++ {
			d := (dir + i) % 8
			nx, ny := cx+mooreOffsets[d][0], cy+mooreOffsets[d][1]
			if isEdge(nx, ny) {
				cx, cy = nx, ny
				// Back up two steps so the next search sweeps the pixel we
				// came from first.
				dir = (d + 6) % 8
				found = true
				break
			}
		}
		if !found {
			// Isolated pixel.
			return c
		}
		if cx == sx && cy == sy {
			return c
		}
		c = append(c, coords.Point{X: float64(cx), Y: float64(cy)})
	}
	return c
}

// floodMark marks every pixel of the component containing (sx, sy).
func floodMark(isEdge func(x, y int) bool, visited []bool, sx, sy, w, h int) {
	stack := [][2]int{{sx, sy}}
	visited[sy*w+sx] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, o := range mooreOffsets {
			nx, ny := p[0]+o[0], p[1]+o[1]
			if isEdge(nx, ny) && !visited[ny*w+nx] {
				visited[ny*w+nx] = true
				stack = append(stack, [2]int{nx, ny})
			}
		}
	}
}

// polygonArea is the unsigned shoelace area of a closed polygon.
func polygonArea(pts []coords.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var s float64
	for i := range pts {
		j := (i + 1) % len(pts)
		s += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(s) / 2
}

// perimeter is the closed arc length of a polygon.
func perimeter(pts []coords.Point) float64 {
	var s float64
	for i := range pts {
		j := (i + 1) % len(pts)
		s += math.Hypot(pts[j].X-pts[i].X, pts[j].Y-pts[i].Y)
	}
	return s
}

// approxPolygon simplifies a closed contour with the Douglas-Peucker
// algorithm. The curve is split at the point farthest from the start so both
// halves are open chains, then each is simplified with the given tolerance.
func approxPolygon(pts []coords.Point, epsilon float64) []coords.Point {
	if len(pts) < 3 {
		return append([]coords.Point(nil), pts...)
	}
	far := 0
	best := -1.0
	for i, p := range pts {
		d := math.Hypot(p.X-pts[0].X, p.Y-pts[0].Y)
		if d > best {
			best = d
			far = i
		}
	}
	if far == 0 {
		return []coords.Point{pts[0]}
	}
	first := douglasPeucker(pts[:far+1], epsilon)
	second := douglasPeucker(append(pts[far:], pts[0]), epsilon)
	// Drop the duplicated joints at both seams.
	out := append([]coords.Point(nil), first...)
	if len(second) > 2 {
		out = append(out, second[1:len(second)-1]...)
	}
	return out
}

func douglasPeucker(pts []coords.Point, epsilon float64) []coords.Point {
	if len(pts) < 3 {
		return append([]coords.Point(nil), pts...)
	}
	idx := 0
	maxDist := 0.0
	for i := 1; i < len(pts)-1; i++ {
		d := pointSegmentDistance(pts[i], pts[0], pts[len(pts)-1])
		if d > maxDist {
			maxDist = d
			idx = i
		}
	}
	if maxDist <= epsilon {
		return []coords.Point{pts[0], pts[len(pts)-1]}
	}
	left := douglasPeucker(pts[:idx+1], epsilon)
	right := douglasPeucker(pts[idx:], epsilon)
	return append(left[:len(left)-1], right...)
}

func pointSegmentDistance(p, a, b coords.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// boundingRect returns the axis-aligned bounding rectangle of a point set.
func boundingRect(pts []coords.Point) coords.Rect {
	if len(pts) == 0 {
		return coords.Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return coords.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
