package scan

import (
	"image"
	"math"

	"github.com/1am2syman/omni-pdf/coords"
	"github.com/1am2syman/omni-pdf/raster"
)

// Rectify warps the page so the given quadrilateral becomes an axis-aligned
// rectangle. Corner order is re-derived canonically; the target rectangle
// takes the longer of each pair of opposite edges so content is stretched,
// never squeezed. When the quadrilateral is degenerate or the corner
// correspondences are singular, rectification is skipped and the input page
// is returned unchanged — this is an expected outcome, never an error.
func Rectify(p *raster.Page, quad coords.Quad) *raster.Page {
	q := coords.Canonical([4]coords.Point{quad[0], quad[1], quad[2], quad[3]})
	if q.Degenerate() {
		return p
	}
	wf, hf := q.TargetSize()
	dstW, dstH := int(math.Round(wf)), int(math.Round(hf))
	if dstW < 1 || dstH < 1 {
		return p
	}

	// Solve the inverse mapping directly: destination rectangle corners onto
	// the source quad, so each output pixel samples its source location.
	target := coords.FromRect(coords.Rect{Width: float64(dstW), Height: float64(dstH)})
	back, err := coords.HomographyFromQuads(target, q)
	if err != nil {
		return p
	}

	src := p.NRGBA
	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			sp := back.Apply(coords.Point{X: float64(x), Y: float64(y)})
			r, g, b, a := bilinearSample(src, sp.X, sp.Y)
			i := y*dst.Stride + x*4
			dst.Pix[i] = r
			dst.Pix[i+1] = g
			dst.Pix[i+2] = b
			dst.Pix[i+3] = a
		}
	}
	return &raster.Page{NRGBA: dst, DPI: p.DPI}
}

// bilinearSample interpolates the four pixels around a fractional source
// coordinate. Samples outside the frame return white, matching the paper
// background.
func bilinearSample(src *image.NRGBA, fx, fy float64) (r, g, b, a uint8) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if fx < -0.5 || fy < -0.5 || fx > float64(w)-0.5 || fy > float64(h)-0.5 {
		return 255, 255, 255, 255
	}
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	pix := func(x, y int) (float64, float64, float64, float64) {
		x = clampInt(x, 0, w-1)
		y = clampInt(y, 0, h-1)
		i := y*src.Stride + x*4
		return float64(src.Pix[i]), float64(src.Pix[i+1]), float64(src.Pix[i+2]), float64(src.Pix[i+3])
	}
	r00, g00, b00, a00 := pix(x0, y0)
	r10, g10, b10, a10 := pix(x0+1, y0)
	r01, g01, b01, a01 := pix(x0, y0+1)
	r11, g11, b11, a11 := pix(x0+1, y0+1)

	lerp2 := func(v00, v10, v01, v11 float64) uint8 {
		top := v00 + (v10-v00)*tx
		bot := v01 + (v11-v01)*tx
		return uint8(math.Round(top + (bot-top)*ty))
	}
	return lerp2(r00, r10, r01, r11), lerp2(g00, g10, g01, g11), lerp2(b00, b10, b01, b11), lerp2(a00, a10, a01, a11)
}
