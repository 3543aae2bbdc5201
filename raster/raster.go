// Package raster materializes document pages as pixel buffers and applies
// the initial working-region transforms (rotation, crop) before the scan
// pipeline takes over.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultDPI is the rendering resolution used when none is configured.
const DefaultDPI = 300.0

// Page is a single page materialized as pixels. The buffer is page-scoped:
// it is created by a loader, mutated in place by rotation and cropping, and
// discarded once downstream stages are done with it.
type Page struct {
	// NRGBA holds the pixel data; always non-nil for a valid Page.
	NRGBA *image.NRGBA
	// DPI is the resolution the page was rendered or photographed at. It
	// governs the scale between pixel space and PDF point space.
	DPI float64
}

// FromImage converts any image.Image into a Page at the given DPI.
func FromImage(src image.Image, dpi float64) *Page {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	b := src.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	return &Page{NRGBA: nrgba, DPI: dpi}
}

// Decode reads one encoded image (png, jpeg, gif, bmp, tiff, webp) into a
// Page.
func Decode(r io.Reader, dpi float64) (*Page, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	return FromImage(img, dpi), nil
}

// DecodeFile reads an image file into a Page.
func DecodeFile(path string, dpi float64) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raster %s: %w", path, err)
	}
	defer f.Close()
	p, err := Decode(f, dpi)
	if err != nil {
		return nil, fmt.Errorf("decode raster %s: %w", path, err)
	}
	return p, nil
}

func (p *Page) Width() int  { return p.NRGBA.Rect.Dx() }
func (p *Page) Height() int { return p.NRGBA.Rect.Dy() }

// PointSize returns the page dimensions in PDF points at the page's DPI.
func (p *Page) PointSize() (w, h float64) {
	return float64(p.Width()) * 72 / p.DPI, float64(p.Height()) * 72 / p.DPI
}

// Rotate turns the page by a quarter-turn multiple (90, 180, 270 degrees
// clockwise). Other angles are a no-op; the working region only ever needs
// orientation fixes, not free rotation.
func (p *Page) Rotate(degrees int) {
	degrees = ((degrees % 360) + 360) % 360
	if degrees == 0 || degrees%90 != 0 {
		return
	}
	src := p.NRGBA
	w, h := src.Rect.Dx(), src.Rect.Dy()
	var dst *image.NRGBA
	switch degrees {
	case 180:
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
	default:
		dst = image.NewNRGBA(image.Rect(0, 0, h, w))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.NRGBAAt(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			switch degrees {
			case 90:
				dst.SetNRGBA(h-1-y, x, c)
			case 180:
				dst.SetNRGBA(w-1-x, h-1-y, c)
			case 270:
				dst.SetNRGBA(y, w-1-x, c)
			}
		}
	}
	p.NRGBA = dst
}

// Crop restricts the page to a sub-rectangle in pixel coordinates. The
// rectangle is clamped to the page bounds; an empty intersection leaves the
// page unchanged.
func (p *Page) Crop(r image.Rectangle) {
	clamped := r.Intersect(image.Rect(0, 0, p.Width(), p.Height()))
	if clamped.Empty() {
		return
	}
	dst := image.NewNRGBA(image.Rect(0, 0, clamped.Dx(), clamped.Dy()))
	draw.Draw(dst, dst.Bounds(), p.NRGBA, clamped.Min.Add(p.NRGBA.Rect.Min), draw.Src)
	p.NRGBA = dst
}

// Gray returns a single-channel copy using the standard luminance weights.
func (p *Page) Gray() *image.Gray {
	w, h := p.Width(), p.Height()
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetGray(x, y, color.GrayModel.Convert(p.NRGBA.NRGBAAt(p.NRGBA.Rect.Min.X+x, p.NRGBA.Rect.Min.Y+y)).(color.Gray))
		}
	}
	return g
}

// RGB returns the page's pixels as packed 8-bit RGB triplets, the layout the
// PDF image XObject expects.
func (p *Page) RGB() []byte {
	w, h := p.Width(), p.Height()
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := p.NRGBA.Pix[y*p.NRGBA.Stride : y*p.NRGBA.Stride+w*4]
		for x := 0; x < w; x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}
