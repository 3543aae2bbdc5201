package builder

import (
	"image"
	"image/draw"

	"github.com/1am2syman/omni-pdf/ir/semantic"
	"github.com/1am2syman/omni-pdf/raster"
)

// FromImage converts a standard Go image.Image to *semantic.Image. It packs
// the RGB channels and attaches a Soft Mask (SMask) when the source carries
// transparency.
func FromImage(src image.Image) *semantic.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Convert to NRGBA (non-premultiplied alpha) to get raw color values.
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)

	pixels := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	hasAlpha := false

	for i := 0; i < w*h; i++ {
		offset := i * 4
		pixels = append(pixels, nrgba.Pix[offset], nrgba.Pix[offset+1], nrgba.Pix[offset+2])

		a := nrgba.Pix[offset+3]
		alpha = append(alpha, a)
		if a < 255 {
			hasAlpha = true
		}
	}

	img := &semantic.Image{
		Width:            w,
		Height:           h,
		ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceRGB"},
		BitsPerComponent: 8,
		Data:             pixels,
	}

	if hasAlpha {
		img.SMask = &semantic.Image{
			Width:            w,
			Height:           h,
			ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceGray"},
			BitsPerComponent: 8,
			Data:             alpha,
		}
	}

	return img
}

// FromPage converts a raster page to *semantic.Image. Scanned pages are
// opaque, so no soft mask is attached.
func FromPage(p *raster.Page) *semantic.Image {
	w, h := p.Width(), p.Height()
	return &semantic.Image{
		Width:            w,
		Height:           h,
		ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceRGB"},
		BitsPerComponent: 8,
		Data:             p.RGB(),
	}
}
