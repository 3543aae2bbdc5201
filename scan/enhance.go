package scan

import (
	"image"
	"math"

	"github.com/1am2syman/omni-pdf/raster"
)

// EnhanceOptions configures the fixed enhancement chain: brightness →
// contrast → sharpness → grayscale → bilateral denoise → adaptive threshold.
// Each multiplier stage is a no-op at its identity value 1.0.
type EnhanceOptions struct {
	Brightness float64
	Contrast   float64
	Sharpness  float64

	// Binarize controls the final denoise + adaptive-threshold stages that
	// produce the black-and-white "scanned document" look.
	Binarize bool

	// Bilateral filter parameters (used only when Binarize is set).
	BilateralDiameter   int
	BilateralSigmaColor float64
	BilateralSigmaSpace float64

	// Adaptive threshold parameters: neighborhood size and mean bias.
	ThresholdBlock int
	ThresholdBias  float64
}

// DefaultEnhanceOptions returns the documented defaults (contrast boosted to
// 1.5, everything else identity, binarization on).
func DefaultEnhanceOptions() EnhanceOptions {
	return EnhanceOptions{
		Brightness:          1.0,
		Contrast:            1.5,
		Sharpness:           1.0,
		Binarize:            true,
		BilateralDiameter:   9,
		BilateralSigmaColor: 75,
		BilateralSigmaSpace: 75,
		ThresholdBlock:      11,
		ThresholdBias:       2,
	}
}

// Enhance produces a legible, print-like raster. The result is always a
// renderable multi-channel page even when the threshold stage yields a
// single-channel buffer internally.
func Enhance(p *raster.Page, opts EnhanceOptions) *raster.Page {
	work := p
	if opts.Brightness != 1.0 && opts.Brightness > 0 {
		work = scalePixels(work, func(v float64) float64 { return v * opts.Brightness })
	}
	if opts.Contrast != 1.0 && opts.Contrast > 0 {
		mean := meanLuminance(work)
		work = scalePixels(work, func(v float64) float64 { return mean + (v-mean)*opts.Contrast })
	}
	if opts.Sharpness != 1.0 && opts.Sharpness >= 0 {
		work = sharpen(work, opts.Sharpness)
	}
	if !opts.Binarize {
		return work
	}

	gray := work.Gray()
	denoised := bilateralGray(gray, opts.BilateralDiameter, opts.BilateralSigmaColor, opts.BilateralSigmaSpace)
	binary := adaptiveThreshold(denoised, opts.ThresholdBlock, opts.ThresholdBias)
	return grayToPage(binary, p.DPI)
}

// scalePixels applies f to every color channel, clamped to [0,255]. Alpha is
// preserved.
func scalePixels(p *raster.Page, f func(v float64) float64) *raster.Page {
	src := p.NRGBA
	w, h := p.Width(), p.Height()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := y*src.Stride + x*4
			di := y*dst.Stride + x*4
			for c := 0; c < 3; c++ {
				dst.Pix[di+c] = clampByte(f(float64(src.Pix[si+c])))
			}
			dst.Pix[di+3] = src.Pix[si+3]
		}
	}
	return &raster.Page{NRGBA: dst, DPI: p.DPI}
}

func meanLuminance(p *raster.Page) float64 {
	src := p.NRGBA
	w, h := p.Width(), p.Height()
	if w == 0 || h == 0 {
		return 128
	}
	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*src.Stride + x*4
			sum += 0.299*float64(src.Pix[i]) + 0.587*float64(src.Pix[i+1]) + 0.114*float64(src.Pix[i+2])
		}
	}
	return sum / float64(w*h)
}

// sharpen blends each pixel between a 3x3 box smooth (factor 0) and the
// original (factor 1); factors above 1 overshoot into sharpening.
func sharpen(p *raster.Page, factor float64) *raster.Page {
	src := p.NRGBA
	w, h := p.Width(), p.Height()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			di := y*dst.Stride + x*4
			for c := 0; c < 3; c++ {
				var acc float64
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						xx := clampInt(x+dx, 0, w-1)
						yy := clampInt(y+dy, 0, h-1)
						acc += float64(src.Pix[yy*src.Stride+xx*4+c])
					}
				}
				smooth := acc / 9
				orig := float64(src.Pix[y*src.Stride+x*4+c])
				dst.Pix[di+c] = clampByte(smooth + (orig-smooth)*factor)
			}
			dst.Pix[di+3] = src.Pix[y*src.Stride+x*4+3]
		}
	}
	return &raster.Page{NRGBA: dst, DPI: p.DPI}
}

// grayToPage expands a single-channel buffer back to a displayable RGB page.
func grayToPage(g *image.Gray, dpi float64) *raster.Page {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := g.Pix[y*g.Stride+x]
			i := y*dst.Stride + x*4
			dst.Pix[i] = v
			dst.Pix[i+1] = v
			dst.Pix[i+2] = v
			dst.Pix[i+3] = 255
		}
	}
	return &raster.Page{NRGBA: dst, DPI: dpi}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
