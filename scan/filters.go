package scan

import (
	"image"
	"math"
)

// gaussianKernel builds a normalized 1D kernel for the given sigma. The
// radius follows the usual 3-sigma support.
func gaussianKernel(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	radius := int(math.Ceil(sigma * 3))
	if radius < 1 {
		radius = 1
	}
	k := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+radius] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// gaussianBlurGray applies a separable Gaussian blur. Borders are handled by
// clamping, which is adequate for document frames where the border is
// background anyway.
func gaussianBlurGray(src *image.Gray, sigma float64) *image.Gray {
	k := gaussianKernel(sigma)
	if len(k) == 1 {
		out := image.NewGray(src.Rect)
		copy(out.Pix, src.Pix)
		return out
	}
	radius := len(k) / 2
	w, h := src.Rect.Dx(), src.Rect.Dy()

	tmp := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i := -radius; i <= radius; i++ {
				xx := clampInt(x+i, 0, w-1)
				acc += float64(src.Pix[y*src.Stride+xx]) * k[i+radius]
			}
			tmp.Pix[y*tmp.Stride+x] = uint8(math.Round(acc))
		}
	}
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i := -radius; i <= radius; i++ {
				yy := clampInt(y+i, 0, h-1)
				acc += float64(tmp.Pix[yy*tmp.Stride+x]) * k[i+radius]
			}
			out.Pix[y*out.Stride+x] = uint8(math.Round(acc))
		}
	}
	return out
}

// sobelEdges computes the gradient magnitude and thresholds it into a binary
// edge map (255 edge, 0 background).
func sobelEdges(src *image.Gray, threshold uint8) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	at := func(x, y int) int {
		return int(src.Pix[clampInt(y, 0, h-1)*src.Stride+clampInt(x, 0, w-1)])
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) +
				-2*at(x-1, y) + 2*at(x+1, y) +
				-at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			mag := math.Hypot(float64(gx), float64(gy))
			if mag > float64(threshold) {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// bilateralGray runs an edge-preserving denoise: each output pixel is the
// range-and-distance weighted mean of its neighborhood, so smooth regions
// flatten while strong edges survive.
func bilateralGray(src *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	if diameter < 3 {
		diameter = 3
	}
	radius := diameter / 2
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	spatial := make([]float64, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*(2*radius+1)+(dx+radius)] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
	}
	var rangeW [256]float64
	for i := range rangeW {
		rangeW[i] = math.Exp(-float64(i*i) / (2 * sigmaColor * sigmaColor))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := int(src.Pix[y*src.Stride+x])
			var sum, norm float64
			for dy := -radius; dy <= radius; dy++ {
				yy := clampInt(y+dy, 0, h-1)
				for dx := -radius; dx <= radius; dx++ {
					xx := clampInt(x+dx, 0, w-1)
					v := int(src.Pix[yy*src.Stride+xx])
					wgt := spatial[(dy+radius)*(2*radius+1)+(dx+radius)] * rangeW[absInt(v-center)]
					sum += wgt * float64(v)
					norm += wgt
				}
			}
			out.Pix[y*out.Stride+x] = uint8(math.Round(sum / norm))
		}
	}
	return out
}

// adaptiveThreshold binarizes against a Gaussian-weighted local mean: a pixel
// is kept white when it exceeds the local mean minus the bias constant.
func adaptiveThreshold(src *image.Gray, blockSize int, bias float64) *image.Gray {
	if blockSize < 3 {
		blockSize = 3
	}
	if blockSize%2 == 0 {
		blockSize++
	}
	// The blur sigma follows the block size so the weighted window matches
	// the requested neighborhood.
	ref := gaussianBlurGray(src, float64(blockSize)/6)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if float64(src.Pix[y*src.Stride+x]) > float64(ref.Pix[y*ref.Stride+x])-bias {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
