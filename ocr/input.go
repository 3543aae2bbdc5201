package ocr

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/1am2syman/omni-pdf/raster"
)

// InputFromPage encodes a raster page as a PNG-backed OCR input. The
// generated ID is stable for the page index so downstream results correlate
// with their source pages.
func InputFromPage(p *raster.Page, pageIndex int, opts ...InputOption) (Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.NRGBA); err != nil {
		return Input{}, fmt.Errorf("encode page %d: %w", pageIndex, err)
	}
	in := Input{
		ID:        fmt.Sprintf("page-%d", pageIndex),
		Image:     buf.Bytes(),
		Format:    ImageFormatPNG,
		PageIndex: pageIndex,
		DPI:       int(p.DPI),
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}
