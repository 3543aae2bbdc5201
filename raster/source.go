package raster

import (
	"context"
	"fmt"
)

// Source materializes the pages of a multi-page document one at a time.
// Implementations wrap external converters (a PDF renderer, a directory of
// photographs); the pipeline only depends on this contract.
type Source interface {
	// PageCount reports the number of pages available.
	PageCount() int
	// Page renders the zero-based page at the requested DPI. Implementations
	// must honor ctx cancellation for long renders.
	Page(ctx context.Context, index int, dpi float64) (*Page, error)
	// Close releases renderer resources. The Source is unusable afterwards.
	Close() error
}

// ImageSource is a Source over a fixed list of image files, one page per
// file. The DPI argument to Page overrides nothing: photographs carry no
// intrinsic resolution, so the requested DPI is recorded as-is.
type ImageSource struct {
	paths []string
}

// NewImageSource builds a Source over image file paths in page order.
func NewImageSource(paths []string) *ImageSource {
	return &ImageSource{paths: append([]string(nil), paths...)}
}

func (s *ImageSource) PageCount() int { return len(s.paths) }

func (s *ImageSource) Page(ctx context.Context, index int, dpi float64) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(s.paths) {
		return nil, fmt.Errorf("page %d out of range [0,%d)", index, len(s.paths))
	}
	return DecodeFile(s.paths[index], dpi)
}

func (s *ImageSource) Close() error { return nil }
