// Package ocr defines the contract between the scan pipeline and pluggable
// text-recognition engines (Tesseract, cloud services). The interfaces are
// small and transport-agnostic; engines may wrap native libraries or remote
// APIs without leaking provider concerns into callers. Recognition is
// line-granular: each result line carries its bounding box in the exact
// pixel space of the raster that was submitted.
package ocr

import (
	"context"

	"github.com/1am2syman/omni-pdf/coords"
)

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// Input encapsulates a single raster submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier echoed back in the
	// corresponding Result.
	ID string
	// Image is the encoded payload in the format declared by Format.
	Image []byte
	// Format declares the image content type.
	Format ImageFormat
	// PageIndex links the input back to the zero-based source page.
	PageIndex int
	// DPI carries the effective resolution of the raster; engines use it for
	// layout heuristics. Zero means unknown.
	DPI int
	// Languages lists trained-data hints (e.g. "eng", "deu").
	Languages []string
	// Metadata passes engine-specific knobs (e.g. "tessedit_pageseg_mode")
	// without hard-coding them into the API surface.
	Metadata map[string]string
}

// Line is one recognized text line. Bounds is expressed in the pixel space
// of the raster that was fed to the engine; index order within a Result is
// the engine's natural reading order and must not be re-sorted by callers.
type Line struct {
	Text       string
	Bounds     coords.Rect
	Confidence float64 // in [0,1]
}

// Result captures recognition output for a single input raster.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// PlainText is the linearized text of the whole raster.
	PlainText string
	// Lines carries the positional layout, in reading order.
	Lines []Line
	// Language is the dominant language, if known.
	Language string
}

// Engine is the recognition contract: one raster in, one result out.
// Engines are constructed explicitly by the orchestrator, created once per
// batch and shared across all pages; each implementation documents whether
// Recognize is safe for concurrent calls or serializes internally.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
	Close() error
}
