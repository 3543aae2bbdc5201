// Package pipeline orchestrates the scan-to-document flow: rasterize each
// source page, optionally detect and rectify the document region, enhance,
// recognize text, and assemble either plain text, markdown, or a searchable
// PDF. Pages are processed by a bounded worker pool and reassembled in
// source order; a failed page is reported and skipped, never fatal for the
// batch.
package pipeline

import (
	"image"
	"runtime"
	"time"

	"github.com/1am2syman/omni-pdf/coords"
	"github.com/1am2syman/omni-pdf/observability"
	"github.com/1am2syman/omni-pdf/ocr"
	"github.com/1am2syman/omni-pdf/scan"
)

// OutputFormat selects what Process writes.
type OutputFormat int

const (
	// FormatText emits plain text with form-feed page separators.
	FormatText OutputFormat = iota
	// FormatMarkdown emits text with markdown rule separators.
	FormatMarkdown
	// FormatPDF emits a searchable PDF.
	FormatPDF
)

// Default page separators per textual format.
const (
	TextPageSeparator     = "\f"
	MarkdownPageSeparator = "\n\n---\n\n"
)

// Options configures a Pipeline. The zero value is usable: 300 DPI, OCR for
// every page, one worker per CPU, no enhancement.
type Options struct {
	// Format selects the output kind.
	Format OutputFormat
	// DPI is the rasterization resolution for PDF inputs and the assumed
	// resolution of image inputs. Zero means 300.
	DPI float64
	// ForceOCR skips the embedded-text shortcut for PDF inputs and runs
	// recognition on every page.
	ForceOCR bool
	// Languages passes trained-data hints to the OCR engine.
	Languages []string
	// Workers bounds concurrent page processing. Zero means GOMAXPROCS.
	Workers int
	// OCRTimeout bounds a single page's recognition; expiry is recorded as
	// a recognition failure for that page only. Zero disables the bound.
	OCRTimeout time.Duration
	// Rotation turns every page by a quarter-turn multiple before any other
	// processing.
	Rotation int
	// Crop restricts every page to a pixel region after rotation.
	Crop *image.Rectangle
	// AutoEnhance enables edge detection, perspective rectification and the
	// full scan cleanup (bilateral filter plus adaptive threshold).
	AutoEnhance bool
	// Brightness, Contrast and Sharpness adjust pages individually; zero
	// leaves a factor unchanged. They apply with or without AutoEnhance.
	Brightness float64
	Contrast   float64
	Sharpness  float64
	// Detector overrides edge-detection tuning; zero fields fall back to
	// defaults.
	Detector scan.DetectorConfig
	// FontClamp bounds invisible text sizes in PDF output.
	FontClamp coords.FontClamp
	// PageSeparator overrides the per-format default for textual output.
	PageSeparator string
	// Compression is the flate level for PDF output. Zero means level 6.
	Compression int
	// Deterministic makes PDF output byte-stable for identical inputs.
	Deterministic bool

	Logger observability.Logger
	Tracer observability.Tracer
}

// Pipeline processes batches of scanned inputs with a shared OCR engine.
// The engine is created once by the caller and reused across every page and
// run; it may be nil when only embedded-text extraction is needed.
type Pipeline struct {
	engine   ocr.Engine
	opts     Options
	logger   observability.Logger
	tracer   observability.Tracer
	detector *scan.Detector
}

// New constructs a Pipeline around the given engine.
func New(engine ocr.Engine, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = observability.NopLogger{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	return &Pipeline{
		engine:   engine,
		opts:     opts,
		logger:   logger,
		tracer:   tracer,
		detector: scan.NewDetector(opts.Detector),
	}
}

func (p *Pipeline) dpi() float64 {
	if p.opts.DPI > 0 {
		return p.opts.DPI
	}
	return 300
}

func (p *Pipeline) workers() int {
	if p.opts.Workers > 0 {
		return p.opts.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (p *Pipeline) compression() int {
	if p.opts.Compression != 0 {
		return p.opts.Compression
	}
	return 6
}

func (p *Pipeline) separator() string {
	if p.opts.PageSeparator != "" {
		return p.opts.PageSeparator
	}
	if p.opts.Format == FormatMarkdown {
		return MarkdownPageSeparator
	}
	return TextPageSeparator
}

// enhanceOptions merges manual adjustment factors over the defaults used
// when AutoEnhance is on.
func (p *Pipeline) enhanceOptions() scan.EnhanceOptions {
	opts := scan.DefaultEnhanceOptions()
	if p.opts.Brightness != 0 {
		opts.Brightness = p.opts.Brightness
	}
	if p.opts.Contrast != 0 {
		opts.Contrast = p.opts.Contrast
	}
	if p.opts.Sharpness != 0 {
		opts.Sharpness = p.opts.Sharpness
	}
	return opts
}

// manualEnhanceOptions returns adjustment-only options, and whether any
// manual factor is set at all.
func (p *Pipeline) manualEnhanceOptions() (scan.EnhanceOptions, bool) {
	opts := scan.EnhanceOptions{Brightness: 1, Contrast: 1, Sharpness: 1}
	any := false
	if p.opts.Brightness != 0 {
		opts.Brightness = p.opts.Brightness
		any = any || p.opts.Brightness != 1
	}
	if p.opts.Contrast != 0 {
		opts.Contrast = p.opts.Contrast
		any = any || p.opts.Contrast != 1
	}
	if p.opts.Sharpness != 0 {
		opts.Sharpness = p.opts.Sharpness
		any = any || p.opts.Sharpness != 1
	}
	return opts, any
}
