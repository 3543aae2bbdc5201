// Command omnipdf converts scans and PDFs into searchable PDFs or extracted
// text. Image inputs (and PDFs with -force-ocr) run through the full scan
// pipeline: edge detection, perspective rectification, enhancement and OCR.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/1am2syman/omni-pdf/observability"
	"github.com/1am2syman/omni-pdf/ocr"
	"github.com/1am2syman/omni-pdf/ocr/tesseract"
	"github.com/1am2syman/omni-pdf/pipeline"
)

type options struct {
	inputs     []string
	outPath    string
	format     pipeline.OutputFormat
	dpi        float64
	languages  []string
	workers    int
	forceOCR   bool
	autoCrop   bool
	brightness float64
	contrast   float64
	sharpness  float64
	rotation   int
	crop       *image.Rectangle
	ocrTimeout time.Duration
	verbose    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "omnipdf: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "omnipdf: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: omnipdf [flags] <input.pdf | image...>\n")
		flag.PrintDefaults()
	}
	out := flag.String("o", "", "Output file (default stdout)")
	format := flag.String("format", "pdf", "Output format: pdf, text, markdown")
	dpi := flag.Float64("dpi", 300, "Rasterization resolution")
	langs := flag.String("langs", "eng", "Comma-separated OCR language codes")
	workers := flag.Int("workers", 0, "Concurrent page workers (0 = number of CPUs)")
	forceOCR := flag.Bool("force-ocr", false, "OCR every page even if the PDF has a text layer")
	autoCrop := flag.Bool("auto-crop", false, "Detect document edges, rectify perspective and clean up the scan")
	brightness := flag.Float64("brightness", 0, "Brightness factor (0 = unchanged)")
	contrast := flag.Float64("contrast", 0, "Contrast factor (0 = unchanged)")
	sharpness := flag.Float64("sharpness", 0, "Sharpness factor (0 = unchanged)")
	rotation := flag.Int("rotate", 0, "Rotate pages clockwise: 90, 180 or 270")
	crop := flag.String("crop", "", "Pixel crop region as x,y,width,height")
	ocrTimeout := flag.Duration("ocr-timeout", 0, "Per-page OCR time limit (0 = none)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return options{}, fmt.Errorf("missing input files")
	}
	opts.inputs = flag.Args()
	opts.outPath = *out
	opts.dpi = *dpi
	opts.workers = *workers
	opts.forceOCR = *forceOCR
	opts.autoCrop = *autoCrop
	opts.brightness = *brightness
	opts.contrast = *contrast
	opts.sharpness = *sharpness
	opts.rotation = *rotation
	opts.ocrTimeout = *ocrTimeout
	opts.verbose = *verbose

	switch *format {
	case "pdf":
		opts.format = pipeline.FormatPDF
	case "text":
		opts.format = pipeline.FormatText
	case "markdown", "md":
		opts.format = pipeline.FormatMarkdown
	default:
		return options{}, fmt.Errorf("unknown format %q", *format)
	}

	for _, l := range strings.Split(*langs, ",") {
		if l = strings.TrimSpace(l); l != "" {
			opts.languages = append(opts.languages, l)
		}
	}

	if *crop != "" {
		r, err := parseCrop(*crop)
		if err != nil {
			return options{}, err
		}
		opts.crop = &r
	}
	return opts, nil
}

func parseCrop(s string) (image.Rectangle, error) {
	var x, y, w, h int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x, &y, &w, &h); err != nil {
		return image.Rectangle{}, fmt.Errorf("invalid crop %q: want x,y,width,height", s)
	}
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid crop %q: empty region", s)
	}
	return image.Rect(x, y, x+w, y+h), nil
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := observability.NewWriterLogger(os.Stderr)
	logger.Debugs = opts.verbose

	// One engine per run; pages share it and serialize on its client.
	var engine ocr.Engine = tesseract.NewEngine()
	defer engine.Close()

	p := pipeline.New(engine, pipeline.Options{
		Format:      opts.format,
		DPI:         opts.dpi,
		ForceOCR:    opts.forceOCR,
		Languages:   opts.languages,
		Workers:     opts.workers,
		OCRTimeout:  opts.ocrTimeout,
		Rotation:    opts.rotation,
		Crop:        opts.crop,
		AutoEnhance: opts.autoCrop,
		Brightness:  opts.brightness,
		Contrast:    opts.contrast,
		Sharpness:   opts.sharpness,
		Logger:      logger,
	})

	out := os.Stdout
	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	report, err := p.Process(ctx, opts.inputs, out)
	if err != nil {
		return err
	}
	logger.Info("done",
		observability.Int("pages", report.TotalPages),
		observability.Int("succeeded", report.Succeeded),
		observability.Int("failed", report.Failed),
	)
	for _, ps := range report.Pages {
		if ps.Failed() {
			logger.Warn("page failed", observability.Int("page", ps.Index), observability.Error("error", ps.Err))
		}
	}
	if report.Succeeded == 0 && report.TotalPages > 0 {
		return fmt.Errorf("all %d pages failed", report.TotalPages)
	}
	return nil
}
