package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/1am2syman/omni-pdf/extractor"
	"github.com/1am2syman/omni-pdf/observability"
	"github.com/1am2syman/omni-pdf/ocr"
	"github.com/1am2syman/omni-pdf/raster"
	"github.com/1am2syman/omni-pdf/raster/fitz"
	"github.com/1am2syman/omni-pdf/scan"
	"github.com/1am2syman/omni-pdf/synth"
)

// pageOutcome carries one page's intermediate state from the worker pool to
// the ordered assembly step.
type pageOutcome struct {
	status PageStatus
	page   *raster.Page
	lines  []ocr.Line
	text   string
}

// textLayer looks up a page's embedded text before OCR is considered.
// *extractor.Extractor satisfies it; tests substitute fakes.
type textLayer interface {
	PageText(index int) (string, error)
}

// Process runs the whole batch and writes the configured output format. The
// returned report always covers every source page, including when the run
// also returns an error.
func (p *Pipeline) Process(ctx context.Context, inputs []string, out io.Writer) (Report, error) {
	if len(inputs) == 0 {
		return Report{}, errors.New("no inputs")
	}

	src, isPDF, err := openSource(inputs)
	if err != nil {
		return Report{}, err
	}
	defer src.Close()

	var embedded textLayer
	if isPDF {
		ext, err := extractor.Open(inputs[0])
		if err != nil {
			p.logger.Warn("embedded text unavailable, falling back to OCR",
				observability.Error("error", err))
		} else {
			defer ext.Close()
			embedded = ext
		}
	}

	return p.run(ctx, src, embedded, out)
}

// run processes all pages of src and assembles the output. Searchable-PDF
// output re-recognizes every page: the embedded layer is consulted only for
// textual formats, so position data always comes from OCR on fresh rasters.
func (p *Pipeline) run(ctx context.Context, src raster.Source, embedded textLayer, out io.Writer) (Report, error) {
	if p.opts.Format == FormatPDF || p.opts.ForceOCR {
		embedded = nil
	}

	outcomes, err := p.processPages(ctx, src, embedded)
	if err != nil {
		return buildReport(outcomes), err
	}

	if p.opts.Format == FormatPDF {
		return p.assemblePDF(ctx, outcomes, out)
	}
	return p.assembleText(outcomes, out)
}

// openSource picks the page source for the inputs: a single PDF renders
// through MuPDF, anything else is treated as a list of image files.
func openSource(inputs []string) (raster.Source, bool, error) {
	if len(inputs) == 1 && strings.EqualFold(filepath.Ext(inputs[0]), ".pdf") {
		src, err := fitz.Open(inputs[0])
		if err != nil {
			return nil, false, err
		}
		return src, true, nil
	}
	for _, in := range inputs {
		if strings.EqualFold(filepath.Ext(in), ".pdf") {
			return nil, false, fmt.Errorf("pdf input %s cannot be mixed with other inputs", in)
		}
	}
	return raster.NewImageSource(inputs), false, nil
}

func (p *Pipeline) processPages(ctx context.Context, src raster.Source, embedded textLayer) ([]pageOutcome, error) {
	n := src.PageCount()
	outcomes := make([]pageOutcome, n)

	// Page sources and the embedded-text reader are not safe for concurrent
	// use; only their calls are serialized, the CV and OCR stages still run
	// in parallel.
	var srcMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.processPage(gctx, src, &srcMu, embedded, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func (p *Pipeline) processPage(ctx context.Context, src raster.Source, srcMu *sync.Mutex, embedded textLayer, index int) pageOutcome {
	out := pageOutcome{status: PageStatus{Index: index}}
	log := p.logger.With(observability.Int("page", index))

	if embedded != nil {
		srcMu.Lock()
		text, err := embedded.PageText(index)
		srcMu.Unlock()
		if err == nil && extractor.HasUsableText(text) {
			out.status.Source = SourceEmbedded
			out.text = text
			log.Debug("using embedded text layer")
			return out
		}
		if err != nil {
			log.Warn("embedded text extraction failed, falling back to OCR",
				observability.Error("error", err))
		}
	}

	sctx, span := p.tracer.StartSpan(ctx, observability.SpanRasterize)
	srcMu.Lock()
	page, err := src.Page(sctx, index, p.dpi())
	srcMu.Unlock()
	if err != nil {
		span.SetError(err)
		span.Finish()
		log.Error("rasterization failed", observability.Error("error", err))
		out.status.Err = pageErr(KindUnreadableRaster, index, err)
		return out
	}
	span.Finish()

	if p.opts.Rotation != 0 {
		page.Rotate(p.opts.Rotation)
	}
	if p.opts.Crop != nil {
		page.Crop(*p.opts.Crop)
	}

	if p.opts.AutoEnhance {
		_, span = p.tracer.StartSpan(ctx, observability.SpanDetect)
		quad, found := p.detector.Detect(page.Gray())
		span.Finish()
		if found {
			_, span = p.tracer.StartSpan(ctx, observability.SpanRectify)
			page = scan.Rectify(page, quad)
			span.Finish()
			out.status.Rectified = true
		} else {
			log.Debug("no document edges found, keeping full frame")
		}
		_, span = p.tracer.StartSpan(ctx, observability.SpanEnhance)
		page = scan.Enhance(page, p.enhanceOptions())
		span.Finish()
	} else if opts, any := p.manualEnhanceOptions(); any {
		_, span = p.tracer.StartSpan(ctx, observability.SpanEnhance)
		page = scan.Enhance(page, opts)
		span.Finish()
	}
	out.page = page

	if p.engine == nil {
		out.status.Err = pageErr(KindRecognitionFailure, index, errors.New("no OCR engine configured"))
		return out
	}

	input, err := ocr.InputFromPage(page, index, ocr.WithLanguages(p.opts.Languages...))
	if err != nil {
		out.status.Err = pageErr(KindRecognitionFailure, index, err)
		return out
	}

	rctx := ctx
	if p.opts.OCRTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, p.opts.OCRTimeout)
		defer cancel()
	}
	rctx, span = p.tracer.StartSpan(rctx, observability.SpanRecognize)
	res, err := p.engine.Recognize(rctx, input)
	if err != nil {
		span.SetError(err)
		span.Finish()
		log.Error("recognition failed", observability.Error("error", err))
		out.status.Err = pageErr(KindRecognitionFailure, index, err)
		return out
	}
	span.SetTag("lines", len(res.Lines))
	span.Finish()

	out.status.Source = SourceOCR
	out.lines = res.Lines
	out.text = res.PlainText
	return out
}

// assemblePDF builds the searchable document in source-page order. A page
// whose recognition failed still contributes its image, only searchability
// is lost; a page with no raster at all is dropped and stays in the report.
func (p *Pipeline) assemblePDF(ctx context.Context, outcomes []pageOutcome, out io.Writer) (Report, error) {
	s := synth.New(synth.Options{
		Logger:        p.logger,
		FontClamp:     p.opts.FontClamp,
		Compression:   p.compression(),
		Deterministic: p.opts.Deterministic,
	})
	for i := range outcomes {
		o := &outcomes[i]
		if o.page == nil {
			continue
		}
		stats := s.AddPage(o.page, o.lines)
		o.status.Lines = stats.Lines
		o.status.SkippedLines = stats.Skipped
		if stats.Skipped > 0 {
			p.logger.Warn("recognized lines lost during synthesis",
				observability.String("kind", string(KindTextInsertionFailure)),
				observability.Int("page", o.status.Index),
				observability.Int("lines", stats.Skipped),
			)
		}
		o.page = nil // release pixels before the next page
	}
	report := buildReport(outcomes)

	if s.PageCount() == 0 {
		return report, errors.New("no pages could be processed")
	}

	_, span := p.tracer.StartSpan(ctx, observability.SpanSynthesis)
	err := s.Write(ctx, out)
	span.Finish()
	if err != nil {
		return report, pageErr(KindOutputWriteFailure, -1, err)
	}
	return report, nil
}

// assembleText joins per-page text in source order. Failed pages contribute
// nothing; their entries stay in the report.
func (p *Pipeline) assembleText(outcomes []pageOutcome, out io.Writer) (Report, error) {
	sep := p.separator()
	var b strings.Builder
	first := true
	for i := range outcomes {
		o := &outcomes[i]
		o.page = nil
		o.status.Lines = len(o.lines)
		if o.status.Failed() {
			continue
		}
		if !first {
			b.WriteString(sep)
		}
		b.WriteString(o.text)
		first = false
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	report := buildReport(outcomes)
	if _, err := io.WriteString(out, b.String()); err != nil {
		return report, pageErr(KindOutputWriteFailure, -1, err)
	}
	return report, nil
}
