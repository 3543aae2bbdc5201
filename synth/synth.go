// Package synth assembles searchable PDF pages: each source raster becomes
// one page carrying the full-page image plus an invisible text layer whose
// runs sit exactly over the recognized line boxes, so selection and search
// line up with the printed content.
package synth

import (
	"context"
	"io"

	"github.com/1am2syman/omni-pdf/builder"
	"github.com/1am2syman/omni-pdf/contentstream"
	"github.com/1am2syman/omni-pdf/coords"
	"github.com/1am2syman/omni-pdf/ir/semantic"
	"github.com/1am2syman/omni-pdf/observability"
	"github.com/1am2syman/omni-pdf/ocr"
	"github.com/1am2syman/omni-pdf/raster"
	"github.com/1am2syman/omni-pdf/writer"
)

// Options configures a Synthesizer.
type Options struct {
	// Logger receives per-line insertion warnings; nil means silent.
	Logger observability.Logger
	// FontClamp bounds invisible glyph sizes; the zero value selects the
	// default range.
	FontClamp coords.FontClamp
	// Compression is the flate level passed to the writer.
	Compression int
	// Deterministic makes identical inputs produce identical output bytes.
	Deterministic bool
	// Info populates the output document's /Info dictionary.
	Info *semantic.DocumentInfo
}

// PageStats reports what happened while adding one page.
type PageStats struct {
	// Lines is the number of text runs placed on the page.
	Lines int
	// Skipped counts recognized lines that could not be inserted (for
	// example text with no encodable characters). The page itself is still
	// emitted; a skipped line only loses searchability, never the image.
	Skipped int
}

// Synthesizer accumulates pages and writes the final document. It is not
// safe for concurrent use; the orchestrator adds pages in order.
type Synthesizer struct {
	builder builder.PDFBuilder
	writer  writer.Writer
	logger  observability.Logger
	clamp   coords.FontClamp
	opts    Options
	pages   int
}

// New constructs a Synthesizer.
func New(opts Options) *Synthesizer {
	logger := opts.Logger
	if logger == nil {
		logger = observability.NopLogger{}
	}
	clamp := opts.FontClamp
	if clamp == (coords.FontClamp{}) {
		clamp = coords.DefaultFontClamp()
	}
	return &Synthesizer{
		builder: builder.NewBuilder(),
		writer:  writer.New(),
		logger:  logger,
		clamp:   clamp,
		opts:    opts,
	}
}

// AddPage appends one searchable page built from the raster and its
// recognized lines. A page with no lines still gets its image so the output
// never drops a page.
func (s *Synthesizer) AddPage(p *raster.Page, lines []ocr.Line) PageStats {
	mapper := coords.NewPageMapper(p.Width(), p.Height(), p.DPI, s.clamp)
	w, h := mapper.PageSize()

	pb := s.builder.NewPage(w, h)
	pb.DrawImage(builder.FromPage(p), 0, 0, w, h, builder.ImageOptions{})

	var stats PageStats
	for i, line := range lines {
		encoded, ok := encodeLine(line.Text)
		if !ok {
			stats.Skipped++
			s.logger.Warn("text line skipped: no encodable characters",
				observability.Int("page", s.pages),
				observability.Int("line", i),
			)
			continue
		}
		ml := mapper.MapLine(line.Text, line.Bounds)
		pb.DrawText(string(encoded), ml.Anchor.X, ml.Anchor.Y, builder.TextOptions{
			FontSize:   ml.FontSize,
			RenderMode: contentstream.TextInvisible,
		})
		stats.Lines++
	}
	s.pages++
	return stats
}

// PageCount reports how many pages have been added so far.
func (s *Synthesizer) PageCount() int { return s.pages }

// Write serializes the accumulated document.
func (s *Synthesizer) Write(ctx context.Context, w io.Writer) error {
	info := s.opts.Info
	if info == nil {
		info = &semantic.DocumentInfo{Producer: "omni-pdf"}
	}
	doc, err := s.builder.SetInfo(info).Build()
	if err != nil {
		return err
	}
	return s.writer.Write(ctx, doc, w, writer.Config{
		Compression:   s.opts.Compression,
		Deterministic: s.opts.Deterministic,
	})
}
