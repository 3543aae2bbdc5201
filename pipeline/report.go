package pipeline

// TextSource identifies where a page's text came from.
type TextSource string

const (
	// SourceOCR marks text produced by the recognition engine.
	SourceOCR TextSource = "ocr"
	// SourceEmbedded marks text lifted from the input PDF's own text layer.
	SourceEmbedded TextSource = "embedded"
)

// PageStatus records the outcome of one page.
type PageStatus struct {
	Index  int
	Source TextSource
	// Rectified is set when document edges were found and the page was
	// perspective-corrected.
	Rectified bool
	// Lines is the number of text runs carried into the output.
	Lines int
	// SkippedLines counts recognized lines dropped during synthesis.
	SkippedLines int
	// Err is nil for a successful page.
	Err *PageError
}

// Failed reports whether the page produced no usable result.
func (s PageStatus) Failed() bool { return s.Err != nil }

// Report summarizes a whole run. Pages always holds one entry per source
// page, in source order, regardless of worker scheduling.
type Report struct {
	TotalPages int
	Succeeded  int
	Failed     int
	Pages      []PageStatus
}

func buildReport(outcomes []pageOutcome) Report {
	r := Report{TotalPages: len(outcomes), Pages: make([]PageStatus, len(outcomes))}
	for i, o := range outcomes {
		r.Pages[i] = o.status
		if o.status.Failed() {
			r.Failed++
		} else {
			r.Succeeded++
		}
	}
	return r
}
