package pipeline

import "fmt"

// ErrorKind classifies page-scoped processing failures. A failed page never
// aborts the batch; its kind and cause land in the run report instead.
type ErrorKind string

const (
	// KindUnreadableRaster means the page could not be rendered or decoded
	// into pixels at all.
	KindUnreadableRaster ErrorKind = "unreadable_raster"
	// KindRecognitionFailure means OCR errored or timed out for the page.
	KindRecognitionFailure ErrorKind = "recognition_failure"
	// KindTextInsertionFailure means recognized text could not be placed on
	// the synthesized page. It is line-scoped: affected lines are logged
	// under this kind and counted in PageStatus.SkippedLines, the page
	// itself still succeeds and PageStatus.Err stays nil.
	KindTextInsertionFailure ErrorKind = "text_insertion_failure"
	// KindOutputWriteFailure means the final document could not be written.
	// This is the only document-scoped kind; it carries page index -1.
	KindOutputWriteFailure ErrorKind = "output_write_failure"
)

// PageError wraps a failure with its kind and the page it hit.
type PageError struct {
	Kind ErrorKind
	Page int
	Err  error
}

func (e *PageError) Error() string {
	if e.Page < 0 {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("page %d: %s: %v", e.Page, e.Kind, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

func pageErr(kind ErrorKind, page int, err error) *PageError {
	return &PageError{Kind: kind, Page: page, Err: err}
}
