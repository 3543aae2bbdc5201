// Package contentstream holds content-stream level vocabulary shared by the
// builder and writer, most importantly the text rendering modes set with the
// Tr operator. Searchable page synthesis draws its recognized text with
// TextInvisible so the text layer is selectable but never painted over the
// scanned image.
package contentstream

// TextRenderMode matches PDF text rendering modes set via the Tr operator.
type TextRenderMode int

const (
	TextFill TextRenderMode = iota
	TextStroke
	TextFillStroke
	TextInvisible
	TextFillClip
	TextStrokeClip
	TextFillStrokeClip
	TextClip
)

func (m TextRenderMode) String() string {
	switch m {
	case TextFill:
		return "fill"
	case TextStroke:
		return "stroke"
	case TextFillStroke:
		return "fill-stroke"
	case TextInvisible:
		return "invisible"
	case TextFillClip:
		return "fill-clip"
	case TextStrokeClip:
		return "stroke-clip"
	case TextFillStrokeClip:
		return "fill-stroke-clip"
	case TextClip:
		return "clip"
	}
	return "unknown"
}
