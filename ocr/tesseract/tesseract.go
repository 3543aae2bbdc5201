// Package tesseract implements the ocr.Engine contract over the gosseract
// client.
package tesseract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/1am2syman/omni-pdf/coords"
	"github.com/1am2syman/omni-pdf/ocr"
)

// Engine wraps a single long-lived gosseract client. Initialization of the
// underlying Tesseract instance is expensive, so an Engine is created once
// per batch and reused across every page and document in that run.
//
// Concurrency contract: the wrapped client is not safe for concurrent use,
// so Recognize serializes on an internal mutex. Parallel page workers may
// share one Engine; recognition throughput is then bounded by the engine,
// not the workers. Use one Engine per worker to recognize in parallel.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewEngine constructs a Tesseract-backed engine with a fresh client.
func NewEngine() *Engine {
	return &Engine{client: gosseract.NewClient()}
}

func (e *Engine) Name() string { return "tesseract" }

// Close releases the native client. The engine is unusable afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

// Recognize performs OCR on a single raster and returns line-level boxes in
// the raster's own pixel space.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return ocr.Result{}, fmt.Errorf("engine is closed")
	}
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	c := e.client
	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize lines: %w", err)
	}
	lines := make([]ocr.Line, 0, len(boxes))
	var plain strings.Builder
	for _, b := range boxes {
		text := strings.TrimRight(b.Word, "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, ocr.Line{
			Text: text,
			Bounds: coords.Rect{
				X:      float64(b.Box.Min.X),
				Y:      float64(b.Box.Min.Y),
				Width:  float64(b.Box.Dx()),
				Height: float64(b.Box.Dy()),
			},
			Confidence: clampConfidence(b.Confidence / 100),
		})
		plain.WriteString(text)
		plain.WriteByte('\n')
	}

	return ocr.Result{
		InputID:   in.ID,
		PlainText: strings.TrimRight(plain.String(), "\n"),
		Lines:     lines,
		Language:  firstLanguage(in.Languages),
	}, nil
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}

var _ ocr.Engine = (*Engine)(nil)
