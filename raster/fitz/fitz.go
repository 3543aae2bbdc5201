// Package fitz adapts the go-fitz PDF renderer to the raster.Source
// contract. Rendering a PDF page to pixels is a single library call;
// everything interesting happens downstream.
package fitz

import (
	"context"
	"fmt"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/1am2syman/omni-pdf/raster"
)

// Source renders pages of one PDF document. It is not safe for concurrent
// Page calls; guard it with a mutex or open one Source per worker.
type Source struct {
	doc *gofitz.Document
}

// Open loads a PDF document for page rendering.
func Open(path string) (*Source, error) {
	doc, err := gofitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &Source{doc: doc}, nil
}

func (s *Source) PageCount() int { return s.doc.NumPage() }

func (s *Source) Page(ctx context.Context, index int, dpi float64) (*raster.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = raster.DefaultDPI
	}
	img, err := s.doc.ImageDPI(index, dpi)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index, err)
	}
	return raster.FromImage(img, dpi), nil
}

func (s *Source) Close() error { return s.doc.Close() }

var _ raster.Source = (*Source)(nil)
