// Package builder provides a fluent API for assembling semantic PDF
// documents. Pages are composed from drawing calls that append typed
// content-stream operations; Build produces the document the writer
// serializes.
package builder

import (
	"fmt"

	"github.com/1am2syman/omni-pdf/contentstream"
	"github.com/1am2syman/omni-pdf/coords"
	"github.com/1am2syman/omni-pdf/ir/semantic"
)

// PDFBuilder provides a fluent API for PDF construction.
type PDFBuilder interface {
	NewPage(width, height float64) PageBuilder
	AddPage(page *semantic.Page) PDFBuilder
	SetInfo(info *semantic.DocumentInfo) PDFBuilder
	Build() (*semantic.Document, error)
}

// PageBuilder provides a fluent API for page construction.
type PageBuilder interface {
	DrawText(text string, x, y float64, opts TextOptions) PageBuilder
	DrawImage(img *semantic.Image, x, y, width, height float64, opts ImageOptions) PageBuilder
	SetMediaBox(box semantic.Rectangle) PageBuilder
	SetRotation(degrees int) PageBuilder
	Finish() PDFBuilder
}

// TextOptions configures text drawing.
type TextOptions struct {
	Font       string
	FontSize   float64
	RenderMode contentstream.TextRenderMode
}

// ImageOptions configures image drawing.
type ImageOptions struct {
	Interpolate bool
	SMask       *semantic.Image
}

type builderImpl struct {
	pages        []*semantic.Page
	info         *semantic.DocumentInfo
	fonts        map[string]*semantic.Font
	defaultFont  string
	xobjectCount int
	xobjectNames map[*semantic.Image]string
}

type pageBuilderImpl struct {
	parent *builderImpl
	page   *semantic.Page
}

const (
	defaultFontResource = "F1"
	defaultBaseFont     = "Helvetica"
	defaultEncoding     = "WinAnsiEncoding"
)

// NewBuilder constructs a PDFBuilder.
func NewBuilder() PDFBuilder { return &builderImpl{defaultFont: defaultFontResource} }

func (b *builderImpl) NewPage(w, h float64) PageBuilder {
	p := &semantic.Page{MediaBox: semantic.Rectangle{LLX: 0, LLY: 0, URX: w, URY: h}}
	b.pages = append(b.pages, p)
	return &pageBuilderImpl{parent: b, page: p}
}

func (b *builderImpl) AddPage(p *semantic.Page) PDFBuilder {
	b.pages = append(b.pages, p)
	return b
}

func (b *builderImpl) SetInfo(info *semantic.DocumentInfo) PDFBuilder {
	b.info = info
	return b
}

func (b *builderImpl) Build() (*semantic.Document, error) {
	for i, p := range b.pages {
		p.Index = i
	}
	return &semantic.Document{Pages: b.pages, Info: b.info}, nil
}

func (p *pageBuilderImpl) DrawText(text string, x, y float64, opts TextOptions) PageBuilder {
	ops := p.ensureContentOps()
	res := p.ensureResources()

	font, fontName := p.parent.fontForName(opts.Font)
	if _, ok := res.Fonts[fontName]; !ok {
		res.Fonts[fontName] = font
	}
	size := opts.FontSize
	if size <= 0 {
		size = 12
	}

	*ops = append(*ops, semantic.Operation{Operator: "BT"})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tf",
		Operands: []semantic.Operand{semantic.NameOperand{Value: fontName}, semantic.NumberOperand{Value: size}},
	})
	if opts.RenderMode != contentstream.TextFill {
		*ops = append(*ops, semantic.Operation{Operator: "Tr", Operands: []semantic.Operand{semantic.NumberOperand{Value: float64(opts.RenderMode)}}})
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "Tm",
		Operands: matrixOperands(coords.Translate(x, y)),
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tj",
		Operands: []semantic.Operand{semantic.StringOperand{Value: []byte(text)}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "ET"})
	return p
}

func (p *pageBuilderImpl) DrawImage(img *semantic.Image, x, y, width, height float64, opts ImageOptions) PageBuilder {
	if img == nil {
		return p
	}
	res := p.ensureResources()

	name := p.parent.imageName(img)
	if _, exists := res.XObjects[name]; !exists {
		xobj := semantic.XObject(*img)
		xobj.Subtype = "Image"
		if opts.Interpolate {
			xobj.Interpolate = true
		}
		if opts.SMask != nil {
			xobj.SMask = opts.SMask
		}
		res.XObjects[name] = xobj
	}
	w := width
	if w == 0 {
		w = float64(img.Width)
	}
	h := height
	if h == 0 {
		h = float64(img.Height)
	}

	ops := p.ensureContentOps()
	// cm scales the unit image square to the target box, then translates it.
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	*ops = append(*ops, semantic.Operation{
		Operator: "cm",
		Operands: matrixOperands(coords.Scale(w, h).Multiply(coords.Translate(x, y))),
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Do",
		Operands: []semantic.Operand{semantic.NameOperand{Value: name}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) SetMediaBox(box semantic.Rectangle) PageBuilder {
	p.page.MediaBox = box
	return p
}

func (p *pageBuilderImpl) SetRotation(degrees int) PageBuilder {
	p.page.Rotate = normalizeRotation(degrees)
	return p
}

func (p *pageBuilderImpl) Finish() PDFBuilder { return p.parent }

func (b *builderImpl) fontForName(name string) (*semantic.Font, string) {
	if name == "" {
		name = b.defaultFont
		if name == "" {
			name = defaultFontResource
		}
	}
	if b.fonts == nil {
		b.fonts = make(map[string]*semantic.Font)
	}
	if f, ok := b.fonts[name]; ok {
		return f, name
	}
	font := &semantic.Font{BaseFont: defaultBaseFont, Encoding: defaultEncoding}
	b.fonts[name] = font
	return font, name
}

func (b *builderImpl) imageName(img *semantic.Image) string {
	if b.xobjectNames == nil {
		b.xobjectNames = make(map[*semantic.Image]string)
	}
	if name, ok := b.xobjectNames[img]; ok {
		return name
	}
	b.xobjectCount++
	name := fmt.Sprintf("Im%d", b.xobjectCount)
	b.xobjectNames[img] = name
	return name
}

func (p *pageBuilderImpl) ensureResources() *semantic.Resources {
	if p.page.Resources == nil {
		p.page.Resources = &semantic.Resources{}
	}
	if p.page.Resources.Fonts == nil {
		p.page.Resources.Fonts = make(map[string]*semantic.Font)
	}
	if p.page.Resources.XObjects == nil {
		p.page.Resources.XObjects = make(map[string]semantic.XObject)
	}
	return p.page.Resources
}

func (p *pageBuilderImpl) ensureContentOps() *[]semantic.Operation {
	if len(p.page.Contents) == 0 {
		p.page.Contents = append(p.page.Contents, semantic.ContentStream{})
	}
	return &p.page.Contents[0].Operations
}

func matrixOperands(m coords.Matrix) []semantic.Operand {
	out := make([]semantic.Operand, len(m))
	for i, v := range m {
		out[i] = semantic.NumberOperand{Value: v}
	}
	return out
}

func normalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
