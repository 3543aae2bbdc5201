// Package semantic models a PDF document at the level the synthesis layer
// thinks in: pages with media boxes, page resources, and content streams
// built from typed operations. The writer lowers this model to raw objects.
package semantic

// Document is the semantic representation of a PDF to be written.
type Document struct {
	Pages []*Page
	Info  *DocumentInfo
}

// Page models a single PDF page.
type Page struct {
	Index     int
	MediaBox  Rectangle
	Rotate    int // degrees: 0/90/180/270
	Resources *Resources
	Contents  []ContentStream
}

// ContentStream is a sequence of operations on a page.
type ContentStream struct {
	Operations []Operation
	RawBytes   []byte
}

// Operation represents a PDF operator and operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Operand is a type-safe operand value.
type Operand interface {
	operand()
	Type() string
}

type NumberOperand struct{ Value float64 }

func (NumberOperand) operand()     {}
func (NumberOperand) Type() string { return "number" }

type NameOperand struct{ Value string }

func (NameOperand) operand()     {}
func (NameOperand) Type() string { return "name" }

type StringOperand struct{ Value []byte }

func (StringOperand) operand()     {}
func (StringOperand) Type() string { return "string" }

type ArrayOperand struct{ Values []Operand }

func (ArrayOperand) operand()     {}
func (ArrayOperand) Type() string { return "array" }

type DictOperand struct{ Values map[string]Operand }

func (DictOperand) operand()     {}
func (DictOperand) Type() string { return "dict" }

// Resources holds per-page resources.
type Resources struct {
	Fonts    map[string]*Font
	XObjects map[string]XObject
}

// Font represents a font resource.
type Font struct {
	Subtype  string // Type1 (default), TrueType
	BaseFont string
	Encoding string // e.g. WinAnsiEncoding
}

// ColorSpace names the color model of an image.
type ColorSpace interface {
	ColorSpaceName() string
}

type DeviceColorSpace struct {
	Name string
}

func (cs DeviceColorSpace) ColorSpaceName() string { return cs.Name }

// XObject is an external object resource, in practice always an image here.
type XObject struct {
	Subtype string // Image
	Width   int
	Height  int
	ColorSpace
	BitsPerComponent int
	Data             []byte
	Filter           string // Optional: pre-encoded data filter (e.g. DCTDecode)
	Interpolate      bool
	SMask            *XObject
}

// Image is an alias for XObject for image convenience APIs.
type Image = XObject

// Rectangle is a PDF rectangle in default user space units.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rectangle) Width() float64 { return r.URX - r.LLX }

// Height returns the vertical extent of the rectangle.
func (r Rectangle) Height() float64 { return r.URY - r.LLY }

// DocumentInfo models /Info dictionary values.
type DocumentInfo struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
	Keywords []string
}
