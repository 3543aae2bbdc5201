package writer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/1am2syman/omni-pdf/ir/raw"
	"github.com/1am2syman/omni-pdf/ir/semantic"
)

type impl struct{}

// objectBuilder lowers a semantic document into numbered raw objects.
type objectBuilder struct {
	cfg         Config
	objects     map[raw.ObjectRef]raw.Object
	nextNum     int
	fontRefs    map[string]raw.ObjectRef
	xobjectRefs map[string]raw.ObjectRef
}

func newObjectBuilder(cfg Config) *objectBuilder {
	return &objectBuilder{
		cfg:         cfg,
		objects:     make(map[raw.ObjectRef]raw.Object),
		nextNum:     1,
		fontRefs:    make(map[string]raw.ObjectRef),
		xobjectRefs: make(map[string]raw.ObjectRef),
	}
}

func (b *objectBuilder) nextRef() raw.ObjectRef {
	ref := raw.ObjectRef{Num: b.nextNum}
	b.nextNum++
	return ref
}

func (w *impl) Write(ctx context.Context, doc *semantic.Document, out io.Writer, cfg Config) error {
	if doc == nil || len(doc.Pages) == 0 {
		return fmt.Errorf("document has no pages")
	}

	b := newObjectBuilder(cfg)
	catalogRef := b.nextRef()
	pagesRef := b.nextRef()

	pageRefs := make([]raw.ObjectRef, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		ref, err := b.buildPage(p, pagesRef)
		if err != nil {
			return fmt.Errorf("page %d: %w", p.Index, err)
		}
		pageRefs = append(pageRefs, ref)
	}

	kids := raw.NewArray()
	for _, r := range pageRefs {
		kids.Append(raw.Ref(r.Num, r.Gen))
	}
	pagesDict := raw.Dict()
	pagesDict.Set("Type", raw.Name("Pages"))
	pagesDict.Set("Count", raw.NumberInt(int64(len(pageRefs))))
	pagesDict.Set("Kids", kids)
	b.objects[pagesRef] = pagesDict

	catalogDict := raw.Dict()
	catalogDict.Set("Type", raw.Name("Catalog"))
	catalogDict.Set("Pages", raw.Ref(pagesRef.Num, pagesRef.Gen))
	b.objects[catalogRef] = catalogDict

	var infoRef *raw.ObjectRef
	if doc.Info != nil {
		ref := b.buildInfo(doc.Info)
		infoRef = &ref
	}

	return emit(out, b.objects, catalogRef, infoRef, fileID(doc, cfg), cfg)
}

func (b *objectBuilder) buildPage(p *semantic.Page, parent raw.ObjectRef) (raw.ObjectRef, error) {
	contentRef, err := b.buildContents(p.Contents)
	if err != nil {
		return raw.ObjectRef{}, err
	}

	pageDict := raw.Dict()
	pageDict.Set("Type", raw.Name("Page"))
	pageDict.Set("Parent", raw.Ref(parent.Num, parent.Gen))
	pageDict.Set("MediaBox", rectArray(p.MediaBox))
	if rot := p.Rotate % 360; rot != 0 {
		pageDict.Set("Rotate", raw.NumberInt(int64(rot)))
	}
	pageDict.Set("Resources", b.buildResources(p.Resources))
	if contentRef != nil {
		pageDict.Set("Contents", raw.Ref(contentRef.Num, contentRef.Gen))
	}

	ref := b.nextRef()
	b.objects[ref] = pageDict
	return ref, nil
}

func (b *objectBuilder) buildContents(streams []semantic.ContentStream) (*raw.ObjectRef, error) {
	var data []byte
	for _, cs := range streams {
		data = append(data, serializeContentStream(cs)...)
	}
	if len(data) == 0 {
		return nil, nil
	}
	dict := raw.Dict()
	if b.cfg.Compression != 0 {
		encoded, err := flateEncode(data, b.cfg.Compression)
		if err != nil {
			return nil, fmt.Errorf("compress content stream: %w", err)
		}
		data = encoded
		dict.Set("Filter", raw.Name("FlateDecode"))
	}
	dict.Set("Length", raw.NumberInt(int64(len(data))))
	ref := b.nextRef()
	b.objects[ref] = raw.NewStream(dict, data)
	return &ref, nil
}

func (b *objectBuilder) buildResources(res *semantic.Resources) *raw.DictObj {
	resDict := raw.Dict()
	if res == nil {
		return resDict
	}
	if len(res.Fonts) > 0 {
		fontDict := raw.Dict()
		for _, name := range sortedKeys(res.Fonts) {
			ref := b.ensureFont(name, res.Fonts[name])
			fontDict.Set(name, raw.Ref(ref.Num, ref.Gen))
		}
		resDict.Set("Font", fontDict)
	}
	if len(res.XObjects) > 0 {
		xDict := raw.Dict()
		for _, name := range sortedKeys(res.XObjects) {
			ref, err := b.ensureXObject(name, res.XObjects[name])
			if err != nil {
				continue
			}
			xDict.Set(name, raw.Ref(ref.Num, ref.Gen))
		}
		resDict.Set("XObject", xDict)
	}
	return resDict
}

func (b *objectBuilder) ensureFont(name string, font *semantic.Font) raw.ObjectRef {
	if ref, ok := b.fontRefs[name]; ok {
		return ref
	}
	dict := raw.Dict()
	dict.Set("Type", raw.Name("Font"))
	sub := "Type1"
	base := "Helvetica"
	if font != nil {
		if font.Subtype != "" {
			sub = font.Subtype
		}
		if font.BaseFont != "" {
			base = font.BaseFont
		}
		if font.Encoding != "" {
			dict.Set("Encoding", raw.Name(font.Encoding))
		}
	}
	dict.Set("Subtype", raw.Name(sub))
	dict.Set("BaseFont", raw.Name(base))
	ref := b.nextRef()
	b.objects[ref] = dict
	b.fontRefs[name] = ref
	return ref
}

func (b *objectBuilder) ensureXObject(name string, xo semantic.XObject) (raw.ObjectRef, error) {
	if ref, ok := b.xobjectRefs[name]; ok {
		return ref, nil
	}
	dict := raw.Dict()
	dict.Set("Type", raw.Name("XObject"))
	sub := xo.Subtype
	if sub == "" {
		sub = "Image"
	}
	dict.Set("Subtype", raw.Name(sub))
	if xo.Width > 0 {
		dict.Set("Width", raw.NumberInt(int64(xo.Width)))
	}
	if xo.Height > 0 {
		dict.Set("Height", raw.NumberInt(int64(xo.Height)))
	}
	color := "DeviceRGB"
	if xo.ColorSpace != nil {
		color = xo.ColorSpace.ColorSpaceName()
	}
	dict.Set("ColorSpace", raw.Name(color))
	if xo.BitsPerComponent > 0 {
		dict.Set("BitsPerComponent", raw.NumberInt(int64(xo.BitsPerComponent)))
	}
	if xo.Interpolate {
		dict.Set("Interpolate", raw.Bool(true))
	}
	if xo.SMask != nil {
		maskRef, err := b.ensureXObject(name+":SMask", *xo.SMask)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		dict.Set("SMask", raw.Ref(maskRef.Num, maskRef.Gen))
	}

	data := xo.Data
	switch {
	case xo.Filter != "":
		// Pre-encoded data (e.g. DCTDecode) passes through untouched.
		dict.Set("Filter", raw.Name(xo.Filter))
	case b.cfg.Compression != 0:
		encoded, err := flateEncode(data, b.cfg.Compression)
		if err != nil {
			return raw.ObjectRef{}, fmt.Errorf("compress image %s: %w", name, err)
		}
		data = encoded
		dict.Set("Filter", raw.Name("FlateDecode"))
	}
	dict.Set("Length", raw.NumberInt(int64(len(data))))

	ref := b.nextRef()
	b.objects[ref] = raw.NewStream(dict, data)
	b.xobjectRefs[name] = ref
	return ref, nil
}

func (b *objectBuilder) buildInfo(info *semantic.DocumentInfo) raw.ObjectRef {
	dict := raw.Dict()
	set := func(key, val string) {
		if val != "" {
			dict.Set(key, raw.Str([]byte(val)))
		}
	}
	set("Title", info.Title)
	set("Author", info.Author)
	set("Subject", info.Subject)
	set("Creator", info.Creator)
	set("Producer", info.Producer)
	if len(info.Keywords) > 0 {
		joined := ""
		for i, kw := range info.Keywords {
			if i > 0 {
				joined += ", "
			}
			joined += kw
		}
		dict.Set("Keywords", raw.Str([]byte(joined)))
	}
	ref := b.nextRef()
	b.objects[ref] = dict
	return ref
}

func emit(out io.Writer, objects map[raw.ObjectRef]raw.Object, catalogRef raw.ObjectRef, infoRef *raw.ObjectRef, id [2][]byte, cfg Config) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", pdfVersion(cfg))

	ordered := make([]raw.ObjectRef, 0, len(objects))
	for ref := range objects {
		ordered = append(ordered, ref)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Num < ordered[j].Num })

	offsets := make(map[int]int64, len(ordered))
	for _, ref := range ordered {
		offsets[ref.Num] = int64(buf.Len())
		buf.Write(serializeObject(ref, objects[ref]))
	}

	xrefOffset := buf.Len()
	maxObjNum := ordered[len(ordered)-1].Num
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxObjNum+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxObjNum; i++ {
		if off, ok := offsets[i]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}

	fmt.Fprintf(&buf, "trailer\n<</Size %d /Root %d 0 R", maxObjNum+1, catalogRef.Num)
	if infoRef != nil {
		fmt.Fprintf(&buf, " /Info %d 0 R", infoRef.Num)
	}
	buf.WriteString(" /ID [")
	buf.Write(hexString(id[0]))
	buf.WriteByte(' ')
	buf.Write(hexString(id[1]))
	buf.WriteString("]>>\nstartxref\n")
	fmt.Fprintf(&buf, "%d\n%%%%EOF\n", xrefOffset)

	_, err := out.Write(buf.Bytes())
	return err
}

func serializeObject(ref raw.ObjectRef, obj raw.Object) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d obj\n", ref.Num, ref.Gen)
	buf.Write(serializePrimitive(obj))
	buf.WriteString("\nendobj\n")
	return buf.Bytes()
}

func serializePrimitive(o raw.Object) []byte {
	switch v := o.(type) {
	case raw.NameObj:
		return []byte("/" + v.Value())
	case raw.NumberObj:
		if v.IsInteger() {
			return []byte(fmt.Sprintf("%d", v.Int()))
		}
		return []byte(formatNumber(v.Float()))
	case raw.BoolObj:
		if v.Value() {
			return []byte("true")
		}
		return []byte("false")
	case raw.NullObj:
		return []byte("null")
	case raw.StringObj:
		return escapeLiteralString(v.Value())
	case *raw.ArrayObj:
		var b bytes.Buffer
		b.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.Write(serializePrimitive(it))
		}
		b.WriteByte(']')
		return b.Bytes()
	case *raw.DictObj:
		var b bytes.Buffer
		b.WriteString("<<")
		keys := make([]string, 0, len(v.KV))
		for k := range v.KV {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("/" + k + " ")
			b.Write(serializePrimitive(v.KV[k]))
		}
		b.WriteString(">>")
		return b.Bytes()
	case *raw.StreamObj:
		var b bytes.Buffer
		b.Write(serializePrimitive(v.Dict))
		b.WriteString("\nstream\n")
		b.Write(v.Data)
		b.WriteString("\nendstream")
		return b.Bytes()
	case raw.RefObj:
		return []byte(fmt.Sprintf("%d %d R", v.Ref().Num, v.Ref().Gen))
	default:
		return []byte("null")
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
