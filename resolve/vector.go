package resolve

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// leadingNumberRe matches number at the start of attribute value, so units
// and garbage after it ("100px", "50%") are ignored.
var leadingNumberRe = regexp.MustCompile(`^\s*[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// VectorProbe sizes SVG images using root element attributes.
type VectorProbe struct {
	fs     FileSystem
	client HTTPClient
}

func NewVectorProbe(fs FileSystem, client HTTPClient) *VectorProbe {
	return &VectorProbe{fs: fs, client: client}
}

// Probe returns dimensions of SVG image referenced by ref. Document which
// is SVG but has no usable width, height or viewBox gives (0, 0) and no
// error. All errors wrap ErrNotFound.
func (p *VectorProbe) Probe(ctx context.Context, ref string, paths PathResolver) (Dimensions, error) {
	data, err := p.fetch(ctx, ref, paths.LocalPath(ref))
	if err != nil {
		return Dimensions{}, err
	}
	if len(data) == 0 {
		return Dimensions{}, notFound("%q is empty", ref)
	}
	return svgDimensions(data)
}

func (p *VectorProbe) fetch(ctx context.Context, ref, local string) ([]byte, error) {
	switch {
	case p.fs.Exists(local):
		data, err := p.fs.ReadFile(local)
		if err != nil {
			return nil, notFound("%w", err)
		}
		return data, nil
	case isURL(ref):
		status, body, err := p.client.Get(ctx, ref)
		if err != nil {
			return nil, notFound("%w", err)
		}
		if status != http.StatusOK {
			return nil, notFound("%q: unexpected status %d", ref, status)
		}
		return body, nil
	default:
		return nil, notFound("%q is neither local file nor URL", ref)
	}
}

// svgDimensions reads size from SVG document root. Parsing never touches the
// network: DOCTYPE is kept as a directive and external entities are not
// resolved.
func svgDimensions(data []byte) (Dimensions, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return Dimensions{}, notFound("unable to parse SVG: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return Dimensions{}, notFound("document has no root element")
	}
	if !strings.EqualFold(root.FullTag(), "svg") {
		return Dimensions{}, notFound("unexpected root element <%s>", root.FullTag())
	}

	d := Dimensions{
		Width:  leadingNumber(root.SelectAttrValue("width", "")),
		Height: leadingNumber(root.SelectAttrValue("height", "")),
	}
	if d.Width > 0 && d.Height > 0 {
		return d, nil
	}

	// min-x, min-y, width, height
	box := strings.FieldsFunc(root.SelectAttrValue("viewBox", ""), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	d = Dimensions{}
	if len(box) > 2 {
		d.Width = leadingNumber(box[2])
	}
	if len(box) > 3 {
		d.Height = leadingNumber(box[3])
	}
	return d, nil
}

// leadingNumber returns non negative number value s starts with, 0 if there
// is none.
func leadingNumber(s string) float64 {
	m := leadingNumberRe.FindString(s)
	if len(m) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
