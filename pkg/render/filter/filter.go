// Package filter writes the SVG filter chain that applies a displacement map.
//
// The chain samples the texture once and displaces the source graphic three
// times, once per colour plane, each by its own scale:
//
//	feImage            -> map
//	feDisplacementMap  SourceGraphic + map -> dispRed   (red scale)
//	feColorMatrix      dispRed   -> red    (keep R and A)
//	feDisplacementMap  SourceGraphic + map -> dispGreen (green scale)
//	feColorMatrix      dispGreen -> green  (keep G and A)
//	feDisplacementMap  SourceGraphic + map -> dispBlue  (blue scale)
//	feColorMatrix      dispBlue  -> blue   (keep B and A)
//	feBlend screen     red + green -> rg
//	feBlend screen     rg + blue   -> output
//	feGaussianBlur     output
//
// [Write] emits a zero-sized SVG holding only the filter definition, ready to
// sit next to the element it styles. [Document] adds a striped backdrop with
// the filter applied so the effect can be viewed or rasterised on its own.
package filter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"regexp"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/liquidglass/pkg/errors"
	"github.com/matzehuels/liquidglass/pkg/glass"
)

// DefaultID is the filter id used when none is given.
const DefaultID = "filter"

var idPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidID reports whether id can name the filter element. It must be an XML
// name without a colon, so it is written into attributes and url(#id)
// references unescaped.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Option configures the written chain.
type Option func(*options)

type options struct {
	id      string
	preview bool
}

// WithID sets the id of the filter element. Elements reference it with
// filter: url(#id).
func WithID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.id = id
		}
	}
}

// WithPreview draws a backdrop with the filter applied.
func WithPreview(on bool) Option {
	return func(o *options) { o.preview = on }
}

// Plane ties one colour plane to its intermediate results and colour matrix.
type Plane struct {
	Name        string
	Displaced   string
	Attributes  glass.ChannelAttributes
	ColorMatrix [20]float64
}

// Planes returns the red, green and blue stages of the chain for f.
func Planes(f glass.FilterAttributes) [3]Plane {
	p := f.Planes()
	return [3]Plane{
		{Name: "red", Displaced: "dispRed", Attributes: p[0], ColorMatrix: keep(0)},
		{Name: "green", Displaced: "dispGreen", Attributes: p[1], ColorMatrix: keep(1)},
		{Name: "blue", Displaced: "dispBlue", Attributes: p[2], ColorMatrix: keep(2)},
	}
}

// keep returns a colour matrix that passes channel c and alpha through and
// zeroes the other two colour channels.
func keep(c int) [20]float64 {
	var m [20]float64
	m[c*5+c] = 1
	m[18] = 1
	return m
}

// Write writes the filter chain for res as a standalone SVG element.
func Write(w io.Writer, res glass.DisplacementMapResult, opts ...Option) error {
	o := options{id: DefaultID}
	for _, opt := range opts {
		opt(&o)
	}
	if !ValidID(o.id) {
		return errors.New(errors.ErrCodeInvalidInput, "filter id %q is not a valid XML name", o.id)
	}

	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)

	if o.preview {
		width, height := size(res.CalculatedGeometry)
		canvas.Start(width, height)
		canvas.Title("liquid glass preview")
	} else {
		canvas.Start(0, 0, `style="position:absolute"`)
	}

	canvas.Def()
	writeChain(canvas, o.id, res)
	canvas.DefEnd()

	if o.preview {
		writePreview(canvas, o.id, res.CalculatedGeometry)
	}

	canvas.End()
	return bw.Flush()
}

// Document returns the chain as a complete SVG document.
func Document(res glass.DisplacementMapResult, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, res, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeChain(canvas *svg.SVG, id string, res glass.DisplacementMapResult) {
	canvas.Filter(id, `color-interpolation-filters="sRGB"`)

	// feImage needs percentage sizes, which the typed helper cannot express.
	fmt.Fprintf(canvas.Writer, `<feImage x="0" y="0" width="100%%" height="100%%" result="map" href="%s" xlink:href="%s"/>`+"\n",
		res.DataURI, res.DataURI)

	for _, p := range Planes(res.FilterAttributes) {
		a := p.Attributes
		canvas.FeDisplacementMap(
			svg.Filterspec{In: "SourceGraphic", In2: "map", Result: p.Displaced},
			a.Scale, string(a.XChannelSelector), string(a.YChannelSelector),
			fmt.Sprintf(`id="%schannel"`, p.Name),
		)
		canvas.FeColorMatrix(svg.Filterspec{In: p.Displaced, Result: p.Name}, p.ColorMatrix)
	}

	canvas.FeBlend(svg.Filterspec{In: "red", In2: "green", Result: "rg"}, "screen")
	canvas.FeBlend(svg.Filterspec{In: "rg", In2: "blue", Result: "output"}, "screen")

	sd := res.FilterAttributes.GaussianBlur.StdDeviation
	canvas.FeGaussianBlur(svg.Filterspec{In: "output"}, sd, sd)
	canvas.Fend()
}

// writePreview draws diagonal stripes and shows them once plain and once
// through the filter, clipped to the element's rounded rectangle.
func writePreview(canvas *svg.SVG, id string, g glass.CalculatedGeometry) {
	width, height := size(g)
	const stripe = 12

	canvas.Gid("backdrop")
	canvas.Rect(0, 0, width, height, "fill:#f4f4f5")
	for x := -height; x < width; x += 2 * stripe {
		canvas.Line(x, height, x+height, 0, fmt.Sprintf("stroke:#3b82f6;stroke-width:%d", stripe))
	}
	canvas.Gend()

	canvas.ClipPath(`id="shape"`)
	r := int(math.Round(g.Radius))
	canvas.Roundrect(0, 0, width, height, r, r)
	canvas.ClipEnd()

	canvas.Use(0, 0, "#backdrop", `clip-path="url(#shape)"`, fmt.Sprintf(`filter="url(#%s)"`, id))
}

// size rounds the element's dimensions up to whole pixels, at least one.
func size(g glass.CalculatedGeometry) (int, int) {
	return max(int(math.Ceil(g.Width)), 1), max(int(math.Ceil(g.Height)), 1)
}
