// Package inspect reads a displacement texture back into a structured report.
//
// It parses markup produced by [glass.BuildDisplacementSVG] (or anything
// shaped like it) with the HTML5 parser, locates elements with CSS
// selectors and decodes inline style declarations. The report backs the
// `liquidglass inspect` command and structural checks in tests.
package inspect

import (
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"

	"github.com/matzehuels/liquidglass/pkg/errors"
	"github.com/matzehuels/liquidglass/pkg/glass"
)

var (
	selSVG   = cascadia.MustCompile("svg")
	selDefs  = cascadia.MustCompile("defs > [id]")
	selRects = cascadia.MustCompile("svg > rect")
)

// Report describes one texture.
type Report struct {
	Roots     int      `json:"roots"`
	Class     string   `json:"class,omitempty"`
	ViewBox   string   `json:"viewBox"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Gradients []string `json:"gradients"`
	Rects     []Rect   `json:"rects"`
	Comments  []string `json:"comments,omitempty"`
	Blend     string   `json:"blend,omitempty"`
	Blur      float64  `json:"blur"`
	Inset     *Rect    `json:"inset,omitempty"`
	Issues    []string `json:"issues,omitempty"`
}

// Rect is one rect element with its numeric attributes decoded.
type Rect struct {
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	Width  float64           `json:"width"`
	Height float64           `json:"height"`
	RX     float64           `json:"rx"`
	Fill   string            `json:"fill"`
	Style  map[string]string `json:"style,omitempty"`
}

// Texture parses svg and reports its structure.
//
// Malformed numbers and a missing root are errors with
// [errors.ErrCodeInvalidInput]. Deviations from the expected layer layout
// (four rects, red and blue gradients) are listed in Report.Issues instead.
func Texture(svg string) (Report, error) {
	doc, err := html.Parse(strings.NewReader(svg))
	if err != nil {
		return Report{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse texture")
	}

	roots := topLevel(doc)
	if len(roots) == 0 {
		return Report{}, errors.New(errors.ErrCodeInvalidInput, "no svg element found")
	}
	root := roots[0]

	var r Report
	r.Roots = len(roots)
	r.Class = attr(root, "class")
	r.ViewBox = attr(root, "viewBox")
	if r.Width, r.Height, err = parseViewBox(r.ViewBox); err != nil {
		return Report{}, err
	}

	for _, n := range selDefs.MatchAll(root) {
		if strings.EqualFold(n.Data, "lineargradient") {
			r.Gradients = append(r.Gradients, attr(n, "id"))
		}
	}

	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.CommentNode {
			r.Comments = append(r.Comments, strings.TrimSpace(c.Data))
		}
	}

	for _, n := range selRects.MatchAll(root) {
		rect, err := parseRect(n)
		if err != nil {
			return Report{}, err
		}
		r.Rects = append(r.Rects, rect)
	}

	for _, rect := range r.Rects {
		if mode, ok := rect.Style["mix-blend-mode"]; ok {
			r.Blend = mode
		}
		if f, ok := rect.Style["filter"]; ok {
			if b, ok := parseBlur(f); ok {
				r.Blur = b
			}
		}
	}
	if len(r.Rects) == 4 {
		inset := r.Rects[3]
		r.Inset = &inset
	}

	r.Issues = check(r)
	return r, nil
}

// Check reports whether r has the layer layout of a displacement texture.
func (r Report) Check() error {
	if len(r.Issues) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "texture: %s", strings.Join(r.Issues, "; "))
}

// Border returns the inset offset, which equals the resolved border width.
func (r Report) Border() float64 {
	if r.Inset == nil {
		return 0
	}
	return r.Inset.X
}

// Matches reports whether the texture was drawn for g.
func (r Report) Matches(g glass.CalculatedGeometry) bool {
	if r.Width != g.Width || r.Height != g.Height || r.Inset == nil {
		return false
	}
	return r.Inset.X == g.CalculatedBorder && r.Inset.Y == g.CalculatedBorder
}

func check(r Report) []string {
	var issues []string
	if r.Roots != 1 {
		issues = append(issues, "expected exactly one root element, found "+strconv.Itoa(r.Roots))
	}
	if len(r.Rects) != 4 {
		issues = append(issues, "expected 4 rects, found "+strconv.Itoa(len(r.Rects)))
	}
	for _, id := range []string{"red", "blue"} {
		found := false
		for _, g := range r.Gradients {
			found = found || g == id
		}
		if !found {
			issues = append(issues, "missing gradient "+strconv.Quote(id))
		}
	}
	if r.Inset != nil && (r.Inset.Width < 0 || r.Inset.Height < 0) {
		issues = append(issues, "inset has negative size")
	}
	return issues
}

// topLevel returns the svg elements that are not nested in another svg.
func topLevel(doc *html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range selSVG.MatchAll(doc) {
		nested := false
		for p := n.Parent; p != nil; p = p.Parent {
			if p.Type == html.ElementNode && p.Data == "svg" {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, n)
		}
	}
	return out
}

func parseRect(n *html.Node) (Rect, error) {
	var r Rect
	fields := []struct {
		name string
		dst  *float64
	}{
		{"x", &r.X}, {"y", &r.Y}, {"width", &r.Width}, {"height", &r.Height}, {"rx", &r.RX},
	}
	for _, f := range fields {
		s := attr(n, f.name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Rect{}, errors.New(errors.ErrCodeInvalidInput, "rect %s: %q is not a number", f.name, s)
		}
		*f.dst = v
	}
	r.Fill = attr(n, "fill")

	if style := attr(n, "style"); style != "" {
		decls, err := parser.ParseDeclarations(style)
		if err != nil {
			return Rect{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "rect style %q", style)
		}
		r.Style = make(map[string]string, len(decls))
		for _, d := range decls {
			r.Style[strings.ToLower(d.Property)] = d.Value
		}
	}
	return r, nil
}

// parseBlur extracts the radius from "blur(11px)".
func parseBlur(filter string) (float64, bool) {
	s, ok := strings.CutPrefix(strings.TrimSpace(filter), "blur(")
	if !ok {
		return 0, false
	}
	s, ok = strings.CutSuffix(s, ")")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
	return v, err == nil
}

func parseViewBox(vb string) (w, h float64, err error) {
	f := strings.Fields(vb)
	if len(f) != 4 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "viewBox %q: want 4 numbers", vb)
	}
	if w, err = strconv.ParseFloat(f[2], 64); err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "viewBox width %q is not a number", f[2])
	}
	if h, err = strconv.ParseFloat(f[3], 64); err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "viewBox height %q is not a number", f[3])
	}
	return w, h, nil
}

// attr looks up an attribute by name. The HTML parser lower-cases most
// names, so the comparison ignores case.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}
