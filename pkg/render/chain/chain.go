// Package chain draws the displacement filter chain as a directed graph.
//
// Each filter primitive becomes a node labelled with its live attribute
// values, and each in/in2 reference becomes an edge. The diagram answers
// "what does this configuration actually do" without opening a browser:
//
//	dot := chain.ToDOT(res)
//	svg, err := chain.RenderSVG(ctx, dot)
package chain

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/liquidglass/pkg/glass"
	"github.com/matzehuels/liquidglass/pkg/render/filter"
)

// Plane fill colours.
var planeColors = map[string]string{
	"red":   "#fecaca",
	"green": "#bbf7d0",
	"blue":  "#bfdbfe",
}

// ToDOT describes the filter chain for res in Graphviz DOT format.
func ToDOT(res glass.DisplacementMapResult) string {
	g := res.CalculatedGeometry

	var buf bytes.Buffer
	buf.WriteString("digraph chain {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("\n")

	node(&buf, "SourceGraphic", "SourceGraphic", `shape=ellipse`)
	node(&buf, "map", fmt.Sprintf("feImage → map\ntexture %s×%s\nborder %s px (%s%% of %s)",
		glass.FormatNumber(g.Width), glass.FormatNumber(g.Height), glass.FormatNumber(g.CalculatedBorder), glass.FormatNumber(round2(g.Border*50)), glass.FormatNumber(g.MinDimension)),
		`fillcolor="#e5e7eb"`)

	for _, p := range filter.Planes(res.FilterAttributes) {
		a := p.Attributes
		fill := fmt.Sprintf("fillcolor=%q", planeColors[p.Name])
		node(&buf, p.Displaced, fmt.Sprintf("feDisplacementMap → %s\nx=%s y=%s\nscale %s",
			p.Displaced, a.XChannelSelector, a.YChannelSelector, glass.FormatNumber(a.Scale)), fill)
		node(&buf, p.Name, fmt.Sprintf("feColorMatrix → %s\nkeep %s + alpha", p.Name, p.Name), fill)

		edge(&buf, "SourceGraphic", p.Displaced, "in")
		edge(&buf, "map", p.Displaced, "in2")
		edge(&buf, p.Displaced, p.Name, "")
	}

	node(&buf, "rg", "feBlend screen → rg", "")
	node(&buf, "output", "feBlend screen → output", "")
	node(&buf, "blur", fmt.Sprintf("feGaussianBlur\nstdDeviation %s", glass.FormatNumber(res.FilterAttributes.GaussianBlur.StdDeviation)),
		`shape=ellipse, fillcolor="#fef3c7"`)

	edge(&buf, "red", "rg", "in")
	edge(&buf, "green", "rg", "in2")
	edge(&buf, "rg", "output", "in")
	edge(&buf, "blue", "output", "in2")
	edge(&buf, "output", "blur", "")

	buf.WriteString("}\n")
	return buf.String()
}

func node(buf *bytes.Buffer, id, label, attrs string) {
	parts := []string{fmt.Sprintf("label=%q", label)}
	if attrs != "" {
		parts = append(parts, attrs)
	}
	fmt.Fprintf(buf, "  %q [%s];\n", id, strings.Join(parts, ", "))
}

func edge(buf *bytes.Buffer, from, to, label string) {
	if label == "" {
		fmt.Fprintf(buf, "  %q -> %q;\n", from, to)
		return
	}
	fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", from, to, label)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
