// Package render turns displacement map results into viewable artifacts.
//
// # Overview
//
// A [glass.DisplacementMapResult] is only half of the effect: the texture
// does nothing until a filter chain samples it. This package and its
// subpackages produce that chain and the files built from it:
//
//   - Format conversion from SVG to PNG or PDF ([ToPNG], [ToPDF])
//   - The consumer filter chain as SVG markup (in [filter] subpackage)
//   - A diagram of the filter graph (in [chain] subpackage)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	doc, err := filter.Document(res, filter.WithPreview(true))
//	png, err := render.ToPNG(ctx, doc, 2.0) // 2x scale
//
// # Filter Chain
//
// The [filter] subpackage writes the feImage, feDisplacementMap,
// feColorMatrix, feBlend and feGaussianBlur primitives that split the
// source into colour planes, displace each by its own scale and recombine
// them:
//
//	err := filter.Write(w, res, filter.WithID("glass"))
//
// # Chain Diagram
//
// The [chain] subpackage describes the same primitives as a Graphviz graph
// labelled with the live attribute values:
//
//	dot := chain.ToDOT(res)
//	svg, err := chain.RenderSVG(ctx, dot)
//
// [glass.DisplacementMapResult]: github.com/matzehuels/liquidglass/pkg/glass.DisplacementMapResult
package render
