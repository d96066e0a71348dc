// Package pkg provides the libraries behind Liquidglass, a generator for
// "liquid glass" backdrop filters.
//
// # Overview
//
// Liquidglass produces the displacement texture that drives an SVG
// feDisplacementMap, together with the per-channel filter attributes that
// split the colour planes at the edges of the pane. The pkg directory is
// organized into four main areas:
//
//  1. [glass] - Domain logic (geometry, texture, data URI, filter attributes)
//  2. [pipeline] - Orchestration (resolve → generate → render) with caching
//  3. [render] - Artifacts built around a texture (filter chain, diagrams, PNG/PDF)
//  4. [server] - HTTP API over the pipeline
//
// # Architecture
//
// The typical data flow through Liquidglass:
//
//	Preset + Overrides
//	         ↓
//	    [glass] package (resolve geometry, draw and encode the texture)
//	         ↓
//	    [pipeline] package (memoize the result, render requested formats)
//	         ↓
//	    SVG/data URI/JSON/filter/DOT/PNG/PDF output
//
// # Quick Start
//
// Generate the displacement map for a preset:
//
//	import (
//	    "github.com/matzehuels/liquidglass/pkg/glass"
//	    "github.com/matzehuels/liquidglass/pkg/glass/preset"
//	)
//
//	cfg := preset.MustLookup("pill")
//	res, err := glass.Generate(cfg)
//	// res.DataURI is the feImage href, res.FilterAttributes the primitives.
//
// # Main Packages
//
// ## Domain Logic
//
// [glass] - The displacement map pipeline. Pure and deterministic: every
// function is safe to call concurrently and nothing is cached.
//
// [glass/preset] - The named configurations (dock, pill, bubble, free).
//
// [glass/inspect] - Structural checks of a texture read back from SVG markup.
//
// ## Rendering
//
// [render] - Format conversion (SVG to PDF/PNG) via rsvg-convert.
//
//   - [render/filter]: the consumer filter chain as SVG markup
//   - [render/chain]: the filter chain as a Graphviz diagram
//
// ## Infrastructure
//
// [pipeline] - The Runner used by the CLI and the HTTP server. Ensures
// consistent behaviour across both entry points.
//
// [cache] - Cache backends: memory (LRU), file (CLI), Redis (shared between
// server instances) and a null cache. Keys are built by a [cache.Keyer].
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by every layer.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/glass/...    # Specific package
//	go test -run Example       # Examples only
//
// [glass]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/glass
// [glass/preset]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/glass/preset
// [glass/inspect]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/glass/inspect
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/render
// [render/filter]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/render/filter
// [render/chain]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/render/chain
// [server]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/cache
// [cache.Keyer]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/cache#Keyer
// [observability]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/liquidglass/pkg/buildinfo
package pkg
