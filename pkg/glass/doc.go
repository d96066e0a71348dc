// Package glass generates the displacement texture and filter parameters
// behind the "liquid glass" backdrop effect.
//
// # Overview
//
// Browsers can already warp, blur and blend pixels through native SVG filter
// primitives (feDisplacementMap, feGaussianBlur, feBlend). What they need is
// a displacement image whose red and blue channels say how far each pixel
// moves, plus the scale and channel settings of the primitives that read it.
// This package produces exactly that value and nothing more:
//
//  1. [ResolveGeometry] turns declared dimensions and the border fraction into
//     absolute pixels.
//  2. [BuildDisplacementSVG] draws the texture: a black backdrop, a horizontal
//     red gradient, a vertical blue gradient blended on top, and a blurred
//     block-out rectangle that keeps the centre of the pane flat.
//  3. [EncodeDataURI] percent-encodes the texture so it can be used as the
//     href of an feImage primitive.
//  4. [ComputeFilterAttributes] derives one feDisplacementMap configuration
//     per colour channel. Each channel gets a different scale, which splits
//     the colour planes at distortion edges (chromatic aberration).
//
// [GenerateDisplacementMap] runs all four and returns a [DisplacementMapResult].
//
// # Purity
//
// Every function in this package is deterministic, allocation-only and free
// of I/O and global state, so it is safe to call from any number of
// goroutines. Nothing is cached: a caller that regenerates on every frame of
// a slider drag should memoize on the full [Config] value (see the pipeline
// package's Runner).
//
// # Validation
//
// The generation functions are total. Out-of-range input such as a negative
// width or a border above 1 yields degenerate geometry instead of an error.
// Use [NewConfig], [Config.Validate] or [Generate] at input boundaries to get
// coded errors (INVALID_GEOMETRY, INVALID_VISUAL) instead.
//
// # Example
//
//	res := glass.GenerateDisplacementMap(
//	    glass.GeometryConfig{Width: 336, Height: 96, Radius: 16, Border: 0.07},
//	    glass.VisualConfig{Lightness: 50, Alpha: 0.93, Blur: 11, Blend: glass.BlendDifference,
//	        Scale: -180, R: 0, G: 10, B: 20, X: glass.ChannelR, Y: glass.ChannelB, Displace: 0.2},
//	)
//	// res.DataURI feeds <feImage href=...>
//	// res.FilterAttributes.Red feeds the red-channel <feDisplacementMap>
package glass
