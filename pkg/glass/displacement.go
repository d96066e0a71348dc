package glass

// DisplacementMapResult is everything the consumer's SVG filter chain needs.
// It is a plain value: the caller owns it and decides whether to keep it.
type DisplacementMapResult struct {
	// DataURI is the encoded texture, used as the href of an feImage.
	DataURI string `json:"dataUri"`

	// SVGContent is the texture markup before encoding.
	SVGContent string `json:"svgContent"`

	// CalculatedGeometry is the resolved geometry the texture was drawn from.
	CalculatedGeometry CalculatedGeometry `json:"calculatedGeometry"`

	// FilterAttributes parameterise the feDisplacementMap and feGaussianBlur primitives.
	FilterAttributes FilterAttributes `json:"filterAttributes"`
}

// GenerateDisplacementMap runs the whole pipeline for one element.
//
// Geometry is resolved, drawn and encoded in sequence; the filter attributes
// have no data dependency on the texture and are computed from visual alone.
// The function is deterministic and never fails. Building and encoding the
// texture is linear in its size, so callers re-invoking it on every frame of
// an interaction should memoize on the full input.
func GenerateDisplacementMap(geometry GeometryConfig, visual VisualConfig) DisplacementMapResult {
	calculated := ResolveGeometry(geometry)
	svg := BuildDisplacementSVG(calculated, visual.Texture())
	return DisplacementMapResult{
		DataURI:            EncodeDataURI(svg),
		SVGContent:         svg,
		CalculatedGeometry: calculated,
		FilterAttributes:   ComputeFilterAttributes(visual.Channels()),
	}
}

// Generate validates c and then runs [GenerateDisplacementMap].
func Generate(c Config) (DisplacementMapResult, error) {
	if err := c.Validate(); err != nil {
		return DisplacementMapResult{}, err
	}
	return GenerateDisplacementMap(c.GeometryConfig, c.VisualConfig), nil
}
