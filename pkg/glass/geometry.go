package glass

import "github.com/matzehuels/liquidglass/pkg/errors"

// GeometryConfig declares the size and shape of a glass element.
type GeometryConfig struct {
	Width  float64 `json:"width" toml:"width"`   // element width in pixels, > 0
	Height float64 `json:"height" toml:"height"` // element height in pixels, > 0
	Radius float64 `json:"radius" toml:"radius"` // corner radius in pixels, >= 0
	Border float64 `json:"border" toml:"border"` // refracting ring as a fraction of the minimum dimension, 0..1
}

// CalculatedGeometry is a GeometryConfig with its derived pixel measurements.
type CalculatedGeometry struct {
	GeometryConfig

	// MinDimension is min(Width, Height).
	MinDimension float64 `json:"minDimension"`

	// CalculatedBorder is the inset of the flat centre from every edge:
	// MinDimension * Border * 0.5.
	CalculatedBorder float64 `json:"calculatedBorder"`
}

// ResolveGeometry derives the absolute border inset from g.
//
// It is total: negative sizes or a border above 1 are not rejected and simply
// produce a border that no longer fits inside the element. Call
// [GeometryConfig.Validate] first when the input is untrusted.
func ResolveGeometry(g GeometryConfig) CalculatedGeometry {
	minDimension := min(g.Width, g.Height)
	return CalculatedGeometry{
		GeometryConfig:   g,
		MinDimension:     minDimension,
		CalculatedBorder: minDimension * g.Border * 0.5,
	}
}

// InsetWidth is the width of the flat centre, Width - 2*CalculatedBorder.
// It is negative when the border is wider than the element.
func (c CalculatedGeometry) InsetWidth() float64 {
	return c.Width - 2*c.CalculatedBorder
}

// InsetHeight is the height of the flat centre, Height - 2*CalculatedBorder.
func (c CalculatedGeometry) InsetHeight() float64 {
	return c.Height - 2*c.CalculatedBorder
}

// Degenerate reports whether the border ring swallows the whole element,
// leaving an empty or inverted flat centre.
func (c CalculatedGeometry) Degenerate() bool {
	return c.InsetWidth() <= 0 || c.InsetHeight() <= 0
}

// Validate checks the domain constraints of g.
// The returned error carries [errors.ErrCodeInvalidGeometry].
func (g GeometryConfig) Validate() error {
	const code = errors.ErrCodeInvalidGeometry
	if err := errors.ValidatePositive(code, "width", g.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositive(code, "height", g.Height); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative(code, "radius", g.Radius); err != nil {
		return err
	}
	return errors.ValidateRange(code, "border", g.Border, 0, 1)
}
