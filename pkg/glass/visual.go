package glass

import "github.com/matzehuels/liquidglass/pkg/errors"

// ChannelSelector names the colour channel of the displacement texture that
// drives one axis of an feDisplacementMap.
type ChannelSelector string

// Channel selectors accepted by feDisplacementMap.
const (
	ChannelR ChannelSelector = "R"
	ChannelG ChannelSelector = "G"
	ChannelB ChannelSelector = "B"
)

// Channels lists the valid selectors in R, G, B order.
var Channels = []ChannelSelector{ChannelR, ChannelG, ChannelB}

// BlendMode is a CSS mix-blend-mode used to combine the two gradients of the
// texture. It changes how the corners of the pane refract.
type BlendMode string

// Supported blend modes.
const (
	BlendNormal      BlendMode = "normal"
	BlendMultiply    BlendMode = "multiply"
	BlendScreen      BlendMode = "screen"
	BlendOverlay     BlendMode = "overlay"
	BlendDarken      BlendMode = "darken"
	BlendLighten     BlendMode = "lighten"
	BlendColorDodge  BlendMode = "color-dodge"
	BlendColorBurn   BlendMode = "color-burn"
	BlendHardLight   BlendMode = "hard-light"
	BlendSoftLight   BlendMode = "soft-light"
	BlendDifference  BlendMode = "difference"
	BlendExclusion   BlendMode = "exclusion"
	BlendHue         BlendMode = "hue"
	BlendSaturation  BlendMode = "saturation"
	BlendColor       BlendMode = "color"
	BlendLuminosity  BlendMode = "luminosity"
	BlendPlusDarker  BlendMode = "plus-darker"
	BlendPlusLighter BlendMode = "plus-lighter"
)

// BlendModes lists every supported blend mode.
var BlendModes = []BlendMode{
	BlendNormal, BlendMultiply, BlendScreen, BlendOverlay,
	BlendDarken, BlendLighten, BlendColorDodge, BlendColorBurn,
	BlendHardLight, BlendSoftLight, BlendDifference, BlendExclusion,
	BlendHue, BlendSaturation, BlendColor, BlendLuminosity,
	BlendPlusDarker, BlendPlusLighter,
}

// VisualConfig holds the appearance settings of a glass element.
type VisualConfig struct {
	Frost     float64 `json:"frost" toml:"frost"`         // background tint opacity, 0..1
	Alpha     float64 `json:"alpha" toml:"alpha"`         // opacity of the flat centre, 0..1
	Lightness float64 `json:"lightness" toml:"lightness"` // HSL lightness of the flat centre, 0..100
	Blur      float64 `json:"blur" toml:"blur"`           // blur of the flat centre in px
	Displace  float64 `json:"displace" toml:"displace"`   // stdDeviation of the final blur
	Scale     float64 `json:"scale" toml:"scale"`         // base displacement magnitude

	X ChannelSelector `json:"x" toml:"x"` // channel driving horizontal offset
	Y ChannelSelector `json:"y" toml:"y"` // channel driving vertical offset

	Blend BlendMode `json:"blend" toml:"blend"`

	// Chromatic offsets added to Scale for the red, green and blue output planes.
	R float64 `json:"r" toml:"r"`
	G float64 `json:"g" toml:"g"`
	B float64 `json:"b" toml:"b"`
}

// TextureConfig is the part of VisualConfig that shapes the displacement texture.
type TextureConfig struct {
	Lightness float64
	Alpha     float64
	Blur      float64
	Blend     BlendMode
}

// ChannelConfig is the part of VisualConfig that parameterises the
// per-channel displacement primitives.
type ChannelConfig struct {
	X, Y     ChannelSelector
	Scale    float64
	R, G, B  float64
	Displace float64
}

// Texture projects v onto the fields used by [BuildDisplacementSVG].
func (v VisualConfig) Texture() TextureConfig {
	return TextureConfig{Lightness: v.Lightness, Alpha: v.Alpha, Blur: v.Blur, Blend: v.Blend}
}

// Channels projects v onto the fields used by [ComputeFilterAttributes].
func (v VisualConfig) Channels() ChannelConfig {
	return ChannelConfig{X: v.X, Y: v.Y, Scale: v.Scale, R: v.R, G: v.G, B: v.B, Displace: v.Displace}
}

// Validate checks the domain constraints of v.
// The returned error carries [errors.ErrCodeInvalidVisual].
func (v VisualConfig) Validate() error {
	const code = errors.ErrCodeInvalidVisual
	checks := []error{
		errors.ValidateRange(code, "frost", v.Frost, 0, 1),
		errors.ValidateRange(code, "alpha", v.Alpha, 0, 1),
		errors.ValidateRange(code, "lightness", v.Lightness, 0, 100),
		errors.ValidateNonNegative(code, "blur", v.Blur),
		errors.ValidateNonNegative(code, "displace", v.Displace),
		errors.ValidateFinite(code, "scale", v.Scale),
		errors.ValidateFinite(code, "r", v.R),
		errors.ValidateFinite(code, "g", v.G),
		errors.ValidateFinite(code, "b", v.B),
		errors.ValidateOneOf(code, "x channel", string(v.X), channelNames()),
		errors.ValidateOneOf(code, "y channel", string(v.Y), channelNames()),
		errors.ValidateOneOf(code, "blend mode", string(v.Blend), blendNames()),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func channelNames() []string {
	names := make([]string, len(Channels))
	for i, c := range Channels {
		names[i] = string(c)
	}
	return names
}

func blendNames() []string {
	names := make([]string, len(BlendModes))
	for i, m := range BlendModes {
		names[i] = string(m)
	}
	return names
}
