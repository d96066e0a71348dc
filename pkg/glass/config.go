package glass

import (
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/liquidglass/pkg/errors"
)

// Config is the complete input of the pipeline: geometry and visual settings
// in one flat record, as presets and config files declare them.
type Config struct {
	GeometryConfig
	VisualConfig
}

// NewConfig validates g and v and combines them into a Config.
func NewConfig(g GeometryConfig, v VisualConfig) (Config, error) {
	c := Config{GeometryConfig: g, VisualConfig: v}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks geometry first, then the visual settings.
func (c Config) Validate() error {
	if err := c.GeometryConfig.Validate(); err != nil {
		return err
	}
	return c.VisualConfig.Validate()
}

// Geometry returns the geometry half of c.
func (c Config) Geometry() GeometryConfig { return c.GeometryConfig }

// Visual returns the visual half of c.
func (c Config) Visual() VisualConfig { return c.VisualConfig }

// Overrides replaces individual fields of a base Config. A nil field keeps
// the base value, so a preset can be customised one property at a time.
type Overrides struct {
	Width  *float64 `json:"width,omitempty" toml:"width"`
	Height *float64 `json:"height,omitempty" toml:"height"`
	Radius *float64 `json:"radius,omitempty" toml:"radius"`
	Border *float64 `json:"border,omitempty" toml:"border"`

	Frost     *float64 `json:"frost,omitempty" toml:"frost"`
	Alpha     *float64 `json:"alpha,omitempty" toml:"alpha"`
	Lightness *float64 `json:"lightness,omitempty" toml:"lightness"`
	Blur      *float64 `json:"blur,omitempty" toml:"blur"`
	Displace  *float64 `json:"displace,omitempty" toml:"displace"`
	Scale     *float64 `json:"scale,omitempty" toml:"scale"`

	X     *ChannelSelector `json:"x,omitempty" toml:"x"`
	Y     *ChannelSelector `json:"y,omitempty" toml:"y"`
	Blend *BlendMode       `json:"blend,omitempty" toml:"blend"`

	R *float64 `json:"r,omitempty" toml:"r"`
	G *float64 `json:"g,omitempty" toml:"g"`
	B *float64 `json:"b,omitempty" toml:"b"`
}

// Apply returns base with every non-nil override written over it.
// base is not modified.
func (o Overrides) Apply(base Config) Config {
	c := base
	for _, f := range o.floatFields(&c) {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if o.X != nil {
		c.X = *o.X
	}
	if o.Y != nil {
		c.Y = *o.Y
	}
	if o.Blend != nil {
		c.Blend = *o.Blend
	}
	return c
}

// Merge returns o with every non-nil field of other written over it.
func (o Overrides) Merge(other Overrides) Overrides {
	out := o
	var scratch Config
	dst := out.floatFields(&scratch)
	src := other.floatFields(&scratch)
	for i := range src {
		if src[i].src != nil {
			v := *src[i].src
			*dst[i].ptr = &v
		}
	}
	if other.X != nil {
		v := *other.X
		out.X = &v
	}
	if other.Y != nil {
		v := *other.Y
		out.Y = &v
	}
	if other.Blend != nil {
		v := *other.Blend
		out.Blend = &v
	}
	return out
}

// Keys returns the sorted names of the fields that are set.
func (o Overrides) Keys() []string {
	var scratch Config
	var keys []string
	for _, f := range o.floatFields(&scratch) {
		if f.src != nil {
			keys = append(keys, f.name)
		}
	}
	if o.X != nil {
		keys = append(keys, "x")
	}
	if o.Y != nil {
		keys = append(keys, "y")
	}
	if o.Blend != nil {
		keys = append(keys, "blend")
	}
	sort.Strings(keys)
	return keys
}

// Empty reports whether no field is set.
func (o Overrides) Empty() bool {
	return len(o.Keys()) == 0
}

// OverrideNames lists the field names accepted by [Overrides.Set].
var OverrideNames = []string{
	"width", "height", "radius", "border",
	"frost", "alpha", "lightness", "blur", "displace", "scale",
	"x", "y", "blend", "r", "g", "b",
}

// Set assigns the field called name from its textual form. Names match
// the JSON tags. Selectors are upper-cased and blend modes lower-cased;
// range checks are left to [Config.Validate].
func (o *Overrides) Set(name, value string) error {
	value = strings.TrimSpace(value)
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "x", "y":
		c := ChannelSelector(strings.ToUpper(value))
		if name == "x" {
			o.X = &c
		} else {
			o.Y = &c
		}
		return nil
	case "blend":
		m := BlendMode(strings.ToLower(value))
		o.Blend = &m
		return nil
	}

	var scratch Config
	for _, f := range o.floatFields(&scratch) {
		if f.name != name {
			continue
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a number", name, value)
		}
		*f.ptr = &v
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput,
		"unknown field %q (must be one of: %s)", name, strings.Join(OverrideNames, ", "))
}

// overrideField ties one numeric override to its Config destination.
type overrideField struct {
	name string
	src  *float64  // override value, nil when unset
	ptr  **float64 // address of the override field itself
	dst  *float64  // Config field written by Apply
}

func (o *Overrides) floatFields(c *Config) []overrideField {
	return []overrideField{
		{"width", o.Width, &o.Width, &c.Width},
		{"height", o.Height, &o.Height, &c.Height},
		{"radius", o.Radius, &o.Radius, &c.Radius},
		{"border", o.Border, &o.Border, &c.Border},
		{"frost", o.Frost, &o.Frost, &c.Frost},
		{"alpha", o.Alpha, &o.Alpha, &c.Alpha},
		{"lightness", o.Lightness, &o.Lightness, &c.Lightness},
		{"blur", o.Blur, &o.Blur, &c.Blur},
		{"displace", o.Displace, &o.Displace, &c.Displace},
		{"scale", o.Scale, &o.Scale, &c.Scale},
		{"r", o.R, &o.R, &c.R},
		{"g", o.G, &o.G, &c.G},
		{"b", o.B, &o.B, &c.B},
	}
}
