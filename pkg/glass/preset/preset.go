// Package preset holds the named glass configurations.
//
// A preset is a complete [glass.Config]. Consumers pick one by name and
// customise it field by field with [glass.Overrides]:
//
//	cfg, err := preset.Lookup("pill")
//	if err != nil {
//		return err
//	}
//	cfg = overrides.Apply(cfg)
package preset

import (
	"slices"
	"strings"

	"github.com/matzehuels/liquidglass/pkg/errors"
	"github.com/matzehuels/liquidglass/pkg/glass"
)

// Name identifies a preset.
type Name string

const (
	Dock   Name = "dock"
	Pill   Name = "pill"
	Bubble Name = "bubble"
	Free   Name = "free"
)

// Default is used when no name is given.
const Default = Dock

// shared holds the visual settings common to dock, pill and bubble.
var shared = glass.VisualConfig{
	Alpha:     0.93,
	Lightness: 50,
	Blur:      11,
	Scale:     -180,
	X:         glass.ChannelR,
	Y:         glass.ChannelB,
	Blend:     glass.BlendDifference,
	R:         0,
	G:         10,
	B:         20,
}

var table = map[Name]glass.Config{
	Dock: {
		GeometryConfig: glass.GeometryConfig{Width: 336, Height: 96, Radius: 16, Border: 0.07},
		VisualConfig:   with(shared, func(v *glass.VisualConfig) { v.Frost, v.Displace = 0.05, 0.2 }),
	},
	Pill: {
		GeometryConfig: glass.GeometryConfig{Width: 200, Height: 80, Radius: 40, Border: 0.07},
		VisualConfig:   shared,
	},
	Bubble: {
		GeometryConfig: glass.GeometryConfig{Width: 140, Height: 140, Radius: 70, Border: 0.07},
		VisualConfig:   shared,
	},
	Free: {
		GeometryConfig: glass.GeometryConfig{Width: 140, Height: 280, Radius: 80, Border: 0.15},
		VisualConfig: with(shared, func(v *glass.VisualConfig) {
			v.Scale = -300
			v.Alpha = 0.74
			v.Lightness = 60
			v.Blur = 10
		}),
	},
}

func with(v glass.VisualConfig, f func(*glass.VisualConfig)) glass.VisualConfig {
	f(&v)
	return v
}

// Lookup returns the preset called name. Matching ignores case and
// surrounding space; an empty name selects [Default].
// Unknown names fail with [errors.ErrCodeInvalidPreset].
func Lookup(name string) (glass.Config, error) {
	n := Name(strings.ToLower(strings.TrimSpace(name)))
	if n == "" {
		n = Default
	}
	cfg, ok := table[n]
	if !ok {
		return glass.Config{}, errors.New(errors.ErrCodeInvalidPreset,
			"unknown preset %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return cfg, nil
}

// MustLookup is like [Lookup] but panics on unknown names.
func MustLookup(name string) glass.Config {
	cfg, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, string(n))
	}
	slices.Sort(names)
	return names
}

// Preset pairs a name with its configuration.
type Preset struct {
	Name   Name         `json:"name"`
	Config glass.Config `json:"config"`
}

// All returns every preset, sorted by name.
func All() []Preset {
	out := make([]Preset, 0, len(table))
	for _, n := range Names() {
		out = append(out, Preset{Name: Name(n), Config: table[Name(n)]})
	}
	return out
}
