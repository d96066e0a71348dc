package glass

import (
	"math"
	"testing"

	"github.com/matzehuels/liquidglass/pkg/errors"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestResolveGeometryDock(t *testing.T) {
	g := ResolveGeometry(GeometryConfig{Width: 336, Height: 96, Radius: 16, Border: 0.07})

	if g.MinDimension != 96 {
		t.Errorf("MinDimension = %v, want 96", g.MinDimension)
	}
	if !approx(g.CalculatedBorder, 3.36) {
		t.Errorf("CalculatedBorder = %v, want 3.36", g.CalculatedBorder)
	}
	if g.Width != 336 || g.Height != 96 || g.Radius != 16 || g.Border != 0.07 {
		t.Errorf("declared geometry not carried through: %+v", g.GeometryConfig)
	}
}

func TestResolveGeometryBorderInvariant(t *testing.T) {
	sizes := [][2]float64{{336, 96}, {96, 336}, {140, 140}, {1, 1000}, {0.5, 0.25}}
	borders := []float64{0, 0.07, 0.15, 0.5, 1}

	for _, s := range sizes {
		for _, border := range borders {
			g := ResolveGeometry(GeometryConfig{Width: s[0], Height: s[1], Border: border})
			minDim := math.Min(s[0], s[1])

			if want := minDim * border * 0.5; !approx(g.CalculatedBorder, want) {
				t.Errorf("%v border %v: CalculatedBorder = %v, want %v", s, border, g.CalculatedBorder, want)
			}
			if g.CalculatedBorder < 0 || g.CalculatedBorder > minDim/2 {
				t.Errorf("%v border %v: CalculatedBorder %v outside [0, %v]", s, border, g.CalculatedBorder, minDim/2)
			}
			if g.Degenerate() && border < 1 {
				t.Errorf("%v border %v: unexpected degenerate geometry", s, border)
			}
		}
	}
}

func TestResolveGeometryBoundaries(t *testing.T) {
	t.Run("zero border", func(t *testing.T) {
		g := ResolveGeometry(GeometryConfig{Width: 200, Height: 80, Border: 0})
		if g.CalculatedBorder != 0 {
			t.Errorf("CalculatedBorder = %v, want 0", g.CalculatedBorder)
		}
		if g.InsetWidth() != 200 || g.InsetHeight() != 80 {
			t.Errorf("inset = %vx%v, want full element", g.InsetWidth(), g.InsetHeight())
		}
	})

	t.Run("square", func(t *testing.T) {
		g := ResolveGeometry(GeometryConfig{Width: 140, Height: 140, Border: 0.07})
		if g.MinDimension != 140 {
			t.Errorf("MinDimension = %v, want 140", g.MinDimension)
		}
	})

	t.Run("full border", func(t *testing.T) {
		g := ResolveGeometry(GeometryConfig{Width: 140, Height: 280, Border: 1})
		if g.InsetWidth() != 0 {
			t.Errorf("InsetWidth = %v, want 0", g.InsetWidth())
		}
		if !g.Degenerate() {
			t.Error("border = 1 should leave no flat centre")
		}
	})

	t.Run("out of range propagates", func(t *testing.T) {
		g := ResolveGeometry(GeometryConfig{Width: 100, Height: 50, Border: 3})
		if g.CalculatedBorder != 75 {
			t.Errorf("CalculatedBorder = %v, want 75", g.CalculatedBorder)
		}
		if g.InsetHeight() >= 0 {
			t.Errorf("InsetHeight = %v, want negative", g.InsetHeight())
		}
	})
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       GeometryConfig
		wantErr bool
	}{
		{"dock", GeometryConfig{Width: 336, Height: 96, Radius: 16, Border: 0.07}, false},
		{"zero radius and border", GeometryConfig{Width: 10, Height: 10}, false},
		{"full border", GeometryConfig{Width: 10, Height: 10, Border: 1}, false},

		{"zero width", GeometryConfig{Width: 0, Height: 10}, true},
		{"negative height", GeometryConfig{Width: 10, Height: -1}, true},
		{"negative radius", GeometryConfig{Width: 10, Height: 10, Radius: -1}, true},
		{"border above one", GeometryConfig{Width: 10, Height: 10, Border: 1.5}, true},
		{"negative border", GeometryConfig{Width: 10, Height: 10, Border: -0.1}, true},
		{"NaN width", GeometryConfig{Width: math.NaN(), Height: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidGeometry) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGeometry)
			}
		})
	}
}
