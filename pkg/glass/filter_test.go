package glass

import "testing"

func TestComputeFilterAttributesDock(t *testing.T) {
	got := ComputeFilterAttributes(ChannelConfig{
		X: ChannelR, Y: ChannelB,
		Scale: -180, R: 0, G: 10, B: 20,
		Displace: 0.2,
	})

	want := FilterAttributes{
		Red:          ChannelAttributes{XChannelSelector: ChannelR, YChannelSelector: ChannelB, Scale: -180},
		Green:        ChannelAttributes{XChannelSelector: ChannelR, YChannelSelector: ChannelB, Scale: -170},
		Blue:         ChannelAttributes{XChannelSelector: ChannelR, YChannelSelector: ChannelB, Scale: -160},
		GaussianBlur: GaussianBlur{StdDeviation: 0.2},
	}
	if got != want {
		t.Errorf("ComputeFilterAttributes() = %+v, want %+v", got, want)
	}
}

func TestComputeFilterAttributesScaleLaw(t *testing.T) {
	tests := []ChannelConfig{
		{X: ChannelG, Y: ChannelG, Scale: 0},
		{X: ChannelB, Y: ChannelR, Scale: 42, R: -1, G: 0.5, B: 100, Displace: 3},
		{X: ChannelR, Y: ChannelB, Scale: -300, R: 0, G: 10, B: 20},
	}

	for _, c := range tests {
		f := ComputeFilterAttributes(c)
		offsets := [3]float64{c.R, c.G, c.B}
		for i, p := range f.Planes() {
			if p.Scale != c.Scale+offsets[i] {
				t.Errorf("%+v plane %d: scale = %v, want %v", c, i, p.Scale, c.Scale+offsets[i])
			}
			if p.XChannelSelector != c.X || p.YChannelSelector != c.Y {
				t.Errorf("%+v plane %d: selectors = %s/%s, want %s/%s", c, i,
					p.XChannelSelector, p.YChannelSelector, c.X, c.Y)
			}
		}
		if f.GaussianBlur.StdDeviation != c.Displace {
			t.Errorf("%+v: stdDeviation = %v, want %v", c, f.GaussianBlur.StdDeviation, c.Displace)
		}
	}
}
