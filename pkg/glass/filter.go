package glass

// ChannelAttributes configures one feDisplacementMap primitive.
type ChannelAttributes struct {
	XChannelSelector ChannelSelector `json:"xChannelSelector"`
	YChannelSelector ChannelSelector `json:"yChannelSelector"`
	Scale            float64         `json:"scale"`
}

// GaussianBlur configures the trailing feGaussianBlur primitive.
type GaussianBlur struct {
	StdDeviation float64 `json:"stdDeviation"`
}

// FilterAttributes holds the parameters of the consumer's filter chain:
// one displacement primitive per output colour plane and the final blur.
type FilterAttributes struct {
	Red          ChannelAttributes `json:"red"`
	Green        ChannelAttributes `json:"green"`
	Blue         ChannelAttributes `json:"blue"`
	GaussianBlur GaussianBlur      `json:"gaussianBlur"`
}

// ComputeFilterAttributes derives the per-channel displacement settings.
//
// All three planes sample the same texture through the same X/Y selectors;
// only the magnitude differs (Scale+R, Scale+G, Scale+B). Once the planes
// are recombined they sit at slightly different offsets, which shows up as
// a colour fringe along distortion edges without needing three textures.
func ComputeFilterAttributes(c ChannelConfig) FilterAttributes {
	channel := func(offset float64) ChannelAttributes {
		return ChannelAttributes{
			XChannelSelector: c.X,
			YChannelSelector: c.Y,
			Scale:            c.Scale + offset,
		}
	}
	return FilterAttributes{
		Red:          channel(c.R),
		Green:        channel(c.G),
		Blue:         channel(c.B),
		GaussianBlur: GaussianBlur{StdDeviation: c.Displace},
	}
}

// Planes returns the channel attributes in red, green, blue order.
func (f FilterAttributes) Planes() [3]ChannelAttributes {
	return [3]ChannelAttributes{f.Red, f.Green, f.Blue}
}
