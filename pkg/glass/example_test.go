package glass_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/liquidglass/pkg/glass"
)

func ExampleResolveGeometry() {
	g := glass.ResolveGeometry(glass.GeometryConfig{Width: 300, Height: 150, Radius: 12, Border: 0.5})
	fmt.Println(g.MinDimension, g.CalculatedBorder)
	// Output: 150 37.5
}

func ExampleComputeFilterAttributes() {
	f := glass.ComputeFilterAttributes(glass.ChannelConfig{
		X: glass.ChannelR, Y: glass.ChannelB,
		Scale: -180, R: 0, G: 10, B: 20,
		Displace: 0.2,
	})
	fmt.Println(f.Red.Scale, f.Green.Scale, f.Blue.Scale, f.GaussianBlur.StdDeviation)
	// Output: -180 -170 -160 0.2
}

func ExampleEncodeDataURI() {
	fmt.Println(glass.EncodeDataURI(`<rect fill="red"/>`))
	// Output: data:image/svg+xml,%3Crect%20fill%3D%22red%22%2F%3E
}

func ExampleGenerateDisplacementMap() {
	res := glass.GenerateDisplacementMap(
		glass.GeometryConfig{Width: 200, Height: 80, Radius: 40, Border: 0.25},
		glass.VisualConfig{
			Alpha: 0.93, Lightness: 50, Blur: 11, Scale: -180,
			X: glass.ChannelR, Y: glass.ChannelB, Blend: glass.BlendDifference,
			R: 0, G: 10, B: 20,
		},
	)
	fmt.Println(strings.HasPrefix(res.DataURI, glass.DataURIPrefix))
	fmt.Println(res.CalculatedGeometry.CalculatedBorder)
	fmt.Println(res.FilterAttributes.Blue.Scale)
	// Output:
	// true
	// 10
	// -160
}
