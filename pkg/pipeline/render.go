package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/liquidglass/pkg/glass"
	"github.com/matzehuels/liquidglass/pkg/render"
	"github.com/matzehuels/liquidglass/pkg/render/chain"
	"github.com/matzehuels/liquidglass/pkg/render/filter"
)

// RenderFormat produces one artifact for res.
//
// PNG and PDF rasterise the texture itself, or the filter preview when
// opts.Preview is set. Both need rsvg-convert on PATH.
func RenderFormat(ctx context.Context, res glass.DisplacementMapResult, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return []byte(res.SVGContent), nil
	case FormatDataURI:
		return []byte(res.DataURI), nil
	case FormatJSON:
		return json.MarshalIndent(res, "", "  ")
	case FormatFilter:
		return filter.Document(res, filterOptions(opts)...)
	case FormatDOT:
		return []byte(chain.ToDOT(res)), nil
	case FormatChain:
		return chain.RenderSVG(ctx, chain.ToDOT(res))
	case FormatPNG:
		src, err := rasterSource(res, opts)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, src, opts.PNGScale)
	case FormatPDF:
		src, err := rasterSource(res, opts)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, src)
	default:
		return nil, ValidateFormat(format)
	}
}

// cacheable reports whether format is worth a cache round trip. The
// others are slices of the result itself.
func cacheable(format string) bool {
	switch format {
	case FormatSVG, FormatDataURI, FormatJSON, FormatDOT:
		return false
	}
	return true
}

func filterOptions(opts Options) []filter.Option {
	return []filter.Option{filter.WithID(opts.FilterID), filter.WithPreview(opts.Preview)}
}

func rasterSource(res glass.DisplacementMapResult, opts Options) ([]byte, error) {
	if !opts.Preview {
		return []byte(res.SVGContent), nil
	}
	doc, err := filter.Document(res, filterOptions(opts)...)
	if err != nil {
		return nil, fmt.Errorf("build preview: %w", err)
	}
	return doc, nil
}
