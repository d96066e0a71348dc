// Package pipeline runs the displacement map pipeline for the CLI, the
// tuner and the HTTP server.
//
// This package resolves a preset plus overrides into a validated
// configuration, generates the displacement map and renders the requested
// artifacts. Centralising it keeps caching, logging and validation the same
// on every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: Look up the preset, apply overrides and validate
//  2. Generate: Produce the texture, data URI and filter attributes
//  3. Render: Produce artifacts (texture SVG, filter chain, diagrams, PNG, PDF)
//
// Generation is memoized on the full configuration, which is the
// memoization interactive consumers need. Artifacts are cached by the
// content hash of the generated result.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Preset:  "pill",
//	    Formats: []string{"svg", "filter"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	texture := result.Artifacts["svg"]
//
// Run individual stages:
//
//	cfg, err := runner.Resolve(opts)
//	res, hit, err := runner.Generate(ctx, cfg)
//	artifacts, hit, err := runner.Render(ctx, res, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/liquidglass/pkg/cache"
	"github.com/matzehuels/liquidglass/pkg/errors"
	"github.com/matzehuels/liquidglass/pkg/glass"
	"github.com/matzehuels/liquidglass/pkg/glass/preset"
	"github.com/matzehuels/liquidglass/pkg/render/filter"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Tuner
// =============================================================================

const (
	// DefaultPreset is used when Options.Preset is empty.
	DefaultPreset = string(preset.Default)

	// DefaultFilterID is the id of the generated filter element.
	DefaultFilterID = filter.DefaultID

	// DefaultPNGScale renders PNGs at 2x resolution.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG     = "svg"     // displacement texture markup
	FormatDataURI = "datauri" // encoded texture
	FormatJSON    = "json"    // full result
	FormatFilter  = "filter"  // consumer filter chain
	FormatChain   = "chain"   // filter graph diagram as SVG
	FormatDOT     = "dot"     // filter graph diagram as DOT
	FormatPNG     = "png"
	FormatPDF     = "pdf"
)

// Formats lists the supported output formats in display order.
var Formats = []string{
	FormatSVG, FormatDataURI, FormatJSON, FormatFilter,
	FormatChain, FormatDOT, FormatPNG, FormatPDF,
}

// Extensions maps formats to file extensions.
var Extensions = map[string]string{
	FormatSVG:     ".svg",
	FormatDataURI: ".txt",
	FormatJSON:    ".json",
	FormatFilter:  ".filter.svg",
	FormatChain:   ".chain.svg",
	FormatDOT:     ".dot",
	FormatPNG:     ".png",
	FormatPDF:     ".pdf",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Resolve options
	Preset    string          `json:"preset,omitempty"`
	Overrides glass.Overrides `json:"overrides,omitempty"`

	// Generate options
	Refresh bool `json:"refresh,omitempty"` // Skip cache reads, regenerate

	// Render options
	Formats  []string `json:"formats,omitempty"`
	FilterID string   `json:"filter_id,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`
	Preview  bool     `json:"preview,omitempty"` // Draw a backdrop through the filter (filter, png, pdf)

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Label names the configuration in logs: the preset, plus "+custom"
	// when overrides were applied.
	Label string

	// Config is the resolved, validated configuration.
	Config glass.Config

	// Displacement is the generated map.
	Displacement glass.DisplacementMapResult

	// ResultHash is the content hash of Displacement.
	ResultHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SVGBytes     int
	DataURIBytes int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the displacement map came from cache
	RenderHit   bool // Whether all cacheable artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Preset == "" {
		o.Preset = DefaultPreset
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.FilterID == "" {
		o.FilterID = DefaultFilterID
	}
	if !filter.ValidID(o.FilterID) {
		return errors.New(errors.ErrCodeInvalidInput, "filter id %q is not a valid XML name", o.FilterID)
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if err := errors.ValidatePositive(errors.ErrCodeInvalidInput, "png scale", o.PNGScale); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Label names the configuration selected by o.
func (o *Options) Label() string {
	name := o.Preset
	if name == "" {
		name = DefaultPreset
	}
	if !o.Overrides.Empty() {
		name += "+custom"
	}
	return name
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatFilter:
		k.FilterID, k.Preview = o.FilterID, o.Preview
	case FormatPNG:
		k.FilterID, k.Preview, k.Scale = o.FilterID, o.Preview, o.PNGScale
	case FormatPDF:
		k.FilterID, k.Preview = o.FilterID, o.Preview
	}
	return k
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
