package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/liquidglass/pkg/cache"
	"github.com/matzehuels/liquidglass/pkg/glass"
	"github.com/matzehuels/liquidglass/pkg/glass/preset"
	"github.com/matzehuels/liquidglass/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the tuner and the server all use this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete resolve → generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Resolve
	cfg, err := r.Resolve(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Label: opts.Label(), Config: cfg}

	// Stage 2: Generate
	generateStart := time.Now()
	res, hit, err := r.generate(ctx, cfg, result.Label, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Displacement = res
	result.Stats.GenerateTime = time.Since(generateStart)
	result.Stats.SVGBytes = len(res.SVGContent)
	result.Stats.DataURIBytes = len(res.DataURI)
	result.CacheInfo.GenerateHit = hit
	result.ResultHash = hashResult(res)

	opts.Logger.Info("generated displacement map",
		"config", result.Label,
		"size", fmt.Sprintf("%gx%g", cfg.Width, cfg.Height),
		"cached", hit,
		"duration", result.Stats.GenerateTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.Render(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Resolve looks up opts.Preset, applies opts.Overrides and validates the
// outcome.
func (r *Runner) Resolve(opts Options) (glass.Config, error) {
	base, err := preset.Lookup(opts.Preset)
	if err != nil {
		return glass.Config{}, err
	}
	cfg := opts.Overrides.Apply(base)

	name := opts.Preset
	if name == "" {
		name = DefaultPreset
	}
	r.Logger.Debug("applying configuration",
		"preset", name,
		"custom", opts.Overrides.Keys())

	if err := cfg.Validate(); err != nil {
		return glass.Config{}, err
	}
	return cfg, nil
}

// Generate produces the displacement map for cfg, using the cache when
// possible. The second return value reports a cache hit.
func (r *Runner) Generate(ctx context.Context, cfg glass.Config) (glass.DisplacementMapResult, bool, error) {
	return r.generate(ctx, cfg, "custom", false)
}

func (r *Runner) generate(ctx context.Context, cfg glass.Config, label string, refresh bool) (glass.DisplacementMapResult, bool, error) {
	if err := cfg.Validate(); err != nil {
		return glass.DisplacementMapResult{}, false, err
	}
	key := r.Keyer.DisplacementKey(cfg)

	// Try cache first (unless refresh requested)
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached glass.DisplacementMapResult
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "displacement")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to regenerate
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "displacement")
	}

	observability.Pipeline().OnGenerateStart(ctx, label)
	start := time.Now()
	res, err := glass.Generate(cfg)
	observability.Pipeline().OnGenerateComplete(ctx, label, len(res.SVGContent), time.Since(start), err)
	if err != nil {
		return glass.DisplacementMapResult{}, false, err
	}
	r.logResult(res)

	// Cache the result
	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLDisplacement); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "displacement", len(data))
		}
	}

	return res, false, nil // Cache miss
}

// logResult records each step of a fresh generation at debug level.
func (r *Runner) logResult(res glass.DisplacementMapResult) {
	g := res.CalculatedGeometry
	pct := 0.0
	if g.MinDimension != 0 {
		pct = g.CalculatedBorder / g.MinDimension * 100
	}
	r.Logger.Debug("constructed texture",
		"width", g.Width,
		"height", g.Height,
		"radius", g.Radius,
		"border", g.CalculatedBorder,
		"border_pct", fmt.Sprintf("%.1f%%", pct))
	r.Logger.Debug("encoded texture",
		"svg_bytes", len(res.SVGContent),
		"uri_bytes", len(res.DataURI))
	f := res.FilterAttributes
	r.Logger.Debug("computed filter attributes",
		"x", f.Red.XChannelSelector,
		"y", f.Red.YChannelSelector,
		"scales", []float64{f.Red.Scale, f.Green.Scale, f.Blue.Scale},
		"blur", f.GaussianBlur.StdDeviation)
}

// Render produces the artifacts opts.Formats names for res. Missing
// artifacts are rendered concurrently. The second return value reports
// whether every cacheable artifact came from the cache.
func (r *Runner) Render(ctx context.Context, res glass.DisplacementMapResult, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hash := hashResult(res)

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
		allHit    = true
	)
	set := func(format string, data []byte, hit bool) {
		mu.Lock()
		defer mu.Unlock()
		artifacts[format] = data
		allHit = allHit && hit
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			if !cacheable(format) {
				data, err := RenderFormat(gctx, res, format, opts)
				if err != nil {
					return fmt.Errorf("render %s: %w", format, err)
				}
				set(format, data, true)
				return nil
			}

			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(gctx, key); err == nil && hit {
					observability.Cache().OnCacheHit(gctx, "artifact")
					set(format, data, true)
					return nil
				}
				observability.Cache().OnCacheMiss(gctx, "artifact")
			}

			data, err := RenderFormat(gctx, res, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			if err := r.Cache.Set(gctx, key, data, cache.TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(gctx, "artifact", len(data))
			}
			set(format, data, false)
			return nil
		})
	}
	err := g.Wait()
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return artifacts, allHit, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// hashResult identifies res by content for artifact cache keys.
func hashResult(res glass.DisplacementMapResult) string {
	data, _ := json.Marshal(res)
	return cache.Hash(data)
}
