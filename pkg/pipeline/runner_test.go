package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/liquidglass/pkg/cache"
	"github.com/matzehuels/liquidglass/pkg/errors"
	"github.com/matzehuels/liquidglass/pkg/glass"
	"github.com/matzehuels/liquidglass/pkg/glass/inspect"
	"github.com/matzehuels/liquidglass/pkg/observability"
	"github.com/matzehuels/liquidglass/pkg/render"
)

type Overrides = glass.Overrides

func overrides(f func(*Overrides)) Overrides {
	var o Overrides
	f(&o)
	return o
}

func newTestRunner() (*Runner, *cache.MemoryCache) {
	c := cache.NewMemoryCache(64)
	return NewRunner(c, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{})), c
}

func TestResolve(t *testing.T) {
	r, _ := newTestRunner()

	width := 400.0
	blend := glass.BlendScreen
	cfg, err := r.Resolve(Options{
		Preset: "pill",
		Overrides: overrides(func(o *Overrides) {
			o.Width = &width
			o.Blend = &blend
		}),
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 80 || cfg.Blend != glass.BlendScreen || cfg.Radius != 40 {
		t.Errorf("Resolve() = %+v", cfg)
	}
}

func TestResolveErrors(t *testing.T) {
	r, _ := newTestRunner()

	if _, err := r.Resolve(Options{Preset: "square"}); !errors.Is(err, errors.ErrCodeInvalidPreset) {
		t.Errorf("unknown preset: err = %v", err)
	}

	alpha := 2.0
	_, err := r.Resolve(Options{Overrides: overrides(func(o *Overrides) { o.Alpha = &alpha })})
	if !errors.Is(err, errors.ErrCodeInvalidVisual) {
		t.Errorf("bad override: err = %v", err)
	}

	border := -1.0
	_, err = r.Resolve(Options{Overrides: overrides(func(o *Overrides) { o.Border = &border })})
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("bad geometry override: err = %v", err)
	}
}

func TestGenerateMemoizes(t *testing.T) {
	ctx := context.Background()
	r, c := newTestRunner()
	cfg, err := r.Resolve(Options{Preset: "bubble"})
	if err != nil {
		t.Fatal(err)
	}

	first, hit, err := r.Generate(ctx, cfg)
	if err != nil || hit {
		t.Fatalf("first Generate: hit=%v err=%v", hit, err)
	}
	second, hit, err := r.Generate(ctx, cfg)
	if err != nil || !hit {
		t.Fatalf("second Generate: hit=%v err=%v", hit, err)
	}
	if first != second {
		t.Error("cached result differs from generated result")
	}
	if want := glass.GenerateDisplacementMap(cfg.Geometry(), cfg.Visual()); first != want {
		t.Error("Generate should match GenerateDisplacementMap")
	}
	if c.Len() != 1 {
		t.Errorf("cache holds %d entries, want 1", c.Len())
	}

	// A different config is a different entry.
	cfg.G = 12
	if _, hit, _ := r.Generate(ctx, cfg); hit {
		t.Error("changed config should miss")
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	r, c := newTestRunner()
	_, _, err := r.Generate(context.Background(), glass.Config{})
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("err = %v, want INVALID_GEOMETRY", err)
	}
	if c.Len() != 0 {
		t.Error("invalid config should not be cached")
	}
}

func TestGenerateIgnoresCorruptEntry(t *testing.T) {
	ctx := context.Background()
	r, c := newTestRunner()
	cfg, _ := r.Resolve(Options{})

	_ = c.Set(ctx, r.Keyer.DisplacementKey(cfg), []byte("not json"), time.Hour)

	res, hit, err := r.Generate(ctx, cfg)
	if err != nil || hit {
		t.Fatalf("Generate: hit=%v err=%v", hit, err)
	}
	if res.SVGContent == "" {
		t.Error("corrupt entry should be regenerated")
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner()
	cfg, _ := r.Resolve(Options{})
	res, _, _ := r.Generate(ctx, cfg)

	opts := Options{Formats: []string{"svg", "datauri", "json", "filter", "dot", "chain"}, FilterID: "glass"}
	artifacts, hit, err := r.Render(ctx, res, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if hit {
		t.Error("first Render should miss")
	}
	if len(artifacts) != 6 {
		t.Fatalf("got %d artifacts, want 6", len(artifacts))
	}

	if string(artifacts["svg"]) != res.SVGContent {
		t.Error("svg artifact should be the texture")
	}
	if string(artifacts["datauri"]) != res.DataURI {
		t.Error("datauri artifact should be the encoded texture")
	}
	var decoded glass.DisplacementMapResult
	if err := json.Unmarshal(artifacts["json"], &decoded); err != nil || decoded != res {
		t.Errorf("json artifact does not round-trip: %v", err)
	}
	if !bytes.Contains(artifacts["filter"], []byte(`id="glass"`)) {
		t.Error("filter artifact should carry the configured id")
	}
	if !bytes.HasPrefix(artifacts["dot"], []byte("digraph")) {
		t.Error("dot artifact should be DOT source")
	}
	if !bytes.Contains(artifacts["chain"], []byte("<svg")) {
		t.Error("chain artifact should be SVG")
	}

	if report, err := inspect.Texture(string(artifacts["svg"])); err != nil || report.Check() != nil {
		t.Errorf("svg artifact fails inspection: %v %v", err, report.Issues)
	}

	_, hit, err = r.Render(ctx, res, opts)
	if err != nil || !hit {
		t.Errorf("second Render: hit=%v err=%v", hit, err)
	}
}

func TestRenderPNG(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	ctx := context.Background()
	r, _ := newTestRunner()
	result, err := r.Execute(ctx, Options{Formats: []string{"png"}, Preview: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.HasPrefix(result.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner()

	scale := -250.0
	opts := Options{
		Preset:    "free",
		Overrides: overrides(func(o *Overrides) { o.Scale = &scale }),
		Formats:   []string{"svg", "filter"},
	}

	result, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Label != "free+custom" {
		t.Errorf("Label = %q", result.Label)
	}
	if result.Config.Scale != -250 || result.Displacement.FilterAttributes.Blue.Scale != -230 {
		t.Errorf("override not applied: %+v", result.Displacement.FilterAttributes)
	}
	if result.CacheInfo.GenerateHit || result.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", result.CacheInfo)
	}
	if result.Stats.SVGBytes != len(result.Displacement.SVGContent) || result.ResultHash == "" {
		t.Errorf("stats = %+v hash = %q", result.Stats, result.ResultHash)
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !again.CacheInfo.GenerateHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", again.CacheInfo)
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if fresh.CacheInfo.GenerateHit {
		t.Error("Refresh should bypass the cache")
	}
	if fresh.ResultHash != result.ResultHash {
		t.Error("regenerated result should be identical")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r, _ := newTestRunner()
	_, err := r.Execute(context.Background(), Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestExecuteLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	r := NewRunner(nil, nil, logger)

	if _, err := r.Execute(context.Background(), Options{Preset: "pill"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"applying configuration", "constructed texture", "encoded texture", "computed filter attributes", "rendered outputs"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q", want)
		}
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnGenerateStart(context.Context, string) { h.record("generate") }
func (h *recordingHooks) OnRenderStart(context.Context, []string) { h.record("render") }
func (h *recordingHooks) OnCacheHit(_ context.Context, k string)  { h.record("hit:" + k) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, k string) { h.record("miss:" + k) }

func TestExecuteEmitsHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	r, _ := newTestRunner()
	opts := Options{Formats: []string{"filter"}}
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	want := []string{
		"miss:displacement", "generate", "render", "miss:artifact",
		"hit:displacement", "render", "hit:artifact",
	}
	if strings.Join(h.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", h.events, want)
	}
}
