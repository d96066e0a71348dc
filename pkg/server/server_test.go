package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/liquidglass/pkg/cache"
	"github.com/matzehuels/liquidglass/pkg/glass"
	"github.com/matzehuels/liquidglass/pkg/glass/preset"
	"github.com/matzehuels/liquidglass/pkg/observability"
	"github.com/matzehuels/liquidglass/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
	ts := httptest.NewServer(New(runner, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("error body is not JSON: %v\n%s", err, body)
	}
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h healthResponse
	if err := json.Unmarshal(body, &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Version == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestPresets(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/v1/presets")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var all []preset.Preset
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatal(err)
	}
	if len(all) != len(preset.Names()) {
		t.Errorf("got %d presets, want %d", len(all), len(preset.Names()))
	}

	resp, body = get(t, ts, "/v1/presets/Pill")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var p preset.Preset
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatal(err)
	}
	if p.Name != preset.Pill || p.Config != preset.MustLookup("pill") {
		t.Errorf("preset = %+v", p)
	}

	resp, body = get(t, ts, "/v1/presets/square")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown preset status = %d, want 404", resp.StatusCode)
	}
	if e := decodeError(t, body); e.Code != "NOT_FOUND" || !strings.Contains(e.Message, "square") {
		t.Errorf("error = %+v", e)
	}
}

func TestPostDisplacement(t *testing.T) {
	ts := newTestServer(t)
	req := `{"preset": "pill", "overrides": {"width": 400, "blend": "screen"}}`

	resp, body := post(t, ts, "/v1/displacement", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get(CacheHeader); got != "miss" {
		t.Errorf("first %s = %q, want miss", CacheHeader, got)
	}

	var res glass.DisplacementMapResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	cfg := preset.MustLookup("pill")
	cfg.Width, cfg.Blend = 400, glass.BlendScreen
	if want := glass.GenerateDisplacementMap(cfg.Geometry(), cfg.Visual()); res != want {
		t.Error("response does not match GenerateDisplacementMap")
	}
	if !bytes.Contains(body, []byte(`"dataUri"`)) || !bytes.Contains(body, []byte(`"stdDeviation"`)) {
		t.Error("response should use the consumer field names")
	}

	resp, _ = post(t, ts, "/v1/displacement", req)
	if got := resp.Header.Get(CacheHeader); got != "hit" {
		t.Errorf("second %s = %q, want hit", CacheHeader, got)
	}
}

func TestPostDisplacementErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed", `{"preset":`, "INVALID_INPUT"},
		{"unknown field", `{"style": "dock"}`, "INVALID_INPUT"},
		{"unknown preset", `{"preset": "square"}`, "INVALID_PRESET"},
		{"bad geometry", `{"overrides": {"width": -1}}`, "INVALID_GEOMETRY"},
		{"bad visual", `{"overrides": {"alpha": 2}}`, "INVALID_VISUAL"},
		{"bad selector", `{"overrides": {"x": "A"}}`, "INVALID_VISUAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts, "/v1/displacement", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if e := decodeError(t, body); e.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", e.Code, tt.code, e.Message)
			}
		})
	}
}

func TestTextureSVG(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/v1/displacement.svg?preset=bubble&scale=-200&x=g")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != svgContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	cfg := preset.MustLookup("bubble")
	want := glass.BuildDisplacementSVG(glass.ResolveGeometry(cfg.Geometry()), cfg.Texture())
	if string(body) != want {
		t.Errorf("body differs from the bubble texture:\n%s", body)
	}

	resp, _ = get(t, ts, "/v1/displacement.svg?preset=bubble&scale=-200&x=g")
	if resp.Header.Get(CacheHeader) != "hit" {
		t.Error("repeated query should hit the cache")
	}

	resp, body = get(t, ts, "/v1/displacement.svg?width=wide")
	if resp.StatusCode != http.StatusBadRequest || decodeError(t, body).Code != "INVALID_INPUT" {
		t.Errorf("bad number: status = %d body = %s", resp.StatusCode, body)
	}
}

func TestFilterSVG(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/v1/filter.svg?id=glass&preview=true&preset=dock")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !bytes.Contains(body, []byte(`id="glass"`)) || !bytes.Contains(body, []byte("feDisplacementMap")) {
		t.Errorf("filter document missing chain:\n%s", body)
	}
	if resp.Header.Get(CacheHeader) != "miss" {
		t.Error("first request should miss")
	}

	resp, _ = get(t, ts, "/v1/filter.svg?id=glass&preview=true&preset=dock")
	if resp.Header.Get(CacheHeader) != "hit" {
		t.Error("second request should hit")
	}

	resp, body = get(t, ts, "/v1/filter.svg?id="+url.QueryEscape(`x"/><script>alert(1)</script><g id="`))
	if resp.StatusCode != http.StatusBadRequest || decodeError(t, body).Code != "INVALID_INPUT" {
		t.Errorf("unsafe id: status = %d body = %s", resp.StatusCode, body)
	}
	if bytes.Contains(body, []byte("<script>")) || resp.Header.Get("Content-Type") == svgContentType {
		t.Errorf("unsafe id must not be reflected as SVG: %s", body)
	}

	resp, body = get(t, ts, "/v1/filter.svg?preview=maybe")
	if resp.StatusCode != http.StatusBadRequest || decodeError(t, body).Code != "INVALID_INPUT" {
		t.Errorf("bad preview: status = %d body = %s", resp.StatusCode, body)
	}
}

func TestRoutingErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/v2/nothing")
	if resp.StatusCode != http.StatusNotFound || decodeError(t, body).Code != "NOT_FOUND" {
		t.Errorf("unknown route: status = %d body = %s", resp.StatusCode, body)
	}

	resp, _ = get(t, ts, "/v1/displacement")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET on POST route: status = %d, want 405", resp.StatusCode)
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := get(t, ts, "/healthz")
	id := resp.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated request id %q is not a uuid", id)
	}

	want := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, want)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != want {
		t.Errorf("request id = %q, want incoming %q", got, want)
	}

	req.Header.Set(RequestIDHeader, "not-an-id")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got == "not-an-id" {
		t.Error("malformed request id should be replaced")
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks

	mu        sync.Mutex
	routes    []string
	statuses  []int
	recovered []any
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnPanic(_ context.Context, _, _ string, recovered any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recovered = append(h.recovered, recovered)
}

func TestHTTPHooks(t *testing.T) {
	h := &recordingHTTPHooks{}
	observability.SetHTTPHooks(h)
	defer observability.Reset()

	ts := newTestServer(t)
	get(t, ts, "/v1/presets/free")
	get(t, ts, "/v1/presets/nope")

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) != 2 || h.routes[0] != "/v1/presets/{name}" {
		t.Errorf("routes = %v", h.routes)
	}
	if len(h.statuses) != 2 || h.statuses[0] != http.StatusOK || h.statuses[1] != http.StatusNotFound {
		t.Errorf("statuses = %v", h.statuses)
	}
}

func TestRecoverer(t *testing.T) {
	h := &recordingHTTPHooks{}
	observability.SetHTTPHooks(h)
	defer observability.Reset()

	s := New(pipeline.NewRunner(nil, nil, log.NewWithOptions(io.Discard, log.Options{})), nil)
	handler := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if e := decodeError(t, rec.Body.Bytes()); e.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q", e.Code)
	}
	if len(h.recovered) != 1 || h.recovered[0] != "boom" {
		t.Errorf("OnPanic received %v", h.recovered)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, log.NewWithOptions(io.Discard, log.Options{})), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
