package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/liquidglass/pkg/buildinfo"
	"github.com/matzehuels/liquidglass/pkg/errors"
	"github.com/matzehuels/liquidglass/pkg/glass"
	"github.com/matzehuels/liquidglass/pkg/glass/preset"
	"github.com/matzehuels/liquidglass/pkg/pipeline"
)

// CacheHeader reports whether a generation route was served from the cache.
const CacheHeader = "X-Cache"

const svgContentType = "image/svg+xml"

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

// DisplacementRequest is the body of POST /v1/displacement.
type DisplacementRequest struct {
	Preset    string          `json:"preset,omitempty"`
	Overrides glass.Overrides `json:"overrides,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, preset.All())
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "name"))
	cfg, err := preset.Lookup(name)
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "%s", errors.UserMessage(err)))
		return
	}
	writeJSON(w, http.StatusOK, preset.Preset{Name: preset.Name(name), Config: cfg})
}

func (s *Server) handleDisplacement(w http.ResponseWriter, r *http.Request) {
	var req DisplacementRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "decode request body: %v", err))
		return
	}

	cfg, err := s.Runner.Resolve(pipeline.Options{Preset: req.Preset, Overrides: req.Overrides})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, hit, err := s.Runner.Generate(r.Context(), cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTexture(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cfg, err := s.Runner.Resolve(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, hit, err := s.Runner.Generate(r.Context(), cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeBody(w, svgContentType, []byte(res.SVGContent))
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := optionsFromQuery(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatFilter}
	opts.FilterID = q.Get("id")
	if v := q.Get("preview"); v != "" {
		if opts.Preview, err = strconv.ParseBool(v); err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "preview: %q is not a boolean", v))
			return
		}
	}

	result, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, result.CacheInfo.GenerateHit && result.CacheInfo.RenderHit)
	writeBody(w, svgContentType, result.Artifacts[pipeline.FormatFilter])
}

// optionsFromQuery reads the preset and every override field from q.
// Parameters that are neither are ignored.
func optionsFromQuery(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{Preset: q.Get("preset")}
	for _, name := range glass.OverrideNames {
		if !q.Has(name) {
			continue
		}
		if err := opts.Overrides.Set(name, q.Get(name)); err != nil {
			return pipeline.Options{}, err
		}
	}
	return opts, nil
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(CacheHeader, "hit")
	} else {
		w.Header().Set(CacheHeader, "miss")
	}
}
