package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/matzehuels/anchor/pkg/buildinfo"
	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/httputil"
	"github.com/matzehuels/anchor/pkg/observability"
	"github.com/matzehuels/anchor/pkg/position"
	"github.com/matzehuels/anchor/pkg/scene"
)

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

type placementsResponse struct {
	Placements []geom.Placement `json:"placements"`
	Stages     []string         `json:"stages"`
	Formats    []scene.Format   `json:"formats"`
}

type positionResponse struct {
	Result *position.Result `json:"result"`
	Cached bool             `json:"cached"`
}

type sweepRequest struct {
	Scene json.RawMessage `json:"scene"`
	scene.SweepOptions
}

type sweepResponse struct {
	Result      *scene.SweepResult `json:"result"`
	Transitions []float64          `json:"transitions"`
	Cached      bool               `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handlePlacements(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, placementsResponse{
		Placements: geom.Placements,
		Stages:     scene.StageTypes(),
		Formats:    scene.Formats,
	})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r, s.cfg.MaxBodyBytes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sc, err := scene.Read(bytes.NewReader(body), scene.FormatJSON)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, cached, err := s.resolver.Resolve(r.Context(), sc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, positionResponse{Result: res, Cached: cached})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r, s.cfg.MaxBodyBytes)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req sweepRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode sweep request"))
		return
	}
	if len(req.Scene) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "sweep request has no scene"))
		return
	}
	sc, err := scene.Read(bytes.NewReader(req.Scene), scene.FormatJSON)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, cached, err := s.resolver.Sweep(r.Context(), sc, req.SweepOptions)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	transitions := res.Transitions()
	if transitions == nil {
		transitions = []float64{}
	}
	httputil.WriteJSON(w, http.StatusOK, sweepResponse{Result: res, Transitions: transitions, Cached: cached})
}

// fail writes err and logs it. Client faults log at debug level.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, r, err)
	observability.HTTP().OnError(r.Context(), r.Method, r.Host, r.URL.Path, err)

	kv := []any{"path", r.URL.Path, "status", status, "request_id", httputil.RequestID(r.Context()), "err", err}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", kv...)
		return
	}
	s.logger.Debug("request rejected", kv...)
}
