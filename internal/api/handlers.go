package api

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sprite-ai/redline/internal/controller"
	"github.com/sprite-ai/redline/internal/health"
	"github.com/sprite-ai/redline/internal/input"
	"github.com/sprite-ai/redline/internal/model"
	"github.com/sprite-ai/redline/internal/render"
	"github.com/sprite-ai/redline/internal/samples"
)

// reviewRequest is the body of POST /api/review.
type reviewRequest struct {
	Text         string `json:"text"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// healthResponse is returned by GET /api/health and pushed to sessions.
type healthResponse struct {
	Status string       `json:"status"`
	Badge  render.Badge `json:"badge"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(webFS(), "index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "page not available")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSample serves the embedded samples, independent of the configured
// loader.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := fs.ReadFile(samples.FS(), samples.Path(name))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

// handleServiceHealth probes the review service on behalf of the caller.
func (s *Server) handleServiceHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Prober == nil {
		writeError(w, http.StatusServiceUnavailable, "no review service configured")
		return
	}
	mon := health.NewMonitor(s.deps.Prober)
	status := mon.Probe(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{Status: status.String(), Badge: mon.Badge()})
}

// handleReview runs one review without a session and returns the
// normalized view.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Jurisdiction == "" {
		req.Jurisdiction = s.deps.Jurisdiction
	}

	o, err := s.review(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := render.JSON(&buf, render.Build(o), o.Raw); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) review(ctx context.Context, req reviewRequest) (model.Outcome, error) {
	if s.deps.Reviewer == nil {
		return model.Outcome{}, errors.New("no review service configured")
	}
	buf := input.NewBuffer()
	buf.Set(req.Text)
	ctrl := controller.New(s.deps.Reviewer, buf, s.deps.Timeout)
	return ctrl.Submit(ctx, req.Jurisdiction)
}
