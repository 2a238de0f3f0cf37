package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jgoulah/csvchart/internal/render"
)

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/chart.svg", s.handleSVG)
	s.router.Get("/chart.png", s.handlePNG)
	s.router.Get("/data.json", s.handleData)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
}

type recordResponse struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// handleIndex serves the chart page. A failed load still serves the page with
// an empty container; the renderer has already logged the failure.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	chart, _ := s.charts.Load(r.Context())

	var buf bytes.Buffer
	if err := render.WritePage(&buf, chart); err != nil {
		s.logger.Error("writing chart page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if chart != nil {
		s.metrics.ObserveRender("html")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	chart, err := s.charts.Load(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "error loading data")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := chart.WriteSVG(w); err != nil {
		s.logger.Error("writing svg", "error", err)
		return
	}
	s.metrics.ObserveRender("svg")
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	chart, err := s.charts.Load(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "error loading data")
		return
	}

	var buf bytes.Buffer
	if err := chart.WritePNG(&buf); err != nil {
		s.logger.Error("writing png", "error", err)
		s.writeError(w, http.StatusInternalServerError, "error rendering chart")
		return
	}
	s.metrics.ObserveRender("png")

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	chart, err := s.charts.Load(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "error loading data")
		return
	}

	records := make([]recordResponse, 0, len(chart.Series))
	for _, rec := range chart.Series {
		records = append(records, recordResponse{
			Date:  rec.Date.Format(time.RFC3339),
			Value: rec.Value,
		})
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message, Code: status})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
