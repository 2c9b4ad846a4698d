package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hamed0406/urlreporter/internal/domain"
	"github.com/hamed0406/urlreporter/internal/report"
	"github.com/hamed0406/urlreporter/internal/scheduler"
)

type statusResponse struct {
	Summary  string               `json:"summary"`
	Up       int                  `json:"up"`
	Down     int                  `json:"down"`
	Statuses *domain.StatusReport `json:"statuses"`
}

type cycleResponse struct {
	scheduler.CycleResult
	Error string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleListURLs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.URLs)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rep := s.Checker.CheckAll(r.Context(), s.URLs)
	writeJSON(w, http.StatusOK, statusResponse{
		Summary:  report.Summary(rep),
		Up:       rep.UpCount(),
		Down:     rep.DownCount(),
		Statuses: rep,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	onlyFailures := false
	if raw := r.URL.Query().Get("only_failures"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "only_failures must be a boolean"})
			return
		}
		onlyFailures = v
	}

	rep := s.Checker.CheckAll(r.Context(), s.URLs)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.Format(rep, onlyFailures)))
}

func (s *Server) handleRunCycle(w http.ResponseWriter, r *http.Request) {
	c, err := scheduler.ParseCycle(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, err := s.Runner.RunCycle(r.Context(), c)
	if err != nil {
		s.Logger.Warn("manual_cycle_failed", zap.String("cycle", string(c)), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, cycleResponse{CycleResult: res, Error: err.Error()})
		return
	}

	s.Logger.Info("manual_cycle",
		zap.String("cycle", string(c)),
		zap.Int("checked", res.Checked),
		zap.Int("down", res.Down),
		zap.Bool("delivered", res.Delivered),
	)
	writeJSON(w, http.StatusOK, cycleResponse{CycleResult: res})
}
