package http

import (
	"net/http"

	"fintrack/internal/core"
)

// handleAlerts evaluates spending limits against live data. Alert responses
// are deliberately never cached: a stale breach is worse than a slow one.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request, userID string) {
	alerts, err := s.svc.Alerts(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, userID string) {
	period, err := core.ParseReportPeriod(r.URL.Query().Get("period"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	key := userID + ":" + string(period)
	if report, ok := s.reportCache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.svc.Report(r.Context(), userID, period)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.reportCache.Set(key, report)
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, userID string) {
	dashboard, err := s.svc.DashboardView(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
