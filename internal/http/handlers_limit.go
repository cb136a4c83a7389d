package http

import (
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

func (s *Server) handleListLimits(w http.ResponseWriter, r *http.Request, userID string) {
	limits, err := s.svc.Limits(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, limits)
}

func (s *Server) handleCreateLimit(w http.ResponseWriter, r *http.Request, userID string) {
	var l core.SpendingLimit
	if err := decodeJSON(r, &l); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.svc.CreateLimit(r.Context(), userID, l)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "limit", created.ID, applog.OpCreate)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateLimit(w http.ResponseWriter, r *http.Request, userID string) {
	var l core.SpendingLimit
	if err := decodeJSON(r, &l); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	l.ID = r.PathValue("id")
	updated, err := s.svc.UpdateLimit(r.Context(), userID, l)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "limit", updated.ID, applog.OpUpdate)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLimit(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.svc.DeleteLimit(r.Context(), userID, r.PathValue("id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "limit", r.PathValue("id"), applog.OpDelete)
	w.WriteHeader(http.StatusNoContent)
}
