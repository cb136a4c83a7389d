package http

import (
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request, userID string) {
	goals, err := s.svc.Goals(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request, userID string) {
	var g core.Goal
	if err := decodeJSON(r, &g); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.svc.CreateGoal(r.Context(), userID, g)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "goal", created.ID, applog.OpCreate)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request, userID string) {
	var g core.Goal
	if err := decodeJSON(r, &g); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	g.ID = r.PathValue("id")
	updated, err := s.svc.UpdateGoal(r.Context(), userID, g)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "goal", updated.ID, applog.OpUpdate)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.svc.DeleteGoal(r.Context(), userID, r.PathValue("id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "goal", r.PathValue("id"), applog.OpDelete)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleGoal(w http.ResponseWriter, r *http.Request, userID string) {
	toggled, err := s.svc.ToggleGoal(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "goal", toggled.ID, applog.OpToggle)
	writeJSON(w, http.StatusOK, toggled)
}
