package http

import (
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, userID string) {
	categories, err := s.svc.Categories(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, userID string) {
	var c core.Category
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.svc.CreateCategory(r.Context(), userID, c)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "category", created.ID, applog.OpCreate)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, userID string) {
	var c core.Category
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	c.ID = r.PathValue("id")
	updated, err := s.svc.UpdateCategory(r.Context(), userID, c)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "category", updated.ID, applog.OpUpdate)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.svc.DeleteCategory(r.Context(), userID, r.PathValue("id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "category", r.PathValue("id"), applog.OpDelete)
	w.WriteHeader(http.StatusNoContent)
}
