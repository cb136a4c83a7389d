package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, _ *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// respondDomainError maps the error taxonomy onto HTTP statuses: validation
// problems are 422, referential conflicts 409, missing rows 404, anything
// else a logged 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *core.ValidationError
	if errors.As(err, &validation) {
		writeError(w, r, http.StatusUnprocessableEntity, validation.Error())
		return
	}
	var referential *core.ReferentialError
	if errors.As(err, &referential) {
		writeError(w, r, http.StatusConflict, referential.Error())
		return
	}
	if errors.Is(err, core.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path)
	writeError(w, r, http.StatusInternalServerError, "internal error")
}

// decodeJSON reads the request body into v, rejecting unknown fields and
// oversized payloads.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
