package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starling/noteboard/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// respondError maps the application error taxonomy to HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrEmptyInput),
		errors.Is(err, apperr.ErrInvalidPath):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
