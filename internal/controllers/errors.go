package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pow3r/cashout/internal/wizard"
)

// StatusForError maps wizard errors to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, wizard.ErrFlowNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrConflict):
		return http.StatusConflict
	case wizard.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
