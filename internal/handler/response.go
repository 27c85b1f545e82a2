// Package handler is the HTTP layer: it parses requests, calls the
// collection controllers, and translates domain errors into status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/snipvault/internal/apperror"
)

// ErrorResponse is the uniform error shape of every API endpoint.
// Fields is present only on validation errors and maps each offending
// field to its message.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeJSON sends a JSON response. Headers and status must go out before
// the first body byte, hence the ordering here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP representation.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError

	resp := ErrorResponse{Error: "internal", Message: "something went wrong"}
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
		resp.Error = "validation_failed"
	case errors.Is(err, apperror.ErrAuthRequired):
		status = http.StatusUnauthorized
		resp.Error = "auth_required"
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
		resp.Error = "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
		resp.Error = "not_found"
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
		resp.Error = "conflict"
	case errors.Is(err, apperror.ErrRemoteRead), errors.Is(err, apperror.ErrRemoteWrite):
		status = http.StatusBadGateway
		resp.Error = "store_unavailable"
	}

	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Fields = appErr.Fields
	} else if status != http.StatusInternalServerError {
		resp.Message = err.Error()
	}

	writeJSON(w, status, resp)
}
