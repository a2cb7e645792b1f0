package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/tournament"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	AdminKey ContextKey = "adminID"
)

// AdminFromContext returns the admin id stored by the admin middleware.
func AdminFromContext(r *http.Request) int64 {
	id, _ := r.Context().Value(AdminKey).(int64)
	return id
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tournament.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tournament.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, tournament.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", tournament.ErrInvalidInput, err)
	}
	return nil
}

func parseID(value, name string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", tournament.ErrInvalidInput, name, value)
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	return parseID(r.PathValue("id"), "id")
}
