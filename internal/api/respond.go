package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"renthub/internal/auth"
	"renthub/internal/chatbot"
	"renthub/internal/database"
	"renthub/internal/service"
)

// envelope is the JSON shape of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respond(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, envelope{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{Success: false, Message: message})
}

// respondServiceError maps domain errors onto HTTP statuses. Unknown errors
// are logged and hidden behind a generic 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, database.ErrEmailTaken),
		errors.Is(err, database.ErrDuplicatePending),
		errors.Is(err, database.ErrNotAvailable),
		errors.Is(err, database.ErrOwnProperty),
		errors.Is(err, database.ErrNotPending),
		errors.Is(err, database.ErrSelfRating):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrRatingNotAllowed):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatbot.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable, "assistant is not configured")
	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Str("method", r.Method).Msg("Request failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
