package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"progress-tracker-go/internal/logger"
	"progress-tracker-go/internal/services"
	"progress-tracker-go/internal/validation"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, kind, message string) {
	WriteJSON(w, status, ErrorResponse{Error: kind, Message: message})
}

func writeInvalid(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:   string(services.KindInvalidInput),
		Message: "Validation Error",
		Details: fields,
	})
}

// writeServiceError renders err using the service taxonomy. Anything
// outside it is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		writeInvalid(w, fields)
		return
	}
	var serr services.ServiceError
	if errors.As(err, &serr) {
		WriteJSON(w, serr.Status, ErrorResponse{
			Error:   string(serr.Kind),
			Message: serr.Message,
			Details: serr.Fields,
		})
		return
	}
	logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	WriteError(w, http.StatusInternalServerError, "internal", "Internal server error")
}
