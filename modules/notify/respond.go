package notify

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/validator"
	"github.com/dmitrymomot/notifykit/pkg/webhook"
)

// errorBody is the error envelope every endpoint shares.
type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string, details map[string][]string) {
	respondJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// respondServiceError maps domain errors onto the module's error taxonomy:
// validation failures carry field detail, ownership failures collapse into a
// generic not-found, everything else is an opaque internal error.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case validator.IsValidationError(err):
		respondError(w, http.StatusBadRequest, "validation_failed", "invalid request",
			validator.ExtractValidationErrors(err).FieldMap())
	case notification.IsNotFound(err), webhook.IsNotFound(err):
		respondError(w, http.StatusNotFound, "not_found", "resource not found", nil)
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
