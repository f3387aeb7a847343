package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is the shared struct validator for request payloads.
var validate = validator.New()

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

// writeError emits the JSON error shape used across all endpoints.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, map[string]string{"error": msg}, status)
}

// notFoundHandler is the mux catch-all: unknown paths answer JSON, not the
// default plain-text body.
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, "not found", http.StatusNotFound)
}
