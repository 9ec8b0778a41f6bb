// Package response writes the JSON shapes the Melissa API exposes. Error
// bodies always carry a "message" field; validation failures additionally
// carry the list of violated-field messages.
package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Error sends {"message": ...} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// ValidationError sends a 400 with the violated-field messages.
func ValidationError(w http.ResponseWriter, errs []string) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// ServerError sends a 500 with a generic message; detail belongs in the log,
// never in the body.
func ServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}
