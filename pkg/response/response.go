// Package response renders the API's JSON envelope. Successful responses
// carry data (and optional meta), failures carry a machine-readable error
// code next to a human-readable message.
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the top-level JSON response structure.
type Envelope struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// JSON writes data inside the envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Data: data})
}

// JSONMeta writes data and metadata inside the envelope.
func JSONMeta(w http.ResponseWriter, status int, data any, meta map[string]any) {
	write(w, status, Envelope{Data: data, Meta: meta})
}

// Error writes an error envelope with the given status, code, and message.
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Envelope{Error: &ErrorDetail{Code: code, Message: message}})
}

// ValidationError writes a 422 envelope with per-field error details.
func ValidationError(w http.ResponseWriter, details map[string][]string) {
	write(w, http.StatusUnprocessableEntity, Envelope{Error: &ErrorDetail{
		Code:    "validation_error",
		Message: "validation failed",
		Details: details,
	}})
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) // headers are already sent, nothing to do on encode failure
}
