// Package response provides utilities for sending consistent HTTP responses.
// Success envelopes carry a message field; error envelopes add an error
// detail string.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the structured failure envelope returned by the API.
// Error carries the underlying detail, acceptable for an internal tool.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// If data is nil, only the status code is sent.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// Envelope is the structured success envelope. Every response carries a
// message; most also carry a data payload.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// RespondMessage sends a success envelope wrapping the payload.
func RespondMessage(w http.ResponseWriter, status int, message string, data any) {
	RespondJSON(w, status, Envelope{Message: message, Data: data})
}

// RespondError sends a failure envelope. The message should be a
// user-friendly description; detail can be an error string or empty.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
func RespondError(w http.ResponseWriter, status int, message, detail string) {
	RespondJSON(w, status, ErrorResponse{Message: message, Error: detail})
}
