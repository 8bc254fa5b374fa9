// Package middleware provides HTTP middleware for the Inkpost API.
package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody mirrors the handler package's failure envelope.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeError writes a failure envelope. Middleware short-circuits before
// handlers run, so it carries its own writer.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Success: false, Message: message})
}
