package handler

import (
	"encoding/json"
	"net/http"
)

// successEnvelope wraps every successful response.
type successEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// errorEnvelope wraps every failure; it carries no data key.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeSuccess writes {"success":true,"message":...,"data":...}.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Message: message, Data: data})
}

// writeError writes {"success":false,"message":...}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Success: false, Message: message})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
