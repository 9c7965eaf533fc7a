package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

// timestampFormat matches JavaScript's Date.toISOString.
const timestampFormat = "2006-01-02T15:04:05.000Z"

// Envelope is the body of every JSON response.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Timestamp returns the current time in envelope format.
func Timestamp() string {
	return time.Now().UTC().Format(timestampFormat)
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// SendSuccess writes a successful envelope.
func SendSuccess(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, Envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: Timestamp(),
	})
}

// SendCreated writes a 201 envelope.
func SendCreated(w http.ResponseWriter, data any, message string) {
	SendSuccess(w, http.StatusCreated, data, message)
}

// SendNoContent writes an empty 204.
func SendNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// SendError writes a failed envelope.
func SendError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{
		Success:   false,
		Error:     message,
		Timestamp: Timestamp(),
	})
}
