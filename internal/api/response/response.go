// Package response writes the uniform JSON envelope used by every endpoint:
// {success, data?, message?, error?}.
package response

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Meta carries pagination info on collection responses.
type Meta struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
}

func JSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data, Message: message})
}

func Message(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

func Collection(w http.ResponseWriter, data any, meta Meta) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Meta: &meta})
}

// Error writes a failure envelope. code is a stable machine-readable tag;
// message is for humans. Raw driver errors never travel through here.
func Error(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Success: false, Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
