package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WriteJSON writes resp with the given status. An encoding failure is only
// logged; the status line is already on the wire by then.
func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[response] encode failed: %v", err)
	}
}

// GetStringValue dereferences a nullable string, empty when nil.
func GetStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
