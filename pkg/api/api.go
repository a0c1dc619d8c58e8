// Package api provides the request/response contracts of the HTTP surface
// and standardized helpers for writing JSON responses. It decouples the API
// structure from the internal domain models.
package api

import (
	"encoding/json"
	"net/http"
)

// Success sends a successful HTTP response with optional JSON data.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error sends an error response with a consistent JSON format.
func Error(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
