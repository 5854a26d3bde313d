package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSON writes the payload with the given status. Encoding failures
// are logged; the status line has already gone out by then.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// WriteError maps the error onto its HTTP status via the sentinel chain.
func WriteError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
	}
	WriteJSON(w, status, map[string]string{"error": err.Error()})
}

// DecodeJSON reads the request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
