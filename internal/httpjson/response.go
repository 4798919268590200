package httpjson

import (
	"encoding/json"
	"net/http"
)

// APIError is the single error envelope every endpoint returns; the admin UI
// reads only the message field.
type APIError struct {
	Message string `json:"message"`
}

// WriteJSON writes v as the response body. Encoding errors are ignored: the
// status line is already on the wire and payloads here are plain structs.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes an APIError with the given status.
func Fail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, APIError{Message: msg})
}
