package util

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v with status 200.
func WriteJSON(w http.ResponseWriter, v any) {
	WriteJSONStatus(w, http.StatusOK, v)
}

func WriteJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the JSON error envelope of the public endpoints.
type ErrorBody struct {
	Error  string            `json:"error" example:"submission failed"`
	Fields map[string]string `json:"fields,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	WriteJSONStatus(w, status, ErrorBody{Error: msg, Fields: fields})
}

// DecodeJSON reads at most maxBytes of a JSON body into v, rejecting unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
