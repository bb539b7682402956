// Package httputil centralizes JSON response envelopes so every handler
// renders results and errors the same way.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "refugeflow/pkg/domain-errors"
)

// WriteJSON renders v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Internal
// error descriptions are withheld from the response body; client errors keep
// theirs so callers can correct the request.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		if desc := dErrors.DescriptionOf(err); desc != "" {
			body["error_description"] = desc
		}
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
