// Package httpx holds the JSON response helpers shared by all handlers.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/confeitaria/internal/validation"
)

// errorBody is the error envelope every endpoint emits: a machine-readable
// code plus the per-field violations the form screens render.
type errorBody struct {
	Error      string `json:"error"`
	Violations any    `json:"violations,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, code string, violations any) {
	JSON(w, status, errorBody{Error: code, Violations: violations})
}

// JSONViolations rejects a form submission with the collected per-field
// violations.
func JSONViolations(w http.ResponseWriter, v validation.Violations) {
	JSONError(w, http.StatusBadRequest, "invalid_fields", v)
}
