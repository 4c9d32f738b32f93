package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evesrp/evesrp/internal/store"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// WriteJSON writes v as a JSON response with the given HTTP status code. A
// value that cannot be encoded is answered with a 500 error body instead,
// and the encoding error is returned.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "internal error", Code: "INTERNAL_ERROR"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return err
}

// writeJSON is WriteJSON without the error. An encoding failure has already
// been answered with a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	_ = WriteJSON(w, status, v)
}

// writeStoreError maps a store sentinel error to its status and code.
// Anything unrecognised is a 500 and its text is not exposed.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
	case errors.Is(err, store.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "FORBIDDEN")
	case errors.Is(err, store.ErrInvalidTransition), errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, store.ErrInvalidFilter), errors.Is(err, store.ErrInvalidPermission):
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	default:
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}
