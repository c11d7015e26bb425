package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/matthewbaird/dashgen/internal/config"
	"github.com/matthewbaird/dashgen/internal/planner"
	"github.com/matthewbaird/dashgen/internal/validate"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// readBody reads the request body, refusing bodies over maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return nil, false
	}
	return data, true
}

// planErrorToHTTP maps configuration, validation and planning errors to
// HTTP responses.
func planErrorToHTTP(w http.ResponseWriter, err error) {
	var verr *validate.Error
	switch {
	case errors.Is(err, config.ErrInvalid):
		writeError(w, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": err.Error(),
			"code":  "VALIDATION_ERROR",
			"rule":  verr.Rule,
			"path":  verr.Path,
		})
	case errors.Is(err, planner.ErrPathCollision):
		writeError(w, http.StatusConflict, "PATH_COLLISION", err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
