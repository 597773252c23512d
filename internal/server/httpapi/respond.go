// Package httpapi exposes the tracker over HTTP with chi. Reads return
// the record synchronously; mutations return 202 with the queued job id.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/carcare/internal/common"
	"github.com/dmitrijs2005/carcare/internal/server/writequeue"
)

// decodeJSON reads the request body into v. Any failure, syntactic or
// a field-level coercion error, surfaces as a validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return err
		}
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAccepted acknowledges a queued mutation. The effect is eventual;
// the job id lets the caller correlate failures via the queue status
// endpoint.
func writeAccepted(w http.ResponseWriter, h writequeue.Handle) {
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"job_id": h.ID,
	})
}

// writeError maps the service error taxonomy to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, common.ErrorValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, common.ErrorInsufficientData):
		status = http.StatusUnprocessableEntity
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
