package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"notekeep/internal/app"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResult writes the {success, message} payload every mutating endpoint
// answers with.
func writeResult(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, map[string]any{"success": success, "message": message})
}

// writeServiceError maps application errors to a status code and a
// user-facing failure payload. Unexpected errors become a generic 500;
// nothing propagates to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, app.ErrMissingFields), errors.Is(err, app.ErrMissingCredentials), errors.Is(err, app.ErrUsernameTaken):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, app.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, app.ErrNotOwner):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, app.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	}

	writeResult(w, status, false, message)
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}
