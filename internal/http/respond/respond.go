// Package respond writes JSON bodies and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/globetrotter/internal/auth"
	"github.com/MrJamesThe3rd/globetrotter/internal/catalog"
	"github.com/MrJamesThe3rd/globetrotter/internal/profile"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

// ErrForbidden is returned when the caller may read a resource but not
// change it.
var ErrForbidden = errors.New("forbidden")

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type validationResponse struct {
	Errors trip.FieldErrors `json:"errors"`
}

// Error writes the status matching err. Unexpected errors are logged and
// hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var fields trip.FieldErrors

	switch {
	case errors.As(err, &fields):
		JSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: fields})
	case errors.Is(err, auth.ErrUnauthenticated):
		http.Error(w, "authentication required", http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, trip.ErrNotFound), errors.Is(err, catalog.ErrNotFound), errors.Is(err, profile.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case store.IsRemote(err):
		slog.Error("store request failed", "error", err, "path", r.URL.Path)
		http.Error(w, "storage unavailable", http.StatusBadGateway)
	default:
		slog.Error("request failed", "error", err, "path", r.URL.Path)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
