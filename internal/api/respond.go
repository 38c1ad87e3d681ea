package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gameswap/gameswap/internal/service"
	"github.com/gameswap/gameswap/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the core's sentinel errors to status codes. Unknown
// errors get a generic 500 so storage faults never leak internals.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrSwapNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, storage.ErrSwapRejected):
		// Deliberately generic: see storage.ErrSwapRejected.
		status, msg = http.StatusConflict, "could not create swap request"
	case errors.Is(err, storage.ErrSwapNotPending),
		errors.Is(err, storage.ErrItemNotActive),
		errors.Is(err, storage.ErrOwnershipChanged),
		errors.Is(err, storage.ErrAlreadyRated):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, storage.ErrNotRecipient),
		errors.Is(err, service.ErrBanned),
		errors.Is(err, service.ErrNotParticipant):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidStars),
		errors.Is(err, service.ErrInvalidDecision),
		errors.Is(err, service.ErrSwapNotCompleted),
		errors.Is(err, service.ErrTooManyPhotos):
		status, msg = http.StatusBadRequest, err.Error()
	default:
		slog.Error("Unhandled error", "error", err)
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
