package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pantree/internal/repository"
)

// errorResponse is the error envelope for every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("handler: encode response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondRepoError maps repository errors onto API statuses. conflictMsg is
// used for ErrConflict; everything unexpected becomes a 500.
func respondRepoError(w http.ResponseWriter, err error, conflictMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, repository.ErrConflict):
		respondError(w, http.StatusBadRequest, conflictMsg)
	default:
		log.Printf("handler: repository error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
