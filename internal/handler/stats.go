package handler

import "net/http"

// Stats returns the family's activity dashboard numbers.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	stats, err := h.metrics.GetStats(r.Context(), user.FamilyID)
	if err != nil {
		respondRepoError(w, err, "")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
