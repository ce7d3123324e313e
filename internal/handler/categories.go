package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pantree/internal/repository"
)

// ListCategories returns the family's categories with item counts.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	categories, err := h.repo.ListCategories(r.Context(), user.FamilyID)
	if err != nil {
		respondRepoError(w, err, "")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	category, err := h.repo.CreateCategory(r.Context(), repository.CreateCategoryParams{
		Name:        req.Name,
		Description: req.Description,
		FamilyID:    user.FamilyID,
	})
	if err != nil {
		respondRepoError(w, err, "Category already exists")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"category": category})
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Name cannot be empty")
		return
	}

	category, err := h.repo.UpdateCategory(r.Context(), id, user.FamilyID, repository.UpdateCategoryParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondRepoError(w, err, "Category already exists")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"category": category})
}

// DeleteCategory removes an empty category. Categories that still hold
// items are refused.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteCategory(r.Context(), id, user.FamilyID); err != nil {
		respondRepoError(w, err, "Category still contains items")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
