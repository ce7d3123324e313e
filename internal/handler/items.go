package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pantree/internal/media"
	"pantree/internal/metrics"
	"pantree/internal/repository"
)

// ListItems returns the family's items, optionally filtered by category,
// search text, or low-stock state.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	q := r.URL.Query()

	items, err := h.repo.ListItems(r.Context(), user.FamilyID, repository.ItemFilter{
		CategoryID: q.Get("category"),
		Search:     q.Get("search"),
		LowStock:   q.Get("lowStock") == "true",
	})
	if err != nil {
		respondRepoError(w, err, "")
		return
	}
	if items == nil {
		items = []repository.Item{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Quantity    int    `json:"quantity"`
	Threshold   int    `json:"threshold"`
	Notes       string `json:"notes"`
	CategoryID  string `json:"categoryId"`
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.CategoryID == "" {
		respondError(w, http.StatusBadRequest, "Name and category are required")
		return
	}

	// Category must belong to the caller's family.
	if _, err := h.repo.GetCategory(r.Context(), req.CategoryID, user.FamilyID); err != nil {
		respondRepoError(w, err, "")
		return
	}

	item, err := h.repo.CreateItem(r.Context(), repository.CreateItemParams{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Quantity:    req.Quantity,
		Threshold:   req.Threshold,
		Notes:       req.Notes,
		CategoryID:  req.CategoryID,
		FamilyID:    user.FamilyID,
		CreatedBy:   user.ID,
	})
	if err != nil {
		respondRepoError(w, err, "")
		return
	}

	h.metrics.LogEvent(r.Context(), metrics.EventItemCreated, user.FamilyID, user.ID, item.ID, item.CategoryID)
	respondJSON(w, http.StatusCreated, map[string]any{"item": item})
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	item, err := h.repo.GetItem(r.Context(), chi.URLParam(r, "id"), user.FamilyID)
	if err != nil {
		respondRepoError(w, err, "")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"item": item})
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	Quantity    *int    `json:"quantity"`
	Threshold   *int    `json:"threshold"`
	Notes       *string `json:"notes"`
	CategoryID  *string `json:"categoryId"`
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Name cannot be empty")
		return
	}
	if req.CategoryID != nil {
		if _, err := h.repo.GetCategory(r.Context(), *req.CategoryID, user.FamilyID); err != nil {
			respondRepoError(w, err, "")
			return
		}
	}

	item, err := h.repo.UpdateItem(r.Context(), id, user.FamilyID, repository.UpdateItemParams{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Quantity:    req.Quantity,
		Threshold:   req.Threshold,
		Notes:       req.Notes,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondRepoError(w, err, "")
		return
	}

	h.metrics.LogEvent(r.Context(), metrics.EventItemUpdated, user.FamilyID, user.ID, item.ID, item.CategoryID)
	respondJSON(w, http.StatusOK, map[string]any{"item": item})
}

// DeleteItem removes an item and queues its image, if any, for deletion
// from media storage.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	item, err := h.repo.GetItem(r.Context(), id, user.FamilyID)
	if err != nil {
		respondRepoError(w, err, "")
		return
	}

	if err := h.repo.DeleteItem(r.Context(), id, user.FamilyID); err != nil {
		respondRepoError(w, err, "")
		return
	}

	if item.ImagePublicID != "" {
		if err := h.repo.EnqueueMediaDeletion(r.Context(), item.ImagePublicID); err != nil {
			log.Printf("handler: enqueue media deletion for %s: %v", item.ImagePublicID, err)
		} else if h.wakeWorker != nil {
			h.wakeWorker()
		}
	}

	h.metrics.LogEvent(r.Context(), metrics.EventItemDeleted, user.FamilyID, user.ID, item.ID, item.CategoryID)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

type consumeRequest struct {
	Amount int `json:"amount"`
}

// ConsumeItem decrements quantity. Consuming more than is available is
// rejected; the floor of zero only guards concurrent races.
func (h *Handler) ConsumeItem(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	req := consumeRequest{Amount: 1}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Amount < 1 {
		respondError(w, http.StatusBadRequest, "Amount must be at least 1")
		return
	}

	item, err := h.repo.GetItem(r.Context(), id, user.FamilyID)
	if err != nil {
		respondRepoError(w, err, "")
		return
	}
	if item.Quantity < req.Amount {
		respondError(w, http.StatusBadRequest, "Not enough quantity available")
		return
	}

	item, err = h.repo.ConsumeItem(r.Context(), id, user.FamilyID, req.Amount)
	if err != nil {
		respondRepoError(w, err, "")
		return
	}

	h.metrics.LogEvent(r.Context(), metrics.EventItemConsumed, user.FamilyID, user.ID, item.ID, item.CategoryID)
	respondJSON(w, http.StatusOK, map[string]any{
		"item":           item,
		"consumedAmount": req.Amount,
		"isOutOfStock":   item.Quantity == 0,
	})
}

type deleteImageRequest struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
}

// DeleteItemImage queues an uploaded image for removal from media storage
// and clears the reference from any item carrying it. Accepts either the
// public id directly or a delivery URL to extract it from.
func (h *Handler) DeleteItemImage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req deleteImageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	publicID := req.PublicID
	if publicID == "" && req.URL != "" {
		id, ok := media.ExtractPublicID(req.URL)
		if !ok {
			respondError(w, http.StatusBadRequest, "Could not extract public id from URL")
			return
		}
		publicID = id
	}
	if publicID == "" {
		respondError(w, http.StatusBadRequest, "publicId or url is required")
		return
	}

	if err := h.repo.EnqueueMediaDeletion(r.Context(), publicID); err != nil {
		respondRepoError(w, err, "")
		return
	}
	if err := h.repo.ClearItemImage(r.Context(), user.FamilyID, publicID); err != nil {
		log.Printf("handler: clear item image %s: %v", publicID, err)
	}
	if h.wakeWorker != nil {
		h.wakeWorker()
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Image deletion queued"})
}
