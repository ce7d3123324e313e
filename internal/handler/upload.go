package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"pantree/internal/media"
	"pantree/internal/metrics"
	"pantree/internal/pipeline"
)

// Upload optimizes a multipart image and stores it in media storage. The
// response carries the delivery URL, public id, and the optimized
// dimensions. An optional itemId form field attaches the image to an item.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, h.optimizer(), h.cfg.UploadTimeout, false)
}

// UploadDirect is the looser variant for large sources: a 10MB limit, a
// shorter timeout, and when optimization itself fails the original bytes
// are stored unchanged rather than rejecting the request.
func (h *Handler) UploadDirect(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, h.directOptimizer(), h.cfg.DirectUploadTimeout, true)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, opt *pipeline.Optimizer, timeout time.Duration, fallbackToOriginal bool) {
	user := currentUser(r)

	// Slack over the pipeline limit so oversize files reach the pipeline's
	// own size check and get its descriptive message.
	r.Body = http.MaxBytesReader(w, r.Body, opt.MaxBytes+1024*1024)
	if err := r.ParseMultipartForm(opt.MaxBytes + 1024*1024); err != nil {
		respondError(w, http.StatusBadRequest, "Could not parse upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Could not read upload")
		return
	}

	candidate := pipeline.Candidate{
		Data:        data,
		ContentType: uploadContentType(header.Header.Get("Content-Type"), header.Filename),
		Filename:    header.Filename,
	}

	optimized, err := opt.Optimize(candidate)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrUnsupportedType), errors.Is(err, pipeline.ErrTooLarge):
			respondError(w, http.StatusBadRequest, err.Error())
			return
		case fallbackToOriginal:
			// Store the original; a failed optimization should not lose
			// the user's image on the direct path.
			log.Printf("handler: optimization failed, uploading original %q: %v", header.Filename, err)
			optimized = &pipeline.OptimizedImage{Payload: data, ByteSize: len(data)}
			// Best effort; a failed probe leaves the dimensions zero.
			if dims, probeErr := pipeline.ProbeDimensions(data, candidate.ContentType); probeErr == nil {
				optimized.Dimensions = dims
			}
		case errors.Is(err, pipeline.ErrDecode), errors.Is(err, pipeline.ErrInvalidDimensions):
			respondError(w, http.StatusBadRequest, "Invalid image file")
			return
		default:
			log.Printf("handler: optimize %q: %v", header.Filename, err)
			respondError(w, http.StatusInternalServerError, "Image processing failed")
			return
		}
	}

	folder, err := h.familyFolder(r.Context(), user.FamilyID)
	if err != nil {
		respondRepoError(w, err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	result, err := h.media.Upload(ctx, optimized.Payload, candidate.ContentType, folder)
	if err != nil {
		if errors.Is(err, media.ErrUploadTimeout) {
			respondError(w, http.StatusRequestTimeout, "Upload timed out")
			return
		}
		log.Printf("handler: upload to media storage: %v", err)
		respondError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	if itemID := r.FormValue("itemId"); itemID != "" {
		if err := h.repo.SetItemImage(r.Context(), itemID, user.FamilyID, result.URL, result.PublicID); err != nil {
			log.Printf("handler: attach image %s to item %s: %v", result.PublicID, itemID, err)
		}
	}

	h.metrics.LogEvent(r.Context(), metrics.EventImageUpload, user.FamilyID, user.ID, "", "")

	respondJSON(w, http.StatusOK, map[string]any{
		"url":        result.URL,
		"publicId":   result.PublicID,
		"dimensions": optimized.Dimensions,
		"bytes":      optimized.ByteSize,
	})
}

// familyFolder scopes uploads under the family admin's username.
func (h *Handler) familyFolder(ctx context.Context, familyID string) (string, error) {
	admin, err := h.repo.FamilyAdminUsername(ctx, familyID)
	if err != nil {
		return "", err
	}
	return h.cfg.MediaFolder + "/" + admin, nil
}

// uploadContentType resolves the candidate's media type, preferring the
// part header and falling back to the filename extension.
func uploadContentType(declared, filename string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(filename))); byExt != "" {
		return byExt
	}
	return declared
}
