package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/themelissanyc/melissa/app/models"
	"github.com/themelissanyc/melissa/app/repositories"
	"github.com/themelissanyc/melissa/pkg/bind"
	"github.com/themelissanyc/melissa/pkg/logger"
	"github.com/themelissanyc/melissa/pkg/response"
	"github.com/themelissanyc/melissa/pkg/router"
	"github.com/themelissanyc/melissa/pkg/storage"
	"github.com/themelissanyc/melissa/pkg/upload"
	"github.com/themelissanyc/melissa/pkg/validate"
)

type GalleryController struct {
	gallery repositories.GalleryRepository
}

func NewGalleryController(gallery repositories.GalleryRepository) *GalleryController {
	return &GalleryController{gallery: gallery}
}

// PublicIndex handles GET /api/gallery/public: active items as a bare
// array, optionally filtered by category.
func (c *GalleryController) PublicIndex(w http.ResponseWriter, r *http.Request) {
	items, err := c.gallery.Active(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		logger.WithCtx(r.Context()).Error("public gallery listing failed", "error", err)
		c.serverError(w, "Error fetching gallery images")
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// Index handles GET /api/gallery for the admin dashboard, with optional
// category and isActive filters.
func (c *GalleryController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var isActive *bool
	if raw := q.Get("isActive"); raw != "" {
		v := raw == "true"
		isActive = &v
	}

	items, err := c.gallery.List(r.Context(), q.Get("category"), isActive)
	if err != nil {
		logger.WithCtx(r.Context()).Error("gallery listing failed", "error", err)
		c.serverError(w, "Error fetching gallery images")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"galleryItems": items,
	})
}

// Upload handles POST /api/gallery/upload: a multipart image plus metadata
// fields, creating the gallery document in one step.
func (c *GalleryController) Upload(w http.ResponseWriter, r *http.Request) {
	file, err := upload.Single(r, "image")
	if err != nil {
		if errors.Is(err, upload.ErrNoFile) {
			response.JSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"message": "No image file provided",
			})
			return
		}
		var reject *upload.RejectError
		if errors.As(err, &reject) {
			response.JSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"message": reject.Reason,
			})
			return
		}
		logger.WithCtx(r.Context()).Error("gallery upload failed", "error", err)
		c.serverError(w, "Error uploading gallery image")
		return
	}

	in := models.GalleryUploadInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		SortOrder:   r.FormValue("sortOrder"),
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		c.discardUpload(r.Context(), file.Filename)
		response.ValidationError(w, validate.Messages(errs))
		return
	}

	item := &models.GalleryItem{
		Title:     "Gallery Image",
		ImageURL:  file.URL,
		Category:  models.DefaultGalleryCategory,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if in.Title != "" {
		item.Title = in.Title
	}
	if in.Description != "" {
		item.Description = in.Description
	}
	if in.Category != "" {
		item.Category = in.Category
	}
	if in.SortOrder != "" {
		item.SortOrder, _ = strconv.Atoi(in.SortOrder)
	}

	if msgs := item.Validate(); len(msgs) > 0 {
		c.discardUpload(r.Context(), file.Filename)
		response.ValidationError(w, msgs)
		return
	}

	if err := c.gallery.Create(r.Context(), item); err != nil {
		c.discardUpload(r.Context(), file.Filename)
		logger.WithCtx(r.Context()).Error("gallery create failed", "error", err)
		c.serverError(w, "Error uploading gallery image")
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     "Gallery image uploaded successfully",
		"galleryItem": item,
	})
}

// Update handles PUT /api/gallery/{id}.
func (c *GalleryController) Update(w http.ResponseWriter, r *http.Request) {
	var in models.GalleryUpdate
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.ValidationError(w, []string{"Invalid request body"})
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, validate.Messages(errs))
		return
	}

	item, err := c.gallery.FindByID(r.Context(), router.Param(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		c.notFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("gallery fetch failed", "error", err)
		c.serverError(w, "Error updating gallery item")
		return
	}

	item.Apply(&in)
	if msgs := item.Validate(); len(msgs) > 0 {
		response.ValidationError(w, msgs)
		return
	}

	if err := c.gallery.Update(r.Context(), item); err != nil {
		logger.WithCtx(r.Context()).Error("gallery update failed", "error", err)
		c.serverError(w, "Error updating gallery item")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Gallery item updated successfully",
		"galleryItem": item,
	})
}

// Delete handles DELETE /api/gallery/{id}.
func (c *GalleryController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.gallery.Delete(r.Context(), router.Param(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		c.notFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("gallery delete failed", "error", err)
		c.serverError(w, "Error deleting gallery item")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Gallery item deleted successfully",
	})
}

// discardUpload removes a stored file whose document never made it to the
// database. Best effort; a leftover file only wastes disk.
func (c *GalleryController) discardUpload(ctx context.Context, filename string) {
	if disk := storage.Default(); disk != nil {
		_ = disk.Delete(ctx, filename)
	}
}

func (c *GalleryController) notFound(w http.ResponseWriter) {
	response.JSON(w, http.StatusNotFound, map[string]interface{}{
		"success": false,
		"message": "Gallery item not found",
	})
}

func (c *GalleryController) serverError(w http.ResponseWriter, message string) {
	response.JSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
