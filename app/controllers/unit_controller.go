package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/themelissanyc/melissa/app/models"
	"github.com/themelissanyc/melissa/app/repositories"
	"github.com/themelissanyc/melissa/pkg/bind"
	"github.com/themelissanyc/melissa/pkg/logger"
	"github.com/themelissanyc/melissa/pkg/response"
	"github.com/themelissanyc/melissa/pkg/router"
	"github.com/themelissanyc/melissa/pkg/upload"
	"github.com/themelissanyc/melissa/pkg/validate"
)

// maxUnitImages caps one multi-file upload request.
const maxUnitImages = 10

type UnitController struct {
	units repositories.UnitRepository
}

func NewUnitController(units repositories.UnitRepository) *UnitController {
	return &UnitController{units: units}
}

// PublicIndex handles GET /api/units/public: available units, newest first,
// as a bare array.
func (c *UnitController) PublicIndex(w http.ResponseWriter, r *http.Request) {
	units, err := c.units.Available(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("public unit listing failed", "error", err)
		response.ServerError(w, "Error fetching units")
		return
	}
	response.JSON(w, http.StatusOK, units)
}

// PublicShow handles GET /api/units/public/{id}. Unavailable units are
// hidden here even when the id is real.
func (c *UnitController) PublicShow(w http.ResponseWriter, r *http.Request) {
	unit, err := c.units.FindAvailableByID(r.Context(), router.Param(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Unit not found or not available")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("public unit fetch failed", "error", err)
		response.ServerError(w, "Error fetching unit")
		return
	}
	response.JSON(w, http.StatusOK, unit)
}

// Index handles GET /api/units: every unit for the admin dashboard.
func (c *UnitController) Index(w http.ResponseWriter, r *http.Request) {
	units, err := c.units.All(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("unit listing failed", "error", err)
		response.ServerError(w, "Error fetching units")
		return
	}
	response.JSON(w, http.StatusOK, units)
}

// Show handles GET /api/units/{id}.
func (c *UnitController) Show(w http.ResponseWriter, r *http.Request) {
	unit, err := c.units.FindByID(r.Context(), router.Param(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Unit not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("unit fetch failed", "error", err)
		response.ServerError(w, "Error fetching unit")
		return
	}
	response.JSON(w, http.StatusOK, unit)
}

// Create handles POST /api/units.
func (c *UnitController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.UnitInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Error creating unit")
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, validate.Messages(errs))
		return
	}

	unit := models.NewUnit(&in)
	if err := c.units.Create(r.Context(), unit); err != nil {
		logger.WithCtx(r.Context()).Error("unit create failed", "error", err)
		response.ServerError(w, "Error creating unit")
		return
	}

	logger.WithCtx(r.Context()).Info("unit created", "unit", unit.UnitNumber)
	response.JSON(w, http.StatusCreated, unit)
}

// Update handles PUT /api/units/{id}. Absent fields keep their stored
// values; present fields are re-validated before the write.
func (c *UnitController) Update(w http.ResponseWriter, r *http.Request) {
	var in models.UnitUpdate
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Error updating unit")
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, validate.Messages(errs))
		return
	}

	unit, err := c.units.FindByID(r.Context(), router.Param(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Unit not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("unit fetch failed", "error", err)
		response.ServerError(w, "Error updating unit")
		return
	}

	unit.Apply(&in)
	if err := c.units.Update(r.Context(), unit); err != nil {
		logger.WithCtx(r.Context()).Error("unit update failed", "error", err)
		response.ServerError(w, "Error updating unit")
		return
	}

	response.JSON(w, http.StatusOK, unit)
}

// Delete handles DELETE /api/units/{id}.
func (c *UnitController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.units.Delete(r.Context(), router.Param(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Unit not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("unit delete failed", "error", err)
		response.ServerError(w, "Error deleting unit")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Unit deleted successfully"})
}

// UploadImage handles POST /api/units/upload-image (field "image").
func (c *UnitController) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, err := upload.Single(r, "image")
	if err != nil {
		writeUploadError(w, r, err, "No image file provided", "Error uploading image")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Image uploaded successfully",
		"imageUrl": file.URL,
		"filename": file.Filename,
	})
}

// UploadImages handles POST /api/units/upload-images (field "images").
func (c *UnitController) UploadImages(w http.ResponseWriter, r *http.Request) {
	files, err := upload.Multiple(r, "images", maxUnitImages)
	if err != nil {
		writeUploadError(w, r, err, "No image files provided", "Error uploading images")
		return
	}

	urls := make([]string, len(files))
	names := make([]string, len(files))
	for i, f := range files {
		urls[i] = f.URL
		names[i] = f.Filename
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message":   fmt.Sprintf("%d images uploaded successfully", len(files)),
		"imageUrls": urls,
		"filenames": names,
		"count":     len(files),
	})
}

// AddImages handles PUT /api/units/{id}/images: appends already-uploaded
// URLs to the unit, preserving their order.
func (c *UnitController) AddImages(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ImageURLs []string `json:"imageUrls"`
	}
	if _, err := bind.JSON(r, &in); err != nil || in.ImageURLs == nil {
		response.Error(w, http.StatusBadRequest, "imageUrls array is required")
		return
	}

	unit, err := c.units.AppendImages(r.Context(), router.Param(r, "id"), in.ImageURLs)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Unit not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("image append failed", "error", err)
		response.Error(w, http.StatusBadRequest, "Error adding images to unit")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message":     fmt.Sprintf("%d images added to unit successfully", len(in.ImageURLs)),
		"unit":        unit,
		"totalImages": len(unit.Images),
	})
}

// RemoveImage handles DELETE /api/units/{id}/images/{imageIndex}.
func (c *UnitController) RemoveImage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(router.Param(r, "imageIndex"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid image index")
		return
	}

	removed, remaining, err := c.units.RemoveImage(r.Context(), router.Param(r, "id"), index)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w, "Unit not found")
		return
	case errors.Is(err, repositories.ErrIndexOutOfRange):
		response.Error(w, http.StatusBadRequest, "Invalid image index")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("image remove failed", "error", err)
		response.Error(w, http.StatusBadRequest, "Error removing image from unit")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Image removed successfully",
		"removedImage":    removed,
		"remainingImages": remaining,
	})
}

// writeUploadError maps upload failures onto the right status and message.
func writeUploadError(w http.ResponseWriter, r *http.Request, err error, missingMsg, serverMsg string) {
	var reject *upload.RejectError
	switch {
	case errors.Is(err, upload.ErrNoFile):
		response.Error(w, http.StatusBadRequest, missingMsg)
	case errors.As(err, &reject):
		response.Error(w, http.StatusBadRequest, reject.Reason)
	default:
		logger.WithCtx(r.Context()).Error("upload failed", "error", err)
		response.ServerError(w, serverMsg)
	}
}
