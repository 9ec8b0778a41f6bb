package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/themelissanyc/melissa/app/models"
	"github.com/themelissanyc/melissa/app/repositories"
	"github.com/themelissanyc/melissa/app/services"
	"github.com/themelissanyc/melissa/pkg/bind"
	"github.com/themelissanyc/melissa/pkg/logger"
	"github.com/themelissanyc/melissa/pkg/metrics"
	"github.com/themelissanyc/melissa/pkg/response"
	"github.com/themelissanyc/melissa/pkg/router"
	"github.com/themelissanyc/melissa/pkg/validate"
)

type ContactController struct {
	contacts repositories.ContactRepository
	notify   *services.NotifyService
}

func NewContactController(contacts repositories.ContactRepository, notify *services.NotifyService) *ContactController {
	return &ContactController{contacts: contacts, notify: notify}
}

// Create handles POST /api/contacts, the public inquiry form. Status and
// source are set server-side regardless of what the body carries.
func (c *ContactController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ContactInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.ValidationError(w, []string{"Invalid request body"})
		return
	}

	messages := validate.Messages(errs)
	messages = append(messages, in.Validate()...)
	if len(messages) > 0 {
		response.ValidationError(w, messages)
		return
	}

	moveIn, err := validate.ParseDate(in.MoveInDate)
	if err != nil {
		response.ValidationError(w, []string{"Move-in date is required"})
		return
	}

	contact := &models.Contact{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		MoveInDate:  moveIn,
		BudgetRange: in.BudgetRange,
		Bedrooms:    in.Bedrooms,
		Message:     in.Message,
		Status:      models.StatusNew,
		Source:      "website",
	}

	if err := c.contacts.Create(r.Context(), contact); err != nil {
		logger.WithCtx(r.Context()).Error("contact create failed", "error", err)
		response.JSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Server error. Please try again later.",
		})
		return
	}

	metrics.InquiriesReceived.Inc()
	c.notify.InquiryReceived(contact)

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"message":   "Thank you for your inquiry! We will contact you within 24 hours.",
		"contactId": contact.ID.Hex(),
	})
}

// Index handles GET /api/contacts with optional status filter and
// 1-indexed pagination.
func (c *ContactController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	contacts, pagination, err := c.contacts.List(r.Context(), q.Get("status"), page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("contact listing failed", "error", err)
		c.serverError(w, "Error fetching contacts")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"contacts":   contacts,
		"pagination": pagination,
	})
}

// Show handles GET /api/contacts/{id}.
func (c *ContactController) Show(w http.ResponseWriter, r *http.Request) {
	contact, err := c.contacts.FindByID(r.Context(), router.Param(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		c.notFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("contact fetch failed", "error", err)
		c.serverError(w, "Error fetching contact")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"contact": contact,
	})
}

// Update handles PUT /api/contacts/{id}. Only status and notes are
// admin-editable; the inquiry itself is immutable.
func (c *ContactController) Update(w http.ResponseWriter, r *http.Request) {
	var in models.ContactUpdate
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.ValidationError(w, []string{"Invalid request body"})
		return
	}

	messages := validate.Messages(errs)
	messages = append(messages, in.Validate()...)
	if len(messages) > 0 {
		response.ValidationError(w, messages)
		return
	}

	contact, err := c.contacts.FindByID(r.Context(), router.Param(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		c.notFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("contact fetch failed", "error", err)
		c.serverError(w, "Error updating contact")
		return
	}

	if in.Status != "" {
		contact.Status = in.Status
	}
	if in.Notes != "" {
		contact.Notes = in.Notes
	}

	if err := c.contacts.Update(r.Context(), contact); err != nil {
		logger.WithCtx(r.Context()).Error("contact update failed", "error", err)
		c.serverError(w, "Error updating contact")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Contact updated successfully",
		"contact": contact,
	})
}

// Delete handles DELETE /api/contacts/{id}.
func (c *ContactController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.contacts.Delete(r.Context(), router.Param(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		c.notFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("contact delete failed", "error", err)
		c.serverError(w, "Error deleting contact")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Contact deleted successfully",
	})
}

func (c *ContactController) notFound(w http.ResponseWriter) {
	response.JSON(w, http.StatusNotFound, map[string]interface{}{
		"success": false,
		"message": "Contact not found",
	})
}

func (c *ContactController) serverError(w http.ResponseWriter, message string) {
	response.JSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
