package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/internal/services"
)

// BusinessHandler handles reviews, appointments and owner onboarding
type BusinessHandler struct {
	businesses *services.BusinessService
	logger     *logrus.Logger
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businesses *services.BusinessService, logger *logrus.Logger) *BusinessHandler {
	return &BusinessHandler{businesses: businesses, logger: logger}
}

// CreateReview handles POST /business/:id/reviews
func (h *BusinessHandler) CreateReview(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	var form models.ReviewForm
	if !bindForm(c, &form) {
		return
	}
	form.BusinessID = c.Param("id")

	review, err := h.businesses.CreateReview(c.Request.Context(), vs, form)
	if err != nil {
		respondError(c, h.logger, err, "Failed to submit review")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted and awaiting approval",
		"review":  review,
	})
}

// BookAppointment handles POST /business/:id/appointments
func (h *BusinessHandler) BookAppointment(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	var form models.AppointmentForm
	if !bindForm(c, &form) {
		return
	}
	form.BusinessID = c.Param("id")

	appt, err := h.businesses.BookAppointment(c.Request.Context(), vs, form)
	if err != nil {
		respondError(c, h.logger, err, "Failed to book appointment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment requested",
		"appointment": appt,
	})
}

// CreateBusiness handles POST /dashboard/business
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	var form models.BusinessForm
	if !bindForm(c, &form) {
		return
	}

	business, err := h.businesses.CreateBusiness(c.Request.Context(), vs, form)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create business")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Business submitted for approval",
		"business": business,
	})
}

// Appointments handles GET /dashboard/appointments?business_id=
func (h *BusinessHandler) Appointments(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	businessID, ok := requireBusinessID(c)
	if !ok {
		return
	}

	appts, err := h.businesses.Appointments(c.Request.Context(), vs, businessID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load appointments")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"appointments": appts,
		"count":        len(appts),
	})
}

// requireBusinessID reads the business_id query parameter or writes a 400
func requireBusinessID(c *gin.Context) (string, bool) {
	id := c.Query("business_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "business_id is required",
		})
		return "", false
	}
	return id, true
}
