package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/internal/services"
)

// CheckoutHandler handles the create-then-pay listing flow
type CheckoutHandler struct {
	checkouts *services.CheckoutService
	logger    *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkouts *services.CheckoutService, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkouts: checkouts, logger: logger}
}

// paymentStepFailure is returned when the listing exists but no payment
// session could be opened. The checkout id is what the client retries with.
type paymentStepFailure struct {
	ErrorResponse
	Checkout *models.Checkout `json:"checkout"`
	Listing  any              `json:"listing,omitempty"`
}

// CreateApartment handles POST /apartments
func (h *CheckoutHandler) CreateApartment(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	form := models.NewApartmentForm()
	if !bindForm(c, &form) {
		return
	}

	result, err := h.checkouts.CreateApartment(c.Request.Context(), vs, form)
	h.respondCheckout(c, result, err, http.StatusCreated, "Failed to create apartment listing")
}

// CreateEvent handles POST /events
func (h *CheckoutHandler) CreateEvent(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	var form models.EventForm
	if !bindForm(c, &form) {
		return
	}

	result, err := h.checkouts.CreateEvent(c.Request.Context(), vs, form)
	h.respondCheckout(c, result, err, http.StatusCreated, "Failed to create event listing")
}

// ListCheckouts handles GET /checkouts
func (h *CheckoutHandler) ListCheckouts(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	checkouts, err := h.checkouts.ListCheckouts(c.Request.Context(), vs)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load checkouts")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"checkouts": checkouts,
		"count":     len(checkouts),
	})
}

// RetryPayment handles POST /checkouts/:id/retry-payment
func (h *CheckoutHandler) RetryPayment(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	result, err := h.checkouts.RetryPayment(c.Request.Context(), vs, c.Param("id"))
	h.respondCheckout(c, result, err, http.StatusOK, "Failed to request payment")
}

// PaymentSuccess handles GET /payment/success
func (h *CheckoutHandler) PaymentSuccess(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	checkout, err := h.checkouts.ConfirmPayment(c.Request.Context(), vs, c.Request.URL.Query())
	if err != nil {
		respondError(c, h.logger, err, "Payment could not be confirmed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Payment successful! Your listing is now live.",
		"checkout": checkout,
	})
}

// PaymentCancel handles GET /payment/cancel
func (h *CheckoutHandler) PaymentCancel(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	checkout, err := h.checkouts.CancelPayment(c.Request.Context(), vs, c.Request.URL.Query())
	if err != nil {
		respondError(c, h.logger, err, "Payment cancellation could not be recorded")
		return
	}

	message := "Payment was cancelled. You can retry the payment from your checkouts."
	if checkout.State == models.CheckoutPaymentConfirmed {
		message = "This listing has already been paid for."
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  message,
		"checkout": checkout,
	})
}

func (h *CheckoutHandler) respondCheckout(c *gin.Context, result *services.CheckoutResult, err error, okStatus int, fallback string) {
	if err == nil {
		c.JSON(okStatus, result)
		return
	}
	if result == nil || result.Checkout == nil {
		respondError(c, h.logger, err, fallback)
		return
	}

	status, body := classify(err, fallback)
	h.logger.WithFields(logrus.Fields{
		"checkout_id": result.Checkout.ID,
		"state":       result.Checkout.State,
		"status":      status,
	}).WithError(err).Warn("Checkout left awaiting payment")
	c.JSON(status, paymentStepFailure{
		ErrorResponse: body,
		Checkout:      result.Checkout,
		Listing:       result.Listing,
	})
}
