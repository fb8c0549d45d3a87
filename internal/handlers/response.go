package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/middleware"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/internal/services"
	"github.com/thedirecttree/directory-gateway/pkg/directoryapi"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Prompt  string            `json:"prompt,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// confirmParam is the query parameter that answers a confirmation prompt
const confirmParam = "confirm"

// confirmation turns ?confirm=true into a Confirmer
func confirmation(c *gin.Context) services.Confirmer {
	return services.Confirmed(c.Query(confirmParam) == "true")
}

// viewState fetches the session view state or writes a 500
func viewState(c *gin.Context, logger *logrus.Logger) (*services.ViewState, bool) {
	vs, err := middleware.GetViewState(c)
	if err != nil {
		logger.WithField("path", c.Request.URL.Path).WithError(err).Error("Handler reached without a session")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Session is not available",
		})
		return nil, false
	}
	return vs, true
}

// bindForm decodes the JSON body into form or writes a 400
func bindForm(c *gin.Context, form any) bool {
	if err := c.ShouldBindJSON(form); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}

// respondError maps a service error to a status and body. Server-reported
// errors keep the backend status and detail.
func respondError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	status, body := classify(err, fallback)

	entry := logger.WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error(fallback)
	} else {
		entry.Info(fallback)
	}

	c.JSON(status, body)
}

func classify(err error, fallback string) (int, ErrorResponse) {
	body := ErrorResponse{Message: services.UserMessage(err, fallback)}

	var confirmErr *services.ConfirmationError
	var verrs models.ValidationErrors
	var apiErr *directoryapi.APIError
	var transportErr *directoryapi.TransportError

	switch {
	case errors.As(err, &confirmErr):
		body.Error, body.Code, body.Prompt = "confirmation_required", "CONFIRMATION_REQUIRED", confirmErr.Prompt
		return http.StatusPreconditionRequired, body
	case errors.Is(err, services.ErrNotAuthenticated):
		body.Error, body.Code = "unauthorized", "NOT_AUTHENTICATED"
		return http.StatusUnauthorized, body
	case errors.As(err, &verrs):
		body.Error, body.Details = "validation_error", verrs.Fields()
		if errors.Is(err, services.ErrIncompleteBusiness) {
			body.Code = "INCOMPLETE_BUSINESS"
		}
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, services.ErrMissingToken), errors.Is(err, services.ErrNoFiles):
		body.Error = "invalid_request"
		return http.StatusBadRequest, body
	case errors.Is(err, services.ErrCheckoutNotFound):
		body.Error = "not_found"
		return http.StatusNotFound, body
	case errors.Is(err, services.ErrPaymentNotAllowed),
		errors.Is(err, services.ErrSubscriptionActive),
		errors.Is(err, services.ErrNothingToCancel):
		body.Error = "conflict"
		return http.StatusConflict, body
	case errors.Is(err, services.ErrNoApprovalURL):
		body.Error = "payment_unavailable"
		return http.StatusBadGateway, body
	case errors.Is(err, services.ErrNoListingID):
		body.Error = "backend_error"
		return http.StatusBadGateway, body
	case errors.As(err, &apiErr):
		// client errors pass through, backend failures become 502
		body.Error = "backend_error"
		if apiErr.Status >= http.StatusBadRequest && apiErr.Status < http.StatusInternalServerError {
			return apiErr.Status, body
		}
		return http.StatusBadGateway, body
	case errors.As(err, &transportErr):
		body.Error = "backend_unreachable"
		return http.StatusBadGateway, body
	default:
		body.Error = "internal_error"
		return http.StatusInternalServerError, body
	}
}
