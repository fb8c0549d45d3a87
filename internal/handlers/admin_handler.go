package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/internal/services"
)

// AdminHandler handles the moderation dashboard. Every state-changing
// action needs ?confirm=true.
type AdminHandler struct {
	moderation *services.ModerationService
	logger     *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(moderation *services.ModerationService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{moderation: moderation, logger: logger}
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	view, err := h.moderation.Dashboard(c.Request.Context(), vs)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load moderation queues")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ApproveBusiness handles PUT /admin/businesses/:id/approve
func (h *AdminHandler) ApproveBusiness(c *gin.Context) {
	h.moderate(c, h.moderation.ApproveBusiness, "Business approved", "Failed to approve business")
}

// RejectBusiness handles PUT /admin/businesses/:id/reject
func (h *AdminHandler) RejectBusiness(c *gin.Context) {
	h.moderate(c, h.moderation.RejectBusiness, "Business rejected", "Failed to reject business")
}

// ApproveReview handles PUT /admin/reviews/:id/approve
func (h *AdminHandler) ApproveReview(c *gin.Context) {
	h.moderate(c, h.moderation.ApproveReview, "Review approved", "Failed to approve review")
}

// PromoteUser handles POST /admin/promote
func (h *AdminHandler) PromoteUser(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	var form models.PromoteForm
	if !bindForm(c, &form) {
		return
	}

	resp, err := h.moderation.PromoteUser(c.Request.Context(), vs, form)
	if err != nil {
		respondError(c, h.logger, err, "Failed to promote user")
		return
	}
	c.JSON(http.StatusOK, resp)
}

type moderationAction func(ctx context.Context, vs *services.ViewState, id string, c services.Confirmer) (*services.AdminView, error)

func (h *AdminHandler) moderate(c *gin.Context, action moderationAction, done, fallback string) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	view, err := action(c.Request.Context(), vs, c.Param("id"), confirmation(c))
	if err != nil {
		respondError(c, h.logger, err, fallback)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": done,
		"admin":   view,
	})
}
