package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/internal/services"
)

// AuthHandler handles register, login, logout and email verification
type AuthHandler struct {
	auth         *services.AuthService
	verification *services.VerificationService
	views        *services.ViewRegistry
	logger       *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService, verification *services.VerificationService, views *services.ViewRegistry, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		verification: verification,
		views:        views,
		logger:       logger,
	}
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	var form models.RegisterForm
	if !bindForm(c, &form) {
		return
	}

	result, err := h.auth.Register(c.Request.Context(), vs, form)
	if err != nil {
		respondError(c, h.logger, err, "Registration failed")
		return
	}

	status := http.StatusCreated
	if !result.LoggedIn {
		status = http.StatusAccepted
	}
	c.JSON(status, result)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	var form models.LoginForm
	if !bindForm(c, &form) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), vs, form)
	if err != nil {
		respondError(c, h.logger, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Logout handles POST /logout. The session is cleared even when the token
// store fails, so the failure is logged and not surfaced.
func (h *AuthHandler) Logout(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), vs); err != nil {
		h.logger.WithField("session_id", vs.Session.ID()).WithError(err).Warn("Logout left a stored token behind")
	} else {
		h.views.Forget(vs.Session.ID())
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Session handles GET /session
func (h *AuthHandler) Session(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, vs.Session.Snapshot())
}

// VerifyEmail handles GET /verify-email?token=
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	// the result carries the message for both outcomes
	result, _ := h.verification.Verify(c.Request.Context(), vs, c.Query("token"))
	if result.State == services.VerificationFailed {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
