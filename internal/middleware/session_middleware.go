package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/services"
	"github.com/thedirecttree/directory-gateway/internal/session"
)

// Gin context keys set by SessionMiddleware
const (
	ViewStateKey = "view_state"
	SessionIDKey = "session_id"
)

// ErrNoViewState is returned when a handler runs without SessionMiddleware
var ErrNoViewState = errors.New("view state not found in request context")

// SessionCookie configures the browser session cookie
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware attaches the caller's view state. The session id lives
// in a cookie; a missing or malformed id starts a new anonymous session.
func SessionMiddleware(registry *services.ViewRegistry, cookie SessionCookie, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookie.Name)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		// refresh the cookie so active sessions slide forward
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, id, int(cookie.TTL/time.Second), "/", "", cookie.Secure, true)

		vs, err := registry.Get(c.Request.Context(), id)
		if err != nil {
			logger.WithField("session_id", id).WithError(err).Error("Failed to restore session")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "session_unavailable",
				"message": "Your session could not be loaded. Please try again.",
			})
			c.Abort()
			return
		}

		c.Set(SessionIDKey, id)
		c.Set(ViewStateKey, vs)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), vs.Session))
		c.Next()
	}
}

// GetViewState returns the view state attached by SessionMiddleware
func GetViewState(c *gin.Context) (*services.ViewState, error) {
	v, exists := c.Get(ViewStateKey)
	if !exists {
		return nil, ErrNoViewState
	}
	vs, ok := v.(*services.ViewState)
	if !ok || vs == nil {
		return nil, ErrNoViewState
	}
	return vs, nil
}

// GetSession returns the session carried by the request context
func GetSession(c *gin.Context) (*session.Session, error) {
	return session.FromContext(c.Request.Context())
}
