package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

// RequireAuth rejects requests whose session holds no usable token.
// Must be used after SessionMiddleware.
func RequireAuth(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := GetSession(c)
		if err != nil {
			logger.WithField("path", c.Request.URL.Path).WithError(err).Error("Auth check without a session")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Session middleware is not installed",
			})
			c.Abort()
			return
		}

		if sess.Token() == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Please log in to continue",
				"code":    "NOT_AUTHENTICATED",
			})
			c.Abort()
			return
		}

		if sess.Expired() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "token_expired",
				"message": "Your session has expired. Please log in again.",
				"code":    "TOKEN_EXPIRED",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole checks the session role against roles. The backend remains
// the authority; this only keeps other roles out of views they cannot use.
// Must be used after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := GetSession(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Session middleware is not installed",
			})
			c.Abort()
			return
		}

		role := sess.Role()
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You do not have access to this page",
			"code":    "INSUFFICIENT_ROLE",
		})
		c.Abort()
	}
}
