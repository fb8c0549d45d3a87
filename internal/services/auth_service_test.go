package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/internal/session"
)

func validRegisterForm() models.RegisterForm {
	return models.RegisterForm{
		Email:         "owner@example.com",
		Password:      "correct-horse",
		FirstName:     "Dion",
		LastName:      "Knowles",
		Role:          models.RoleBusinessOwner,
		AcceptTerms:   true,
		AcceptPrivacy: true,
	}
}

func TestRegister(t *testing.T) {
	t.Run("Agreements required before any call", func(t *testing.T) {
		fb := newFakeBackend(t)
		form := validRegisterForm()
		form.AcceptPrivacy = false

		_, err := NewAuthService(testLogger()).Register(context.Background(), newViewState(t, fb, ""), form)
		var verrs models.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.Fields(), "accept_privacy")
		assert.Empty(t, fb.recorded())
	})

	t.Run("Pending verification", func(t *testing.T) {
		fb := newFakeBackend(t)
		var body map[string]any
		fb.router.POST("/api/register", func(c *gin.Context) {
			_ = c.ShouldBindJSON(&body)
			c.JSON(http.StatusOK, gin.H{"message": "Check your inbox"})
		})
		vs := newViewState(t, fb, "")

		result, err := NewAuthService(testLogger()).Register(context.Background(), vs, validRegisterForm())
		require.NoError(t, err)
		assert.False(t, result.LoggedIn)
		assert.Equal(t, "Check your inbox", result.Message)
		assert.NotContains(t, body, "accept_terms")
		assert.Equal(t, session.StateAnonymous, vs.Session.State())
	})

	t.Run("Immediate session", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.router.POST("/api/register", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"token": "t.k.n", "user": gin.H{"id": "u-5", "role": "business_owner"}})
		})
		vs := newViewState(t, fb, "")

		result, err := NewAuthService(testLogger()).Register(context.Background(), vs, validRegisterForm())
		require.NoError(t, err)
		assert.True(t, result.LoggedIn)
		assert.Equal(t, session.StateAuthenticated, vs.Session.State())
	})
}

func TestLogin(t *testing.T) {
	fb := newFakeBackend(t)
	fb.router.POST("/api/login", func(c *gin.Context) {
		var form models.LoginForm
		_ = c.ShouldBindJSON(&form)
		if form.Password != "right" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": "a.b.c", "user": gin.H{"id": "u-3", "email": form.Email, "role": "customer"}})
	})
	svc := NewAuthService(testLogger())
	vs := newViewState(t, fb, "")

	_, err := svc.Login(context.Background(), vs, models.LoginForm{Email: "c@example.com", Password: "wrong"})
	assert.Equal(t, "Invalid email or password", UserMessage(err, "Login failed"))
	assert.Equal(t, session.StateAnonymous, vs.Session.State())

	result, err := svc.Login(context.Background(), vs, models.LoginForm{Email: "c@example.com", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, "u-3", result.User.ID)
	assert.Equal(t, "a.b.c", vs.Session.Token())

	require.NoError(t, svc.Logout(context.Background(), vs))
	assert.Equal(t, session.StateAnonymous, vs.Session.State())
	assert.Empty(t, vs.Session.Token())
}

func TestLogout_ClearsPrivateViews(t *testing.T) {
	fb := newFakeBackend(t)
	vs := newViewState(t, fb, "tok")
	vs.Subscription.setPlanID("P-1")
	vs.Gallery.businessID, vs.Gallery.loaded = "b-1", true

	require.NoError(t, NewAuthService(testLogger()).Logout(context.Background(), vs))
	assert.Empty(t, vs.Subscription.PlanID())
	assert.False(t, vs.Gallery.loaded)
}
