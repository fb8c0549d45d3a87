package services

import (
	"context"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

func TestStart_CreatesPlanThenSubscription(t *testing.T) {
	fb := newFakeBackend(t)
	var plans atomic.Int32
	var gotPlan string
	fb.router.POST("/api/paypal/create-plan", func(c *gin.Context) {
		plans.Add(1)
		c.JSON(http.StatusOK, gin.H{"plan_id": "P-5ML4271244454362WXNWU5NQ"})
	})
	fb.router.POST("/api/paypal/create-subscription", func(c *gin.Context) {
		var body struct {
			PlanID string `json:"plan_id"`
		}
		_ = c.ShouldBindJSON(&body)
		gotPlan = body.PlanID
		c.JSON(http.StatusOK, gin.H{
			"subscription_id": "I-BW452GLLEP1G",
			"approval_url":    "https://www.sandbox.paypal.com/webapps/billing/subscriptions?ba_token=BA-1",
		})
	})

	svc := NewSubscriptionService(testLogger())
	vs := newViewState(t, fb, "tok")

	approval, err := svc.Start(context.Background(), vs)
	require.NoError(t, err)
	assert.Contains(t, approval.ApprovalURL, "ba_token=BA-1")
	assert.Equal(t, "P-5ML4271244454362WXNWU5NQ", gotPlan)
	assert.Equal(t, []string{"POST /api/paypal/create-plan", "POST /api/paypal/create-subscription"}, fb.paths())

	t.Run("Plan reused", func(t *testing.T) {
		_, err := svc.Start(context.Background(), vs)
		require.NoError(t, err)
		assert.Equal(t, int32(1), plans.Load())
	})
}

func TestStart_Failures(t *testing.T) {
	t.Run("Signed out", func(t *testing.T) {
		fb := newFakeBackend(t)
		_, err := NewSubscriptionService(testLogger()).Start(context.Background(), newViewState(t, fb, ""))
		assert.ErrorIs(t, err, ErrNotAuthenticated)
		assert.Empty(t, fb.recorded())
	})

	t.Run("Already active", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.router.GET("/api/paypal/subscription-status", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ACTIVE", "subscription_id": "I-1"})
		})
		svc := NewSubscriptionService(testLogger())
		vs := newViewState(t, fb, "tok")
		_, err := svc.Dashboard(context.Background(), vs)
		require.NoError(t, err)

		_, err = svc.Start(context.Background(), vs)
		assert.ErrorIs(t, err, ErrSubscriptionActive)
		assert.Equal(t, []string{"GET /api/paypal/subscription-status"}, fb.paths())
	})

	t.Run("Plan creation fails", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.router.POST("/api/paypal/create-plan", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create plan"})
		})
		_, err := NewSubscriptionService(testLogger()).Start(context.Background(), newViewState(t, fb, "tok"))
		assert.Equal(t, "Failed to create plan", UserMessage(err, "x"))
		assert.Equal(t, []string{"POST /api/paypal/create-plan"}, fb.paths())
	})

	t.Run("No approval URL", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.router.POST("/api/paypal/create-plan", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"plan_id": "P-1"})
		})
		fb.router.POST("/api/paypal/create-subscription", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"subscription_id": "I-1"})
		})
		_, err := NewSubscriptionService(testLogger()).Start(context.Background(), newViewState(t, fb, "tok"))
		assert.ErrorIs(t, err, ErrNoApprovalURL)
	})
}

func TestCancel(t *testing.T) {
	setup := func(t *testing.T) (*fakeBackend, *atomic.Bool) {
		fb := newFakeBackend(t)
		var cancelled atomic.Bool
		fb.router.GET("/api/paypal/subscription-status", func(c *gin.Context) {
			if cancelled.Load() {
				c.JSON(http.StatusOK, gin.H{"status": "CANCELLED", "subscription_id": "I-77"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ACTIVE", "subscription_id": "I-77", "amount": "20.00"})
		})
		fb.router.POST("/api/paypal/cancel-subscription/:id", func(c *gin.Context) {
			cancelled.Store(true)
			c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled"})
		})
		return fb, &cancelled
	}

	t.Run("Declined makes no call", func(t *testing.T) {
		fb, _ := setup(t)
		_, err := NewSubscriptionService(testLogger()).Cancel(context.Background(), newViewState(t, fb, "tok"), Confirmed(false))
		assert.ErrorIs(t, err, ErrNotConfirmed)
		assert.Empty(t, fb.recorded())
	})

	t.Run("Accepted refetches status", func(t *testing.T) {
		fb, _ := setup(t)
		svc := NewSubscriptionService(testLogger())
		vs := newViewState(t, fb, "tok")

		dash, err := svc.Dashboard(context.Background(), vs)
		require.NoError(t, err)
		assert.True(t, dash.CanCancel)
		assert.False(t, dash.CanStart)

		status, err := svc.Cancel(context.Background(), vs, Confirmed(true))
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionCancelled, status.Status)
		assert.Equal(t, []string{
			"GET /api/paypal/subscription-status",
			"POST /api/paypal/cancel-subscription/I-77",
			"GET /api/paypal/subscription-status",
		}, fb.paths())
	})

	t.Run("Nothing to cancel", func(t *testing.T) {
		fb, cancelled := setup(t)
		cancelled.Store(true)
		status, err := NewSubscriptionService(testLogger()).Cancel(context.Background(), newViewState(t, fb, "tok"), Confirmed(true))
		assert.ErrorIs(t, err, ErrNothingToCancel)
		assert.Equal(t, models.SubscriptionCancelled, status.Status)
		assert.Equal(t, []string{"GET /api/paypal/subscription-status"}, fb.paths())
	})
}

func TestExecute(t *testing.T) {
	t.Run("Missing parameters", func(t *testing.T) {
		fb := newFakeBackend(t)
		svc := NewSubscriptionService(testLogger())
		vs := newViewState(t, fb, "tok")

		for _, query := range []url.Values{{}, {"token": {"BA-1"}}, {"PayerID": {"P1"}}} {
			result, err := svc.Execute(context.Background(), vs, query)
			require.NoError(t, err)
			assert.Equal(t, ExecuteNothingToExecute, result.State)
		}
		assert.Empty(t, fb.recorded())
	})

	t.Run("Executes with alternate parameter names", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.router.POST("/api/paypal/execute-subscription/:token", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Subscription activated successfully"})
		})
		result, err := NewSubscriptionService(testLogger()).Execute(context.Background(), newViewState(t, fb, "tok"),
			url.Values{"ba_token": {"BA-9"}, "payer_id": {"PAYER-2"}})
		require.NoError(t, err)
		assert.Equal(t, ExecuteCompleted, result.State)
		assert.Equal(t, "Subscription activated successfully", result.Message)

		calls := fb.recorded()
		require.Len(t, calls, 1)
		assert.Equal(t, "/api/paypal/execute-subscription/BA-9", calls[0].Path)
		assert.Equal(t, "PAYER-2", calls[0].Query.Get("payer_id"))
	})

	t.Run("Cancelled return", func(t *testing.T) {
		assert.Equal(t, ExecuteCancelled, NewSubscriptionService(testLogger()).Cancelled().State)
	})
}
