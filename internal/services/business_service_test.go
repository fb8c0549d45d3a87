package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

func TestDetail(t *testing.T) {
	fb := newFakeBackend(t)
	fb.router.GET("/api/business/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "business_name": "Potter's Cay Fish Fry"})
	})
	fb.router.GET("/api/business/:id/reviews", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"reviews": []gin.H{{"id": "r-1", "rating": 4, "comment": "Great conch salad"}}})
	})

	view, err := NewBusinessService(testLogger()).Detail(context.Background(), fb.api(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, "Potter's Cay Fish Fry", view.Business.BusinessName)
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, 4, view.Reviews[0].Rating)
}

func TestCreateReview(t *testing.T) {
	fb := newFakeBackend(t)
	fb.router.POST("/api/review/create", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": "r-2", "rating": 5, "is_approved": false})
	})
	svc := NewBusinessService(testLogger())

	_, err := svc.CreateReview(context.Background(), newViewState(t, fb, ""), models.ReviewForm{BusinessID: "b-1", Rating: 5, Comment: "ok"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.CreateReview(context.Background(), newViewState(t, fb, "tok"), models.ReviewForm{BusinessID: "b-1", Rating: 6, Comment: "ok"})
	var verrs models.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	assert.Empty(t, fb.recorded())

	review, err := svc.CreateReview(context.Background(), newViewState(t, fb, "tok"), models.ReviewForm{BusinessID: "b-1", Rating: 5, Comment: "Lovely staff"})
	require.NoError(t, err)
	assert.False(t, review.IsApproved)
}

func TestBookAppointment(t *testing.T) {
	fb := newFakeBackend(t)
	fb.router.POST("/api/appointment/create", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": "a-1", "service": "Haircut", "status": "pending"})
	})

	appt, err := NewBusinessService(testLogger()).BookAppointment(context.Background(), newViewState(t, fb, "tok"), models.AppointmentForm{
		BusinessID:      "b-1",
		AppointmentDate: "2026-11-02T10:30",
		Service:         "Haircut",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", appt.Status)
}

func TestAppointments_EmptyIsNotNil(t *testing.T) {
	fb := newFakeBackend(t)
	fb.router.GET("/api/business/:id/appointments", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{})
	})
	appts, err := NewBusinessService(testLogger()).Appointments(context.Background(), newViewState(t, fb, "tok"), "b-1")
	require.NoError(t, err)
	assert.NotNil(t, appts)
	assert.Empty(t, appts)
}

func TestCreateBusiness_IncompleteBeforeCall(t *testing.T) {
	fb := newFakeBackend(t)
	form := models.BusinessForm{BusinessName: "Bay Street Books", Island: "New Providence"}

	_, err := NewBusinessService(testLogger()).CreateBusiness(context.Background(), newViewState(t, fb, "tok"), form)
	assert.True(t, errors.Is(err, ErrIncompleteBusiness))
	var verrs models.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Business details are incomplete", UserMessage(err, "x"))
	assert.Empty(t, fb.recorded())
}
