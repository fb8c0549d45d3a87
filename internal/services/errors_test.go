package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

func TestUserMessage(t *testing.T) {
	fb := newFakeBackend(t)
	fb.router.GET("/api/islands", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database unavailable"})
	})
	_, apiErr := fb.api().Islands(context.Background())

	closed := newFakeBackend(t)
	client := closed.api()
	closed.server.Close()
	_, transportErr := client.Islands(context.Background())

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"Nil", nil, ""},
		{"Server detail", fmt.Errorf("failed to load: %w", apiErr), "Database unavailable"},
		{"Unreachable", transportErr, "Unable to reach The Direct Tree right now. Please try again."},
		{"Sentinel", fmt.Errorf("wrapped: %w", ErrNothingToCancel), "No active subscription to cancel"},
		{"Confirmation", &ConfirmationError{Prompt: PromptDeletePhoto}, "Action was not confirmed"},
		{"Validation", models.ValidationErrors{{Field: "email", Rule: "email", Message: "must be a valid email"}}, "Please correct the highlighted fields"},
		{"Unknown", errors.New("boom"), "Something went wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, UserMessage(tc.err, "Something went wrong"))
		})
	}
}
