package directoryapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/thedirecttree/directory-gateway/internal/models"
)

// PendingBusinesses calls GET /admin/businesses/pending
func (c *Client) PendingBusinesses(ctx context.Context) ([]models.Business, error) {
	var out []models.Business
	err := c.doList(ctx, "/admin/businesses/pending", "/admin/businesses/pending", nil, "businesses", &out)
	return out, err
}

// ApproveBusiness calls PUT /admin/business/{id}/approve
func (c *Client) ApproveBusiness(ctx context.Context, businessID string) error {
	return c.doJSON(ctx, http.MethodPut, "/admin/business/{id}/approve", "/admin/business/"+escape(businessID)+"/approve", nil, nil, nil)
}

// RejectBusiness calls PUT /admin/business/{id}/reject
func (c *Client) RejectBusiness(ctx context.Context, businessID string) error {
	return c.doJSON(ctx, http.MethodPut, "/admin/business/{id}/reject", "/admin/business/"+escape(businessID)+"/reject", nil, nil, nil)
}

// PendingReviews calls GET /admin/reviews/pending
func (c *Client) PendingReviews(ctx context.Context) ([]models.Review, error) {
	var out []models.Review
	err := c.doList(ctx, "/admin/reviews/pending", "/admin/reviews/pending", nil, "reviews", &out)
	return out, err
}

// ApproveReview calls PUT /admin/review/{id}/approve
func (c *Client) ApproveReview(ctx context.Context, reviewID string) error {
	return c.doJSON(ctx, http.MethodPut, "/admin/review/{id}/approve", "/admin/review/"+escape(reviewID)+"/approve", nil, nil, nil)
}

// PromoteUser calls POST /admin/promote-user?email=
func (c *Client) PromoteUser(ctx context.Context, email string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	query := url.Values{"email": {email}}
	if err := c.doJSON(ctx, http.MethodPost, "/admin/promote-user", "/admin/promote-user", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
