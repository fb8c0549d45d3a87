package directoryapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/thedirecttree/directory-gateway/internal/models"
)

// Islands calls GET /islands
func (c *Client) Islands(ctx context.Context) ([]string, error) {
	var out []string
	err := c.doList(ctx, "/islands", "/islands", nil, "islands", &out)
	return out, err
}

// Categories calls GET /categories
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.doList(ctx, "/categories", "/categories", nil, "categories", &out)
	return out, err
}

// EventCategories calls GET /event-categories
func (c *Client) EventCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.doList(ctx, "/event-categories", "/event-categories", nil, "categories", &out)
	return out, err
}

// ListBusinesses calls GET /businesses with island, category and limit filters
func (c *Client) ListBusinesses(ctx context.Context, query url.Values) ([]models.Business, error) {
	var out []models.Business
	err := c.doList(ctx, "/businesses", "/businesses", query, "businesses", &out)
	return out, err
}

// SearchBusinesses calls GET /businesses/search?q=
func (c *Client) SearchBusinesses(ctx context.Context, query url.Values) ([]models.Business, error) {
	var out []models.Business
	err := c.doList(ctx, "/businesses/search", "/businesses/search", query, "businesses", &out)
	return out, err
}

// GetBusiness calls GET /business/{id}
func (c *Client) GetBusiness(ctx context.Context, id string) (*models.Business, error) {
	var out models.Business
	if err := c.doJSON(ctx, http.MethodGet, "/business/{id}", "/business/"+escape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBusiness calls POST /business/create
func (c *Client) CreateBusiness(ctx context.Context, form models.BusinessForm) (*models.Business, error) {
	var out models.Business
	if err := c.doJSON(ctx, http.MethodPost, "/business/create", "/business/create", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BusinessReviews calls GET /business/{id}/reviews (approved reviews only)
func (c *Client) BusinessReviews(ctx context.Context, businessID string) ([]models.Review, error) {
	var out []models.Review
	err := c.doList(ctx, "/business/{id}/reviews", "/business/"+escape(businessID)+"/reviews", nil, "reviews", &out)
	return out, err
}

// CreateReview calls POST /review/create
func (c *Client) CreateReview(ctx context.Context, form models.ReviewForm) (*models.Review, error) {
	var out models.Review
	if err := c.doJSON(ctx, http.MethodPost, "/review/create", "/review/create", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAppointment calls POST /appointment/create
func (c *Client) CreateAppointment(ctx context.Context, form models.AppointmentForm) (*models.Appointment, error) {
	var out models.Appointment
	if err := c.doJSON(ctx, http.MethodPost, "/appointment/create", "/appointment/create", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BusinessAppointments calls GET /business/{id}/appointments
func (c *Client) BusinessAppointments(ctx context.Context, businessID string) ([]models.Appointment, error) {
	var out []models.Appointment
	err := c.doList(ctx, "/business/{id}/appointments", "/business/"+escape(businessID)+"/appointments", nil, "appointments", &out)
	return out, err
}
