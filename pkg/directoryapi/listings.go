package directoryapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/thedirecttree/directory-gateway/internal/models"
)

// ListApartments calls GET /apartments with island, property_type, min_rent, max_rent and bedrooms filters
func (c *Client) ListApartments(ctx context.Context, query url.Values) ([]models.Apartment, error) {
	var out []models.Apartment
	err := c.doList(ctx, "/apartments", "/apartments", query, "apartments", &out)
	return out, err
}

// CreateApartment calls POST /apartment/create. The listing starts unpaid.
func (c *Client) CreateApartment(ctx context.Context, form models.ApartmentForm) (*models.Apartment, error) {
	var out models.Apartment
	if err := c.doJSON(ctx, http.MethodPost, "/apartment/create", "/apartment/create", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListEvents calls GET /events with island, category and date filters
func (c *Client) ListEvents(ctx context.Context, query url.Values) ([]models.Event, error) {
	var out []models.Event
	err := c.doList(ctx, "/events", "/events", query, "events", &out)
	return out, err
}

// CreateEvent calls POST /event/create. The listing starts unpaid.
func (c *Client) CreateEvent(ctx context.Context, form models.EventForm) (*models.Event, error) {
	var out models.Event
	if err := c.doJSON(ctx, http.MethodPost, "/event/create", "/event/create", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePayment calls POST /{kind}/{id}/create-payment and returns the
// provider approval URL for the listing fee.
func (c *Client) CreatePayment(ctx context.Context, kind models.ListingKind, listingID string) (*models.PaymentSession, error) {
	switch kind {
	case models.ListingApartment, models.ListingEvent:
	default:
		return nil, fmt.Errorf("unknown listing kind %q", kind)
	}

	route := "/" + string(kind) + "/{id}/create-payment"
	path := "/" + string(kind) + "/" + escape(listingID) + "/create-payment"

	var out models.PaymentSession
	if err := c.doJSON(ctx, http.MethodPost, route, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
