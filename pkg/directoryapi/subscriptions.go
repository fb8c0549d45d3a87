package directoryapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/thedirecttree/directory-gateway/internal/models"
)

// SubscriptionStatus calls GET /paypal/subscription-status
func (c *Client) SubscriptionStatus(ctx context.Context) (*models.SubscriptionStatus, error) {
	var out models.SubscriptionStatus
	if err := c.doJSON(ctx, http.MethodGet, "/paypal/subscription-status", "/paypal/subscription-status", nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Status == "" {
		out.Status = models.SubscriptionNone
	}
	return &out, nil
}

// CreatePlan calls POST /paypal/create-plan
func (c *Client) CreatePlan(ctx context.Context) (*models.BillingPlan, error) {
	var out models.BillingPlan
	if err := c.doJSON(ctx, http.MethodPost, "/paypal/create-plan", "/paypal/create-plan", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSubscription calls POST /paypal/create-subscription against planID
func (c *Client) CreateSubscription(ctx context.Context, planID string) (*models.SubscriptionApproval, error) {
	var out models.SubscriptionApproval
	body := map[string]string{"plan_id": planID}
	if err := c.doJSON(ctx, http.MethodPost, "/paypal/create-subscription", "/paypal/create-subscription", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelSubscription calls POST /paypal/cancel-subscription/{id}
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return c.doJSON(ctx, http.MethodPost, "/paypal/cancel-subscription/{id}", "/paypal/cancel-subscription/"+escape(subscriptionID), nil, nil, nil)
}

// ExecuteSubscription calls POST /paypal/execute-subscription/{token}?payer_id=
func (c *Client) ExecuteSubscription(ctx context.Context, token, payerID string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	query := url.Values{"payer_id": {payerID}}
	if err := c.doJSON(ctx, http.MethodPost, "/paypal/execute-subscription/{token}", "/paypal/execute-subscription/"+escape(token), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
