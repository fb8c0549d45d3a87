package directoryapi

import (
	"context"
	"net/http"

	"github.com/thedirecttree/directory-gateway/internal/models"
)

// Register calls POST /register. The response carries either {user, token}
// or only a message while email verification is pending.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/register", "/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login calls POST /login
func (c *Client) Login(ctx context.Context, form models.LoginForm) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", "/login", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail calls POST /verify-email, exchanging the emailed token for {user, token}
func (c *Client) VerifyEmail(ctx context.Context, token string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	body := map[string]string{"token": token}
	if err := c.doJSON(ctx, http.MethodPost, "/verify-email", "/verify-email", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
