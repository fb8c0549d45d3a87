package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

// AuthResult is returned by register and login. LoggedIn is false when the
// backend is waiting for email verification.
type AuthResult struct {
	User     *models.User `json:"user,omitempty"`
	Message  string       `json:"message,omitempty"`
	LoggedIn bool         `json:"logged_in"`
}

// AuthService signs sessions in and out against the backend
type AuthService struct {
	logger *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(logger *logrus.Logger) *AuthService {
	return &AuthService{logger: logger}
}

// Register validates the form (including both legal agreements) before
// calling the backend. When the backend answers with a user and token the
// session is logged in.
func (s *AuthService) Register(ctx context.Context, vs *ViewState, form models.RegisterForm) (*AuthResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	resp, err := vs.API.Register(ctx, form.Request())
	if err != nil {
		s.logger.WithField("role", form.Role).WithError(err).Info("Registration rejected")
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	result := &AuthResult{Message: resp.Message}
	if resp.HasSession() {
		if err := vs.Session.Login(ctx, resp.User, resp.Token); err != nil {
			return nil, err
		}
		result.User = resp.User
		result.LoggedIn = true
	}
	if result.Message == "" && !result.LoggedIn {
		result.Message = "Registration successful. Please check your email to verify your account."
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": vs.Session.ID(),
		"logged_in":  result.LoggedIn,
	}).Info("Account registered")
	return result, nil
}

// Login authenticates and stores the returned identity in the session
func (s *AuthService) Login(ctx context.Context, vs *ViewState, form models.LoginForm) (*AuthResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	resp, err := vs.API.Login(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if !resp.HasSession() {
		return nil, fmt.Errorf("failed to login: backend returned no session")
	}

	if err := vs.Session.Login(ctx, resp.User, resp.Token); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": vs.Session.ID(),
		"user_id":    resp.User.ID,
		"role":       resp.User.Role,
	}).Info("User logged in")
	return &AuthResult{User: resp.User, LoggedIn: true}, nil
}

// Logout clears the session and the account's view state
func (s *AuthService) Logout(ctx context.Context, vs *ViewState) error {
	vs.resetPrivate()
	if err := vs.Session.Logout(ctx); err != nil {
		s.logger.WithField("session_id", vs.Session.ID()).WithError(err).Error("Failed to clear stored token")
		return err
	}
	s.logger.WithField("session_id", vs.Session.ID()).Info("User logged out")
	return nil
}
