package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

// Verification states
const (
	VerificationVerifying = "verifying"
	VerificationVerified  = "verified"
	VerificationFailed    = "failed"
)

// VerifiedRedirectDelay is how long the verified page waits before going home
const VerifiedRedirectDelay = 3 * time.Second

// VerificationResult is the email verification page
type VerificationResult struct {
	State           string       `json:"state"`
	Message         string       `json:"message"`
	User            *models.User `json:"user,omitempty"`
	RedirectTo      string       `json:"redirect_to,omitempty"`
	RedirectSeconds int          `json:"redirect_after_seconds,omitempty"`
	RetryPath       string       `json:"retry_path,omitempty"`
}

// VerificationService exchanges an email verification token for a session
type VerificationService struct {
	logger *logrus.Logger
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(logger *logrus.Logger) *VerificationService {
	return &VerificationService{logger: logger}
}

// Verify always returns a result. A missing token fails without a backend
// call; a backend error fails with the server's detail as the message.
func (s *VerificationService) Verify(ctx context.Context, vs *ViewState, token string) (*VerificationResult, error) {
	failed := func(message string) *VerificationResult {
		return &VerificationResult{State: VerificationFailed, Message: message, RetryPath: "/register"}
	}

	if token == "" {
		return failed("Invalid verification link. No token provided."), ErrMissingToken
	}

	resp, err := vs.API.VerifyEmail(ctx, token)
	if err != nil {
		s.logger.WithError(err).Info("Email verification failed")
		return failed(UserMessage(err, "Email verification failed. Please try again.")),
			fmt.Errorf("failed to verify email: %w", err)
	}

	if resp.HasSession() {
		if err := vs.Session.Login(ctx, resp.User, resp.Token); err != nil {
			return failed("Your email was verified but we could not sign you in. Please log in."), err
		}
	}

	message := resp.Message
	if message == "" {
		message = "Email verified successfully! Redirecting..."
	}
	s.logger.WithField("session_id", vs.Session.ID()).Info("Email verified")
	return &VerificationResult{
		State:           VerificationVerified,
		Message:         message,
		User:            resp.User,
		RedirectTo:      "/",
		RedirectSeconds: int(VerifiedRedirectDelay / time.Second),
	}, nil
}
