package services

import (
	"errors"

	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/pkg/directoryapi"
)

// Service errors. Most are client-side preconditions checked before any
// backend call; ErrNoApprovalURL and ErrNoListingID report unusable backend
// answers.
var (
	ErrMissingToken       = errors.New("verification token is missing")
	ErrNotConfirmed       = errors.New("action was not confirmed")
	ErrIncompleteBusiness = errors.New("business details are incomplete")
	ErrNotAuthenticated   = errors.New("sign in required")
	ErrCheckoutNotFound   = errors.New("checkout not found")
	ErrPaymentNotAllowed  = errors.New("payment cannot be requested in the checkout's current state")
	ErrNoApprovalURL      = errors.New("payment provider returned no approval URL")
	ErrNoListingID        = errors.New("listing was created without an id")
	ErrNothingToCancel    = errors.New("no active subscription to cancel")
	ErrSubscriptionActive = errors.New("subscription already active or pending")
	ErrNoFiles            = errors.New("select at least one photo to upload")
)

// UserMessage turns an error into the text shown to the user. Server-reported
// errors carry the backend's detail verbatim.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *directoryapi.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}

	var transportErr *directoryapi.TransportError
	if errors.As(err, &transportErr) {
		return "Unable to reach The Direct Tree right now. Please try again."
	}

	if s, ok := knownSentinel(err); ok {
		return capitalize(s.Error())
	}

	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		return "Please correct the highlighted fields"
	}
	return fallback
}

var sentinels = []error{
	ErrMissingToken, ErrNotConfirmed, ErrIncompleteBusiness, ErrNotAuthenticated,
	ErrCheckoutNotFound, ErrPaymentNotAllowed, ErrNoApprovalURL, ErrNoListingID,
	ErrNothingToCancel, ErrSubscriptionActive, ErrNoFiles,
}

// knownSentinel returns the service sentinel err wraps, if any
func knownSentinel(err error) (error, bool) {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s, true
		}
	}
	return nil, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
