package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/pkg/directoryapi"
)

// CheckoutStore persists checkout sagas. database.CheckoutRepository
// implements it.
type CheckoutStore interface {
	Create(ctx context.Context, c *models.Checkout) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Checkout, error)
	ListByOwner(ctx context.Context, ownerKey string) ([]models.Checkout, error)
	Update(ctx context.Context, c *models.Checkout) error
	MarkAbandoned(ctx context.Context, before time.Time) (int64, error)
}

// CheckoutResult is the outcome of a create-then-pay submission or a retry.
// ApprovalURL is empty whenever the payment step failed.
type CheckoutResult struct {
	Checkout    *models.Checkout `json:"checkout"`
	Listing     any              `json:"listing,omitempty"`
	ApprovalURL string           `json:"approval_url,omitempty"`
}

// CheckoutService runs the create-then-pay saga for apartments and events:
// create the listing, record the checkout as created, then request a
// payment session. A failed payment step leaves the checkout in created
// with its error recorded; only RetryPayment requests payment again.
type CheckoutService struct {
	store        CheckoutStore
	abandonAfter time.Duration
	logger       *logrus.Logger
	now          func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(store CheckoutStore, abandonAfter time.Duration, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		store:        store,
		abandonAfter: abandonAfter,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateApartment validates and submits an apartment listing, then requests its payment
func (s *CheckoutService) CreateApartment(ctx context.Context, vs *ViewState, form models.ApartmentForm) (*CheckoutResult, error) {
	if vs.Session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	apartment, err := vs.API.CreateApartment(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to create apartment: %w", err)
	}
	return s.begin(ctx, vs, models.ListingApartment, apartment.ID, apartment.Title, apartment)
}

// CreateEvent validates and submits an event listing, then requests its payment
func (s *CheckoutService) CreateEvent(ctx context.Context, vs *ViewState, form models.EventForm) (*CheckoutResult, error) {
	if vs.Session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	event, err := vs.API.CreateEvent(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return s.begin(ctx, vs, models.ListingEvent, event.ID, event.Title, event)
}

// begin records the created listing and runs the payment step
func (s *CheckoutService) begin(ctx context.Context, vs *ViewState, kind models.ListingKind, listingID, title string, listing any) (*CheckoutResult, error) {
	if listingID == "" {
		s.logger.WithField("listing_kind", kind).Error("Backend created a listing without an id")
		return nil, fmt.Errorf("failed to start checkout for %s: %w", kind, ErrNoListingID)
	}

	checkout := &models.Checkout{
		OwnerKey:     vs.Session.OwnerKey(),
		ListingKind:  kind,
		ListingID:    listingID,
		ListingTitle: title,
		State:        models.CheckoutCreated,
	}
	if err := s.store.Create(ctx, checkout); err != nil {
		s.logger.WithFields(logrus.Fields{
			"listing_kind": kind,
			"listing_id":   listingID,
		}).WithError(err).Error("Listing created but checkout could not be recorded")
		return nil, fmt.Errorf("failed to record checkout for %s %s: %w", kind, listingID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"checkout_id":  checkout.ID,
		"listing_kind": kind,
		"listing_id":   listingID,
	}).Info("Listing created, requesting payment")

	result := &CheckoutResult{Checkout: checkout, Listing: listing}
	approvalURL, err := s.requestPayment(ctx, vs.API, checkout)
	if err != nil {
		return result, err
	}
	result.ApprovalURL = approvalURL
	return result, nil
}

// RetryPayment requests a new payment session for an existing checkout.
// The listing is never created again.
func (s *CheckoutService) RetryPayment(ctx context.Context, vs *ViewState, checkoutID string) (*CheckoutResult, error) {
	checkout, err := s.owned(ctx, vs, checkoutID)
	if err != nil {
		return nil, err
	}
	if !checkout.State.CanRequestPayment() {
		return &CheckoutResult{Checkout: checkout}, ErrPaymentNotAllowed
	}

	result := &CheckoutResult{Checkout: checkout}
	approvalURL, err := s.requestPayment(ctx, vs.API, checkout)
	if err != nil {
		return result, err
	}
	result.ApprovalURL = approvalURL
	return result, nil
}

// requestPayment runs the payment step and records its outcome on checkout
func (s *CheckoutService) requestPayment(ctx context.Context, api *directoryapi.Client, checkout *models.Checkout) (string, error) {
	checkout.Attempts++

	payment, err := api.CreatePayment(ctx, checkout.ListingKind, checkout.ListingID)
	if err == nil && payment.ApprovalURL == "" {
		err = ErrNoApprovalURL
	}

	entry := s.logger.WithFields(logrus.Fields{
		"checkout_id": checkout.ID,
		"listing_id":  checkout.ListingID,
		"attempt":     checkout.Attempts,
	})

	if err != nil {
		checkout.LastError = models.NewNullString(UserMessage(err, "Payment could not be started"))
		if uerr := s.store.Update(ctx, checkout); uerr != nil {
			entry.WithError(uerr).Error("Failed to record payment failure")
		}
		entry.WithError(err).Warn("Payment request failed; listing left unpaid")
		return "", fmt.Errorf("failed to request payment: %w", err)
	}

	checkout.State = models.CheckoutPaymentRequested
	checkout.ApprovalURL = models.NewNullString(payment.ApprovalURL)
	checkout.LastError = models.NullString{}
	checkout.PaymentRequestedAt = models.NewNullTime(s.now().UTC())
	if err := s.store.Update(ctx, checkout); err != nil {
		entry.WithError(err).Error("Failed to record payment request")
		return "", fmt.Errorf("failed to record payment request: %w", err)
	}

	entry.Info("Payment requested")
	return payment.ApprovalURL, nil
}

// ListCheckouts returns the session owner's checkouts, newest first
func (s *CheckoutService) ListCheckouts(ctx context.Context, vs *ViewState) ([]models.Checkout, error) {
	if vs.Session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	checkouts, err := s.store.ListByOwner(ctx, vs.Session.OwnerKey())
	if err != nil {
		return nil, fmt.Errorf("failed to list checkouts: %w", err)
	}
	return checkouts, nil
}

// ConfirmPayment handles the provider's success return
func (s *CheckoutService) ConfirmPayment(ctx context.Context, vs *ViewState, query url.Values) (*models.Checkout, error) {
	return s.finish(ctx, vs, query, models.CheckoutPaymentConfirmed)
}

// CancelPayment handles the provider's cancel return. The checkout can be
// retried afterwards.
func (s *CheckoutService) CancelPayment(ctx context.Context, vs *ViewState, query url.Values) (*models.Checkout, error) {
	return s.finish(ctx, vs, query, models.CheckoutPaymentCancelled)
}

func (s *CheckoutService) finish(ctx context.Context, vs *ViewState, query url.Values, state models.CheckoutState) (*models.Checkout, error) {
	checkout, err := s.resolveReturn(ctx, vs, query)
	if err != nil {
		return nil, err
	}
	if checkout.State == state || checkout.State == models.CheckoutPaymentConfirmed {
		return checkout, nil
	}
	if checkout.State != models.CheckoutPaymentRequested {
		return checkout, ErrPaymentNotAllowed
	}

	checkout.State = state
	if state == models.CheckoutPaymentConfirmed {
		checkout.ConfirmedAt = models.NewNullTime(s.now().UTC())
	}
	if err := s.store.Update(ctx, checkout); err != nil {
		return nil, fmt.Errorf("failed to update checkout: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"checkout_id": checkout.ID,
		"state":       state,
	}).Info("Payment return recorded")
	return checkout, nil
}

// resolveReturn finds the checkout a provider return refers to: by the
// checkout query parameter, or else by the provider token that appears in
// the stored approval URL
func (s *CheckoutService) resolveReturn(ctx context.Context, vs *ViewState, query url.Values) (*models.Checkout, error) {
	if id := query.Get("checkout"); id != "" {
		return s.owned(ctx, vs, id)
	}

	token := query.Get("token")
	if token == "" {
		token = query.Get("paymentId")
	}
	if token == "" {
		return nil, ErrCheckoutNotFound
	}

	checkouts, err := s.store.ListByOwner(ctx, vs.Session.OwnerKey())
	if err != nil {
		return nil, fmt.Errorf("failed to list checkouts: %w", err)
	}
	for i := range checkouts {
		if approvalToken(checkouts[i].ApprovalURL.String) == token {
			return &checkouts[i], nil
		}
	}
	return nil, ErrCheckoutNotFound
}

// owned loads a checkout and hides other owners' records
func (s *CheckoutService) owned(ctx context.Context, vs *ViewState, checkoutID string) (*models.Checkout, error) {
	id, err := uuid.Parse(checkoutID)
	if err != nil {
		return nil, ErrCheckoutNotFound
	}
	checkout, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout: %w", err)
	}
	if checkout == nil || checkout.OwnerKey != vs.Session.OwnerKey() {
		return nil, ErrCheckoutNotFound
	}
	return checkout, nil
}

// approvalToken extracts the provider token from an approval URL
func approvalToken(approvalURL string) string {
	if approvalURL == "" {
		return ""
	}
	u, err := url.Parse(approvalURL)
	if err != nil {
		return ""
	}
	if t := u.Query().Get("token"); t != "" {
		return t
	}
	return u.Query().Get("paymentId")
}

// SweepAbandoned marks unpaid checkouts older than the abandon age as abandoned
func (s *CheckoutService) SweepAbandoned(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.abandonAfter)
	n, err := s.store.MarkAbandoned(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep checkouts: %w", err)
	}
	return n, nil
}
