package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

// Subscription return outcomes
const (
	ExecuteCompleted        = "executed"
	ExecuteNothingToExecute = "nothing_to_execute"
	ExecuteCancelled        = "cancelled"
)

// DashboardView is the business owner dashboard
type DashboardView struct {
	User         *models.User               `json:"user"`
	Subscription *models.SubscriptionStatus `json:"subscription"`
	CanStart     bool                       `json:"can_start"`
	CanCancel    bool                       `json:"can_cancel"`
	Price        string                     `json:"price"`
	Currency     string                     `json:"currency"`
	TrialDays    int                        `json:"trial_days"`
}

// ExecuteResult is the outcome of a provider return to /subscription/success or /subscription/cancel
type ExecuteResult struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

// SubscriptionService drives NONE -> PENDING -> ACTIVE -> CANCELLED, and
// CANCELLED -> PENDING by starting again
type SubscriptionService struct {
	logger *logrus.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(logger *logrus.Logger) *SubscriptionService {
	return &SubscriptionService{logger: logger}
}

// Dashboard loads the subscription status for the owner dashboard
func (s *SubscriptionService) Dashboard(ctx context.Context, vs *ViewState) (*DashboardView, error) {
	status, err := s.refresh(ctx, vs)
	if err != nil {
		return nil, err
	}
	return &DashboardView{
		User:         vs.Session.User(),
		Subscription: status,
		CanStart:     status.CanStart(),
		CanCancel:    status.CanCancel(),
		Price:        models.SubscriptionAmount,
		Currency:     models.SubscriptionCurrency,
		TrialDays:    models.SubscriptionTrialDays,
	}, nil
}

// Start creates a billing plan unless this session already made one, then
// a subscription against it, and returns the approval URL. A status already
// known to be active or pending is refused without a call.
func (s *SubscriptionService) Start(ctx context.Context, vs *ViewState) (*models.SubscriptionApproval, error) {
	if vs.Session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	if status := vs.Subscription.Status(); status != nil && !status.CanStart() {
		return nil, ErrSubscriptionActive
	}

	planID := vs.Subscription.PlanID()
	if planID == "" {
		plan, err := vs.API.CreatePlan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create billing plan: %w", err)
		}
		planID = plan.PlanID
		vs.Subscription.setPlanID(planID)
		s.logger.WithField("plan_id", planID).Info("Billing plan created")
	}

	approval, err := vs.API.CreateSubscription(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	if approval.ApprovalURL == "" {
		return nil, ErrNoApprovalURL
	}

	s.logger.WithFields(logrus.Fields{
		"plan_id":         planID,
		"subscription_id": approval.SubscriptionID,
	}).Info("Subscription created, awaiting approval")
	return approval, nil
}

// Cancel cancels the current subscription after confirmation and returns
// the refetched status
func (s *SubscriptionService) Cancel(ctx context.Context, vs *ViewState, c Confirmer) (*models.SubscriptionStatus, error) {
	if err := confirm(ctx, c, PromptCancelSubscription); err != nil {
		return nil, err
	}

	status := vs.Subscription.Status()
	if status == nil {
		var err error
		if status, err = s.refresh(ctx, vs); err != nil {
			return nil, err
		}
	}
	if !status.CanCancel() {
		return status, ErrNothingToCancel
	}

	if err := vs.API.CancelSubscription(ctx, status.SubscriptionID); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	s.logger.WithField("subscription_id", status.SubscriptionID).Info("Subscription cancelled")

	return s.refresh(ctx, vs)
}

// Execute finalises an approved subscription from the provider return
// query. Without both a token and a payer id there is nothing to execute,
// which is not an error.
func (s *SubscriptionService) Execute(ctx context.Context, vs *ViewState, query url.Values) (*ExecuteResult, error) {
	token := firstOf(query, "token", "ba_token")
	payerID := firstOf(query, "PayerID", "payer_id")
	if token == "" || payerID == "" {
		return &ExecuteResult{
			State:   ExecuteNothingToExecute,
			Message: "There is no pending subscription to activate.",
		}, nil
	}

	resp, err := vs.API.ExecuteSubscription(ctx, token, payerID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute subscription: %w", err)
	}
	vs.Subscription.setStatus(nil)

	message := resp.Message
	if message == "" {
		message = "Your subscription is now active."
	}
	return &ExecuteResult{State: ExecuteCompleted, Message: message}, nil
}

// Cancelled reports a provider cancel return; the backend is not called
func (s *SubscriptionService) Cancelled() *ExecuteResult {
	return &ExecuteResult{
		State:   ExecuteCancelled,
		Message: "Subscription setup was cancelled. You can start again from your dashboard.",
	}
}

func (s *SubscriptionService) refresh(ctx context.Context, vs *ViewState) (*models.SubscriptionStatus, error) {
	if vs.Session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	status, err := vs.API.SubscriptionStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription status: %w", err)
	}
	vs.Subscription.setStatus(status)
	return status, nil
}

func firstOf(query url.Values, keys ...string) string {
	for _, k := range keys {
		if v := query.Get(k); v != "" {
			return v
		}
	}
	return ""
}
