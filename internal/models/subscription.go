package models

import "time"

// SubscriptionState mirrors the status values reported by /paypal/subscription-status
type SubscriptionState string

const (
	SubscriptionNone      SubscriptionState = "NONE"
	SubscriptionPending   SubscriptionState = "PENDING"
	SubscriptionActive    SubscriptionState = "ACTIVE"
	SubscriptionCancelled SubscriptionState = "CANCELLED"
)

// Subscription pricing applied by the backend
const (
	SubscriptionAmount    = "20.00"
	SubscriptionCurrency  = "USD"
	SubscriptionTrialDays = 7
)

// SubscriptionStatus is the owner's current billing state
type SubscriptionStatus struct {
	Status          SubscriptionState `json:"status"`
	Amount          string            `json:"amount,omitempty"`
	Currency        string            `json:"currency,omitempty"`
	TrialEndDate    *time.Time        `json:"trial_end_date,omitempty"`
	NextBillingDate *time.Time        `json:"next_billing_date,omitempty"`
	SubscriptionID  string            `json:"subscription_id,omitempty"`
}

// CanStart reports whether a new subscription may be started from this state
func (s *SubscriptionStatus) CanStart() bool {
	return s == nil || s.Status == "" || s.Status == SubscriptionNone || s.Status == SubscriptionCancelled
}

// CanCancel reports whether the cancel action applies
func (s *SubscriptionStatus) CanCancel() bool {
	return s != nil && s.SubscriptionID != "" && (s.Status == SubscriptionActive || s.Status == SubscriptionPending)
}

// BillingPlan is returned by /paypal/create-plan
type BillingPlan struct {
	PlanID string `json:"plan_id"`
}

// SubscriptionApproval is returned by /paypal/create-subscription
type SubscriptionApproval struct {
	SubscriptionID string `json:"subscription_id,omitempty"`
	ApprovalURL    string `json:"approval_url"`
}
