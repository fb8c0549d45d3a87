package services

import "context"

// Confirmer asks the user to confirm a destructive or state-changing action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Confirmed is a Confirmer with a fixed answer, e.g. from a confirm=true query parameter
type Confirmed bool

// Confirm returns the fixed answer
func (c Confirmed) Confirm(context.Context, string) bool { return bool(c) }

// ConfirmationError is returned when a Confirmer declines. It matches ErrNotConfirmed.
type ConfirmationError struct {
	Prompt string
}

func (e *ConfirmationError) Error() string {
	return ErrNotConfirmed.Error() + ": " + e.Prompt
}

// Is makes errors.Is(err, ErrNotConfirmed) true
func (e *ConfirmationError) Is(target error) bool {
	return target == ErrNotConfirmed
}

// Confirmation prompts
const (
	PromptApproveBusiness    = "Are you sure you want to approve this business?"
	PromptRejectBusiness     = "Are you sure you want to reject this business?"
	PromptApproveReview      = "Are you sure you want to approve this review?"
	PromptCancelSubscription = "Are you sure you want to cancel your subscription?"
	PromptDeletePhoto        = "Are you sure you want to delete this photo?"
)

func confirm(ctx context.Context, c Confirmer, prompt string) error {
	if c == nil || !c.Confirm(ctx, prompt) {
		return &ConfirmationError{Prompt: prompt}
	}
	return nil
}
