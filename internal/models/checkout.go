package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutState is a step of the create-then-pay saga
type CheckoutState string

const (
	CheckoutCreated          CheckoutState = "created"           // listing exists server-side, unpaid
	CheckoutPaymentRequested CheckoutState = "payment_requested" // approval URL issued
	CheckoutPaymentConfirmed CheckoutState = "payment_confirmed" // provider redirected back with success
	CheckoutPaymentCancelled CheckoutState = "payment_cancelled" // provider redirected back with cancel
	CheckoutAbandoned        CheckoutState = "abandoned"         // swept after sitting unpaid too long
)

// CanRequestPayment reports whether a payment session may be (re)requested
// from this state. payment_requested is excluded while the provider session
// it opened is still live.
func (s CheckoutState) CanRequestPayment() bool {
	switch s {
	case CheckoutCreated, CheckoutPaymentCancelled:
		return true
	}
	return false
}

// ListingKind identifies which create-payment endpoint a checkout uses
type ListingKind string

const (
	ListingApartment ListingKind = "apartment"
	ListingEvent     ListingKind = "event"
)

// Checkout is the persisted record of one create-then-pay flow
type Checkout struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	OwnerKey           string        `json:"-" db:"owner_key"`
	ListingKind        ListingKind   `json:"listing_kind" db:"listing_kind"`
	ListingID          string        `json:"listing_id" db:"listing_id"`
	ListingTitle       string        `json:"listing_title" db:"listing_title"`
	State              CheckoutState `json:"state" db:"state"`
	ApprovalURL        NullString    `json:"approval_url" db:"approval_url"`
	LastError          NullString    `json:"last_error" db:"last_error"`
	Attempts           int           `json:"attempts" db:"attempts"`
	PaymentRequestedAt NullTime      `json:"payment_requested_at" db:"payment_requested_at"`
	ConfirmedAt        NullTime      `json:"confirmed_at" db:"confirmed_at"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}
