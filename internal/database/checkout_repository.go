package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

// ErrCheckoutNotFound is returned by updates that match no row
var ErrCheckoutNotFound = errors.New("checkout not found")

const checkoutColumns = `id, owner_key, listing_kind, listing_id, listing_title, state,
	approval_url, last_error, attempts, payment_requested_at, confirmed_at,
	created_at, updated_at`

// CheckoutRepository persists create-then-pay saga records
type CheckoutRepository struct {
	db DB
}

// NewCheckoutRepository creates a new CheckoutRepository
func NewCheckoutRepository(db DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

// Create inserts a new checkout, assigning its ID and timestamps
func (r *CheckoutRepository) Create(ctx context.Context, c *models.Checkout) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO checkouts (
			id, owner_key, listing_kind, listing_id, listing_title, state,
			approval_url, last_error, attempts, payment_requested_at, confirmed_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.OwnerKey, c.ListingKind, c.ListingID, c.ListingTitle, c.State,
		c.ApprovalURL, c.LastError, c.Attempts, c.PaymentRequestedAt, c.ConfirmedAt,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create checkout: %w", err)
	}
	return nil
}

// GetByID returns the checkout or nil when it does not exist
func (r *CheckoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Checkout, error) {
	var c models.Checkout
	query := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE id = $1`

	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout: %w", err)
	}
	return &c, nil
}

// ListByOwner returns an owner's checkouts, newest first
func (r *CheckoutRepository) ListByOwner(ctx context.Context, ownerKey string) ([]models.Checkout, error) {
	checkouts := []models.Checkout{}
	query := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE owner_key = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &checkouts, query, ownerKey); err != nil {
		return nil, fmt.Errorf("failed to list checkouts: %w", err)
	}
	return checkouts, nil
}

// Update writes the mutable saga fields
func (r *CheckoutRepository) Update(ctx context.Context, c *models.Checkout) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE checkouts SET
			state = $2,
			approval_url = $3,
			last_error = $4,
			attempts = $5,
			payment_requested_at = $6,
			confirmed_at = $7,
			updated_at = $8
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		c.ID, c.State, c.ApprovalURL, c.LastError, c.Attempts,
		c.PaymentRequestedAt, c.ConfirmedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update checkout: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrCheckoutNotFound
	}
	return nil
}

// MarkAbandoned moves unpaid checkouts untouched since before to abandoned
func (r *CheckoutRepository) MarkAbandoned(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE checkouts
		SET state = $1, updated_at = NOW()
		WHERE state IN ($2, $3, $4) AND updated_at < $5`

	result, err := r.db.ExecContext(ctx, query,
		models.CheckoutAbandoned,
		models.CheckoutCreated, models.CheckoutPaymentRequested, models.CheckoutPaymentCancelled,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark abandoned checkouts: %w", err)
	}
	return result.RowsAffected()
}

// DeleteFinishedBefore removes confirmed and abandoned checkouts last touched before the cutoff
func (r *CheckoutRepository) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM checkouts WHERE state IN ($1, $2) AND updated_at < $3`

	result, err := r.db.ExecContext(ctx, query,
		models.CheckoutPaymentConfirmed, models.CheckoutAbandoned, before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete finished checkouts: %w", err)
	}
	return result.RowsAffected()
}
