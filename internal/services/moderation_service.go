package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"golang.org/x/sync/errgroup"
)

// totalReviewsUnavailable is reported until the backend exposes a review count
const totalReviewsUnavailable = "N/A"

// AdminStats summarises the moderation dashboard. Pending counts come from
// the fetched queues.
type AdminStats struct {
	TotalBusinesses   int    `json:"total_businesses"`
	PendingBusinesses int    `json:"pending_businesses"`
	PendingReviews    int    `json:"pending_reviews"`
	TotalReviews      string `json:"total_reviews"`
}

// Moderation data sources, also the keys of AdminView.Errors
const (
	QueueBusinesses = "pending_businesses"
	QueueReviews    = "pending_reviews"
	QueueTotal      = "total_businesses"
)

// AdminView is the moderation dashboard. A source that failed to load keeps
// its last fetched contents and reports its error text in Errors.
type AdminView struct {
	PendingBusinesses []models.Business `json:"pending_businesses"`
	PendingReviews    []models.Review   `json:"pending_reviews"`
	Stats             AdminStats        `json:"stats"`
	Errors            map[string]string `json:"errors,omitempty"`
}

// ModerationView caches the last fetched queues so an action only refetches
// the queue it touched
type ModerationView struct {
	mu              sync.Mutex
	businesses      []models.Business
	reviews         []models.Review
	totalBusinesses int
}

func (m *ModerationView) snapshot() *AdminView {
	m.mu.Lock()
	defer m.mu.Unlock()
	view := &AdminView{
		PendingBusinesses: append([]models.Business{}, m.businesses...),
		PendingReviews:    append([]models.Review{}, m.reviews...),
	}
	view.Stats = AdminStats{
		TotalBusinesses:   m.totalBusinesses,
		PendingBusinesses: len(m.businesses),
		PendingReviews:    len(m.reviews),
		TotalReviews:      totalReviewsUnavailable,
	}
	return view
}

// ModerationService runs the admin approve/reject workflow. Every action is
// confirmation gated and followed by a refetch; nothing is updated
// optimistically.
type ModerationService struct {
	logger *logrus.Logger
}

// NewModerationService creates a new ModerationService
func NewModerationService(logger *logrus.Logger) *ModerationService {
	return &ModerationService{logger: logger}
}

// Dashboard fetches both pending queues and the business total in parallel.
// The queues load independently; an error is returned only when nothing
// loaded.
func (s *ModerationService) Dashboard(ctx context.Context, vs *ViewState) (*AdminView, error) {
	return s.load(ctx, vs, QueueBusinesses, QueueReviews, QueueTotal)
}

// ApproveBusiness approves a pending business after confirmation
func (s *ModerationService) ApproveBusiness(ctx context.Context, vs *ViewState, businessID string, c Confirmer) (*AdminView, error) {
	if err := confirm(ctx, c, PromptApproveBusiness); err != nil {
		return nil, err
	}
	if err := vs.API.ApproveBusiness(ctx, businessID); err != nil {
		return nil, fmt.Errorf("failed to approve business: %w", err)
	}
	s.logger.WithField("business_id", businessID).Info("Business approved")
	return s.afterBusinessAction(ctx, vs)
}

// RejectBusiness rejects a pending business after confirmation
func (s *ModerationService) RejectBusiness(ctx context.Context, vs *ViewState, businessID string, c Confirmer) (*AdminView, error) {
	if err := confirm(ctx, c, PromptRejectBusiness); err != nil {
		return nil, err
	}
	if err := vs.API.RejectBusiness(ctx, businessID); err != nil {
		return nil, fmt.Errorf("failed to reject business: %w", err)
	}
	s.logger.WithField("business_id", businessID).Info("Business rejected")
	return s.afterBusinessAction(ctx, vs)
}

// ApproveReview approves a pending review after confirmation
func (s *ModerationService) ApproveReview(ctx context.Context, vs *ViewState, reviewID string, c Confirmer) (*AdminView, error) {
	if err := confirm(ctx, c, PromptApproveReview); err != nil {
		return nil, err
	}
	if err := vs.API.ApproveReview(ctx, reviewID); err != nil {
		return nil, fmt.Errorf("failed to approve review: %w", err)
	}
	s.logger.WithField("review_id", reviewID).Info("Review approved")
	return s.afterAction(ctx, vs, QueueReviews, QueueTotal), nil
}

// PromoteUser grants the admin role. The backend message is returned as-is.
func (s *ModerationService) PromoteUser(ctx context.Context, vs *ViewState, form models.PromoteForm) (*models.MessageResponse, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	resp, err := vs.API.PromoteUser(ctx, form.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	s.logger.WithField("session_id", vs.Session.ID()).Info("User promoted to admin")
	return resp, nil
}

func (s *ModerationService) afterBusinessAction(ctx context.Context, vs *ViewState) (*AdminView, error) {
	return s.afterAction(ctx, vs, QueueBusinesses, QueueTotal), nil
}

// afterAction refetches the sources an action touched. The action already
// succeeded, so refetch failures only show up in the view's Errors.
func (s *ModerationService) afterAction(ctx context.Context, vs *ViewState, sources ...string) *AdminView {
	view, _ := s.load(ctx, vs, sources...)
	return view
}

// load refreshes sources in parallel. Each source fails on its own and keeps
// its previous contents; the returned error is set only when every source
// failed.
func (s *ModerationService) load(ctx context.Context, vs *ViewState, sources ...string) (*AdminView, error) {
	refreshers := map[string]func(context.Context, *ViewState) error{
		QueueBusinesses: s.refreshBusinesses,
		QueueReviews:    s.refreshReviews,
		QueueTotal:      s.refreshTotal,
	}

	errs := make([]error, len(sources))
	var g errgroup.Group
	for i, source := range sources {
		i, source := i, source
		refresh := refreshers[source]
		g.Go(func() error {
			if err := refresh(ctx, vs); err != nil {
				s.logger.WithField("source", source).WithError(err).Warn("Moderation data unavailable")
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	view := vs.Moderation.snapshot()
	var firstErr error
	for i, err := range errs {
		if err == nil {
			continue
		}
		if view.Errors == nil {
			view.Errors = make(map[string]string)
		}
		view.Errors[sources[i]] = UserMessage(err, "Could not load "+strings.ReplaceAll(sources[i], "_", " "))
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil && len(view.Errors) == len(sources) {
		return view, fmt.Errorf("failed to load moderation queues: %w", firstErr)
	}
	return view, nil
}

func (s *ModerationService) refreshBusinesses(ctx context.Context, vs *ViewState) error {
	pending, err := vs.API.PendingBusinesses(ctx)
	if err != nil {
		return err
	}
	vs.Moderation.mu.Lock()
	vs.Moderation.businesses = pending
	vs.Moderation.mu.Unlock()
	return nil
}

func (s *ModerationService) refreshReviews(ctx context.Context, vs *ViewState) error {
	pending, err := vs.API.PendingReviews(ctx)
	if err != nil {
		return err
	}
	vs.Moderation.mu.Lock()
	vs.Moderation.reviews = pending
	vs.Moderation.mu.Unlock()
	return nil
}

func (s *ModerationService) refreshTotal(ctx context.Context, vs *ViewState) error {
	all, err := vs.API.ListBusinesses(ctx, nil)
	if err != nil {
		return err
	}
	vs.Moderation.mu.Lock()
	vs.Moderation.totalBusinesses = len(all)
	vs.Moderation.mu.Unlock()
	return nil
}
