package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/pkg/directoryapi"
	"golang.org/x/sync/errgroup"
)

// BusinessDetailView is a business profile with its approved reviews
type BusinessDetailView struct {
	Business *models.Business `json:"business"`
	Reviews  []models.Review  `json:"reviews"`
}

// BusinessService covers single-business reads and customer/owner actions
// on a business: reviews, appointments and onboarding
type BusinessService struct {
	logger *logrus.Logger
}

// NewBusinessService creates a new BusinessService
func NewBusinessService(logger *logrus.Logger) *BusinessService {
	return &BusinessService{logger: logger}
}

// Detail loads the business and its reviews in parallel
func (s *BusinessService) Detail(ctx context.Context, api *directoryapi.Client, businessID string) (*BusinessDetailView, error) {
	view := &BusinessDetailView{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := api.GetBusiness(gctx, businessID)
		view.Business = b
		return err
	})
	g.Go(func() error {
		reviews, err := api.BusinessReviews(gctx, businessID)
		view.Reviews = reviews
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load business %s: %w", businessID, err)
	}
	if view.Reviews == nil {
		view.Reviews = []models.Review{}
	}
	return view, nil
}

// CreateReview submits a review. It goes to the moderation queue server-side.
func (s *BusinessService) CreateReview(ctx context.Context, vs *ViewState, form models.ReviewForm) (*models.Review, error) {
	if vs.Session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	review, err := vs.API.CreateReview(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"business_id": form.BusinessID,
		"rating":      form.Rating,
	}).Info("Review submitted for moderation")
	return review, nil
}

// BookAppointment creates an appointment with a business
func (s *BusinessService) BookAppointment(ctx context.Context, vs *ViewState, form models.AppointmentForm) (*models.Appointment, error) {
	if vs.Session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	appt, err := vs.API.CreateAppointment(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}
	return appt, nil
}

// Appointments lists a business's appointments for its owner
func (s *BusinessService) Appointments(ctx context.Context, vs *ViewState, businessID string) ([]models.Appointment, error) {
	if vs.Session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	appts, err := vs.API.BusinessAppointments(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}

// CreateBusiness submits the owner onboarding form. Missing fields are
// reported as ErrIncompleteBusiness before any backend call.
func (s *BusinessService) CreateBusiness(ctx context.Context, vs *ViewState, form models.BusinessForm) (*models.Business, error) {
	if vs.Session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteBusiness, err)
	}

	business, err := vs.API.CreateBusiness(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"business_id": business.ID,
		"island":      business.Island,
	}).Info("Business submitted for approval")
	return business, nil
}
