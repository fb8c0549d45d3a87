package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/pkg/directoryapi"
	"golang.org/x/sync/errgroup"
)

// featuredBusinessLimit is how many businesses the home view shows
const featuredBusinessLimit = 6

// HomeView is the landing page: filter tiles and featured businesses
type HomeView struct {
	Islands    []string          `json:"islands"`
	Categories []string          `json:"categories"`
	Featured   []models.Business `json:"featured_businesses"`
}

// BusinessListView is the business directory page
type BusinessListView struct {
	ListSnapshot[models.BusinessFilters, models.Business]
	Islands    []string `json:"islands"`
	Categories []string `json:"categories"`
	Search     bool     `json:"search"`
}

// ApartmentListView is the apartment listings page
type ApartmentListView struct {
	ListSnapshot[models.ApartmentFilters, models.Apartment]
	Islands       []string `json:"islands"`
	PropertyTypes []string `json:"property_types"`
	ListingFee    string   `json:"listing_fee"`
}

// EventListView is the events page
type EventListView struct {
	ListSnapshot[models.EventFilters, models.Event]
	Islands    []string `json:"islands"`
	Categories []string `json:"categories"`
	ListingFee string   `json:"listing_fee"`
}

// ListingService builds the browse views
type ListingService struct {
	logger *logrus.Logger
}

// NewListingService creates a new ListingService
func NewListingService(logger *logrus.Logger) *ListingService {
	return &ListingService{logger: logger}
}

// Home fetches islands, categories and featured businesses in parallel.
// Any failure fails the view.
func (s *ListingService) Home(ctx context.Context, api *directoryapi.Client) (*HomeView, error) {
	view := &HomeView{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		islands, err := api.Islands(gctx)
		view.Islands = islands
		return err
	})
	g.Go(func() error {
		categories, err := api.Categories(gctx)
		view.Categories = categories
		return err
	})
	g.Go(func() error {
		query := url.Values{}
		query.Set("limit", fmt.Sprint(featuredBusinessLimit))
		featured, err := api.ListBusinesses(gctx, query)
		view.Featured = featured
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.WithError(err).Warn("Failed to load home view")
		return nil, fmt.Errorf("failed to load home view: %w", err)
	}
	return view, nil
}

// FilterOptions fetches the island and category enumerations in parallel
func (s *ListingService) FilterOptions(ctx context.Context, api *directoryapi.Client) (islands, categories []string, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		islands, err = api.Islands(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = api.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to load filter options: %w", err)
	}
	return islands, categories, nil
}

// Businesses refreshes the session's business list from the page query
// (island, category, q). A free-text q goes to the search endpoint only.
// Filter options load alongside; their failure leaves them empty.
func (s *ListingService) Businesses(ctx context.Context, vs *ViewState, query url.Values) (*BusinessListView, error) {
	filters := models.BusinessFiltersFromQuery(query)
	view := &BusinessListView{
		Islands:    []string{},
		Categories: []string{},
		Search:     filters.IsSearch(),
	}

	var listErr error
	var g errgroup.Group
	g.Go(func() error {
		islands, categories, err := s.FilterOptions(ctx, vs.API)
		if err != nil {
			s.logger.WithError(err).Warn("Business filter options unavailable")
			return nil
		}
		view.Islands, view.Categories = islands, categories
		return nil
	})
	g.Go(func() error {
		view.ListSnapshot, listErr = vs.Businesses.Refresh(ctx, filters)
		return nil
	})
	_ = g.Wait()

	return view, listErr
}

// Apartments refreshes the apartment list
func (s *ListingService) Apartments(ctx context.Context, vs *ViewState, query url.Values) (*ApartmentListView, error) {
	snap, err := vs.Apartments.Refresh(ctx, models.ApartmentFiltersFromQuery(query))
	return &ApartmentListView{
		ListSnapshot:  snap,
		Islands:       models.Islands,
		PropertyTypes: models.PropertyTypes,
		ListingFee:    models.ListingFeeUSD,
	}, err
}

// Events refreshes the event list and loads the event categories in parallel
func (s *ListingService) Events(ctx context.Context, vs *ViewState, query url.Values) (*EventListView, error) {
	view := &EventListView{
		Islands:    models.Islands,
		Categories: []string{},
		ListingFee: models.ListingFeeUSD,
	}

	var listErr error
	var g errgroup.Group
	g.Go(func() error {
		categories, err := vs.API.EventCategories(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("Event categories unavailable")
			return nil
		}
		view.Categories = categories
		return nil
	})
	g.Go(func() error {
		view.ListSnapshot, listErr = vs.Events.Refresh(ctx, models.EventFiltersFromQuery(query))
		return nil
	})
	_ = g.Wait()

	return view, listErr
}
