package services

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/internal/session"
	"github.com/thedirecttree/directory-gateway/pkg/directoryapi"
	"github.com/thedirecttree/directory-gateway/pkg/jwt"
)

// ViewState is the long-lived state of one browser session: the session
// object, a backend client bound to it, and the views that outlive a single
// request.
type ViewState struct {
	Session *session.Session
	API     *directoryapi.Client

	Businesses *RemoteList[models.BusinessFilters, models.Business]
	Apartments *RemoteList[models.ApartmentFilters, models.Apartment]
	Events     *RemoteList[models.EventFilters, models.Event]

	Subscription *SubscriptionView
	Gallery      *GalleryView
	Moderation   *ModerationView
}

// SubscriptionView holds the billing plan created for this session. It is
// memory only, so a restart between plan and subscription creation makes a
// second plan.
type SubscriptionView struct {
	mu     sync.Mutex
	planID string
	status *models.SubscriptionStatus
}

// PlanID returns the plan created earlier in this session, if any
func (v *SubscriptionView) PlanID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.planID
}

func (v *SubscriptionView) setPlanID(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.planID = id
}

// Status returns the last fetched subscription status
func (v *SubscriptionView) Status() *models.SubscriptionStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

func (v *SubscriptionView) setStatus(s *models.SubscriptionStatus) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = s
}

// GalleryView remembers which business the gallery last showed
type GalleryView struct {
	mu         sync.Mutex
	businessID string
	photos     []models.Photo
	loaded     bool
}

// NewViewState binds api to sess and creates the list views
func NewViewState(sess *session.Session, api *directoryapi.Client, logger *logrus.Logger) *ViewState {
	bound := api.WithCredentials(sess)
	return &ViewState{
		Session: sess,
		API:     bound,
		Businesses: NewRemoteList("businesses", func(ctx context.Context, f models.BusinessFilters) ([]models.Business, error) {
			if f.IsSearch() {
				return bound.SearchBusinesses(ctx, f.SearchValues())
			}
			return bound.ListBusinesses(ctx, f.Values())
		}, logger),
		Apartments: NewRemoteList("apartments", func(ctx context.Context, f models.ApartmentFilters) ([]models.Apartment, error) {
			return bound.ListApartments(ctx, f.Values())
		}, logger),
		Events: NewRemoteList("events", func(ctx context.Context, f models.EventFilters) ([]models.Event, error) {
			return bound.ListEvents(ctx, f.Values())
		}, logger),
		Subscription: &SubscriptionView{},
		Gallery:      &GalleryView{},
		Moderation:   &ModerationView{},
	}
}

// resetPrivate drops view state tied to the signed-in account
func (vs *ViewState) resetPrivate() {
	vs.Subscription.setPlanID("")
	vs.Subscription.setStatus(nil)

	vs.Gallery.mu.Lock()
	vs.Gallery.businessID, vs.Gallery.photos, vs.Gallery.loaded = "", nil, false
	vs.Gallery.mu.Unlock()

	vs.Moderation.mu.Lock()
	vs.Moderation.businesses, vs.Moderation.reviews, vs.Moderation.totalBusinesses = nil, nil, 0
	vs.Moderation.mu.Unlock()
}

// ViewRegistry keeps ViewStates in a bounded LRU keyed by session id.
// Entries expire after ttl of inactivity; an evicted session is rebuilt
// from the token store on its next request.
type ViewRegistry struct {
	mu        sync.Mutex
	cache     *expirable.LRU[string, *ViewState]
	store     session.TokenStore
	inspector *jwt.Inspector
	api       *directoryapi.Client
	logger    *logrus.Logger
}

// NewViewRegistry creates a registry holding at most size sessions
func NewViewRegistry(size int, ttl time.Duration, store session.TokenStore, inspector *jwt.Inspector, api *directoryapi.Client, logger *logrus.Logger) *ViewRegistry {
	r := &ViewRegistry{
		store:     store,
		inspector: inspector,
		api:       api,
		logger:    logger,
	}
	r.cache = expirable.NewLRU[string, *ViewState](size, func(id string, _ *ViewState) {
		r.logger.WithField("session_id", id).Debug("View state evicted")
	}, ttl)
	return r
}

// Get returns the view state for sessionID, creating and initialising it
// from the token store when it is not cached
func (r *ViewRegistry) Get(ctx context.Context, sessionID string) (*ViewState, error) {
	r.mu.Lock()
	vs, ok := r.cache.Get(sessionID)
	if !ok {
		sess := session.New(sessionID, r.store, r.inspector)
		vs = NewViewState(sess, r.api, r.logger)
		r.cache.Add(sessionID, vs)
	} else {
		// refresh the expiry on access
		r.cache.Add(sessionID, vs)
	}
	r.mu.Unlock()

	if err := vs.Session.Init(ctx); err != nil {
		return nil, err
	}
	return vs, nil
}

// Forget drops the cached view state for sessionID
func (r *ViewRegistry) Forget(sessionID string) {
	r.cache.Remove(sessionID)
}

// Len returns the number of cached sessions
func (r *ViewRegistry) Len() int {
	return r.cache.Len()
}
