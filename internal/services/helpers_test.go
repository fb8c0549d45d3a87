package services

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/internal/session"
	"github.com/thedirecttree/directory-gateway/pkg/directoryapi"
)

type call struct {
	Method string
	Path   string
	Query  url.Values
}

// fakeBackend is a gin test server standing in for the directory backend.
// Routes are registered under /api.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []call
	router *gin.Engine
	server *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fb := &fakeBackend{router: gin.New()}
	fb.router.Use(func(c *gin.Context) {
		fb.mu.Lock()
		fb.calls = append(fb.calls, call{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Query:  c.Request.URL.Query(),
		})
		fb.mu.Unlock()
		c.Next()
	})
	fb.server = httptest.NewServer(fb.router)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) api() *directoryapi.Client {
	return directoryapi.New(fb.server.URL+"/api", directoryapi.WithLogger(testLogger()))
}

func (fb *fakeBackend) recorded() []call {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]call(nil), fb.calls...)
}

// paths returns "METHOD /path" for every call, in order
func (fb *fakeBackend) paths() []string {
	var out []string
	for _, c := range fb.recorded() {
		out = append(out, c.Method+" "+c.Path)
	}
	return out
}

func sortedPaths(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *memTokenStore) Load(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[id], nil
}

func (m *memTokenStore) Save(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[id] = token
	return nil
}

func (m *memTokenStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, id)
	return nil
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]string)}
}

// newViewState returns a view state bound to fb. A non-empty token logs the
// session in as user u-1.
func newViewState(t *testing.T, fb *fakeBackend, token string) *ViewState {
	t.Helper()
	sess := session.New(uuid.NewString(), newMemTokenStore(), nil)
	if token != "" {
		require.NoError(t, sess.Login(context.Background(), &models.User{ID: "u-1", Role: models.RoleBusinessOwner}, token))
	}
	return NewViewState(sess, fb.api(), testLogger())
}

// memCheckoutStore is an in-memory CheckoutStore
type memCheckoutStore struct {
	mu        sync.Mutex
	checkouts map[uuid.UUID]models.Checkout
	cutoff    time.Time
}

func newMemCheckoutStore() *memCheckoutStore {
	return &memCheckoutStore{checkouts: make(map[uuid.UUID]models.Checkout)}
}

func (m *memCheckoutStore) Create(_ context.Context, c *models.Checkout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.checkouts[c.ID] = *c
	return nil
}

func (m *memCheckoutStore) GetByID(_ context.Context, id uuid.UUID) (*models.Checkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.checkouts[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memCheckoutStore) ListByOwner(_ context.Context, owner string) ([]models.Checkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Checkout{}
	for _, c := range m.checkouts {
		if c.OwnerKey == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCheckoutStore) Update(_ context.Context, c *models.Checkout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.UpdatedAt = time.Now()
	m.checkouts[c.ID] = *c
	return nil
}

func (m *memCheckoutStore) MarkAbandoned(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoff = before
	var n int64
	for id, c := range m.checkouts {
		switch c.State {
		case models.CheckoutCreated, models.CheckoutPaymentRequested, models.CheckoutPaymentCancelled:
		default:
			continue
		}
		if c.UpdatedAt.Before(before) {
			c.State = models.CheckoutAbandoned
			m.checkouts[id] = c
			n++
		}
	}
	return n, nil
}

func (m *memCheckoutStore) only(t *testing.T) models.Checkout {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.checkouts, 1)
	for _, c := range m.checkouts {
		return c
	}
	return models.Checkout{}
}
