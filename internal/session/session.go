// Package session holds the per-browser session object: the backend token,
// the signed-in user and the lifecycle that moves between them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/pkg/jwt"
)

// State is where a session sits in its lifecycle
type State string

const (
	// StateAnonymous has no token
	StateAnonymous State = "anonymous"
	// StateRestored has a token reattached from the store but no user record
	StateRestored State = "restored"
	// StateAuthenticated has both token and user from a login or verification
	StateAuthenticated State = "authenticated"
)

var (
	// ErrNoSessionProvider is returned when a session is requested from a
	// context that never passed through the session middleware
	ErrNoSessionProvider = errors.New("session requested outside the session provider")

	// ErrEmptyToken is returned by Login when the backend gave no token
	ErrEmptyToken = errors.New("login requires a token")

	// ErrAnonymous is returned when token claims are requested without a token
	ErrAnonymous = errors.New("session has no token")
)

// Session is safe for concurrent use. It implements
// directoryapi.CredentialSource, so a client bound to it picks up login and
// logout on the very next request.
type Session struct {
	mu        sync.RWMutex
	id        string
	store     TokenStore
	inspector *jwt.Inspector
	state     State
	user      *models.User
	token     string
	restored  bool
}

// New creates an anonymous session. Call Init to reattach a stored token.
func New(id string, store TokenStore, inspector *jwt.Inspector) *Session {
	if inspector == nil {
		inspector = jwt.NewInspector("")
	}
	return &Session{
		id:        id,
		store:     store,
		inspector: inspector,
		state:     StateAnonymous,
	}
}

// ID returns the session identifier (the cookie value)
func (s *Session) ID() string {
	return s.id
}

// Init reattaches a persisted token. The user record is not re-fetched, so
// a restored session knows its token but not who it belongs to. Init runs
// once successfully; later calls are no-ops.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restored {
		return nil
	}

	token, err := s.store.Load(ctx, s.id)
	if errors.Is(err, ErrUnseal) {
		// sealed under a rotated key; start anonymous
		token, err = "", nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session token: %w", err)
	}
	s.restored = true
	if token == "" {
		return nil
	}

	s.token = token
	s.state = StateRestored
	return nil
}

// Login stores the user and token and persists the token. On a store
// failure the session is left unchanged.
func (s *Session) Login(ctx context.Context, user *models.User, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, s.id, token); err != nil {
		return fmt.Errorf("failed to persist session token: %w", err)
	}

	s.token = token
	s.restored = true
	if user != nil {
		u := *user
		s.user = &u
		s.state = StateAuthenticated
	} else {
		s.user = nil
		s.state = StateRestored
	}
	return nil
}

// Logout clears the user, the in-memory token and the persisted token.
// Memory is cleared even if the store delete fails.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.restored = true

	if err := s.store.Delete(ctx, s.id); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

// Token returns the current bearer token, or "" when anonymous
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// State returns the lifecycle state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the signed-in user, nil unless authenticated
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Claims decodes the token claims
func (s *Session) Claims() (*jwt.Claims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrAnonymous
	}
	return s.inspector.ExtractClaims(token)
}

// Expired reports whether the session holds a token past its expiry
func (s *Session) Expired() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	return s.inspector.IsTokenExpired(token)
}

// OwnerKey identifies the account behind the session: the token's user id
// when readable, else the user record id, else the session id.
func (s *Session) OwnerKey() string {
	if claims, err := s.Claims(); err == nil && claims.UserID != "" {
		return claims.UserID
	}
	if u := s.User(); u != nil && u.ID != "" {
		return u.ID
	}
	return s.id
}

// Role returns the role from the user record or, for a restored session,
// from the token claims
func (s *Session) Role() models.Role {
	if u := s.User(); u != nil && u.Role != "" {
		return u.Role
	}
	if claims, err := s.Claims(); err == nil {
		return models.Role(claims.Role)
	}
	return ""
}

// View is the JSON shape of a session
type View struct {
	State     State        `json:"state"`
	User      *models.User `json:"user"`
	Role      models.Role  `json:"role,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Expired   bool         `json:"expired"`
}

// Snapshot returns the session view; the token itself is never included
func (s *Session) Snapshot() View {
	v := View{
		State: s.State(),
		User:  s.User(),
		Role:  s.Role(),
	}
	if token := s.Token(); token != "" {
		if expiry, err := s.inspector.GetTokenExpiry(token); err == nil {
			v.ExpiresAt = &expiry
			v.Expired = expiry.Before(time.Now())
		}
	}
	return v
}

type contextKey struct{}

// NewContext returns a context carrying s
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session installed by NewContext
func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSessionProvider
	}
	return s, nil
}
