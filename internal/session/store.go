// Package session holds the signed-in user and profile and drives the sign-up,
// sign-in and sign-out flows against the gateway.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/gateway"
	"github.com/hongminglow/club-finder/internal/models"
)

// HomePath is where Logout navigates.
const HomePath = "/"

// Gateway is the slice of the data gateway the session store needs.
type Gateway interface {
	GetSession(ctx context.Context) (*gateway.Session, error)
	SignUp(ctx context.Context, email, password string) (*gateway.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*gateway.Session, error)
	SignOut(ctx context.Context) error
	ProfileByUserID(ctx context.Context, userID string) (models.Profile, error)
	InsertProfile(ctx context.Context, p models.Profile) (models.Profile, error)
}

// Navigator performs client-side navigation.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Store owns the current user and profile.
//
// As with the catalog, loading is advisory and the mutex never spans a gateway call.
type Store struct {
	gw  Gateway
	nav Navigator
	log *zap.Logger

	mu      sync.RWMutex
	user    *models.User
	profile *models.Profile
	loading bool
	err     string
}

// NewStore creates a signed-out store. nav may be nil.
func NewStore(gw Gateway, nav Navigator, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Store{gw: gw, nav: nav, log: log}
}

// User returns a copy of the signed-in user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Profile returns a copy of the loaded profile, or nil.
func (s *Store) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Role returns the loaded profile's role, or "" when no profile is loaded.
func (s *Store) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.Role
}

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last recorded error message, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

func (s *Store) setUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// InitializeAuth restores an existing session, if any, and loads its profile.
// Failures are recorded, never returned.
func (s *Store) InitializeAuth(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	sess, err := s.gw.GetSession(ctx)
	if err != nil {
		s.log.Warn("restore session failed", zap.Error(err))
		s.setErr(err.Error())
		return
	}
	if sess == nil {
		return
	}
	user := sess.User
	s.setUser(&user)
	s.FetchUserProfile(ctx)
}

// FetchUserProfile loads the profile of the current user. Failures are logged only.
func (s *Store) FetchUserProfile(ctx context.Context) {
	user := s.User()
	if user == nil {
		return
	}
	profile, err := s.gw.ProfileByUserID(ctx, user.ID)
	if err != nil {
		s.log.Error("Error fetching profile", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
}

// Register creates an identity and its profile, then signs the user in.
// On failure the current user is left as it was.
func (s *Store) Register(ctx context.Context, email, password, fullName string, role models.Role) (err error) {
	s.setLoading(true)
	s.setErr("")
	defer s.setLoading(false)
	defer func() {
		if err != nil {
			s.log.Warn("registration failed", zap.String("email", email), zap.Error(err))
			s.setErr(err.Error())
		}
	}()

	parsed, ok := models.ParseRole(string(role))
	if !ok {
		return fmt.Errorf("%w: unknown role %q", gateway.ErrValidation, role)
	}
	if strings.TrimSpace(fullName) == "" {
		return fmt.Errorf("%w: full name is required", gateway.ErrValidation)
	}

	sess, err := s.gw.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	if sess == nil {
		return errors.New("sign up returned no user")
	}

	_, err = s.gw.InsertProfile(ctx, models.Profile{
		UserID:   sess.User.ID,
		FullName: strings.TrimSpace(fullName),
		Role:     parsed,
	})
	if err != nil {
		return err
	}

	user := sess.User
	s.setUser(&user)
	s.FetchUserProfile(ctx)
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(parsed)))
	return nil
}

// Login checks credentials, signs the user in and loads the profile.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	s.setErr("")
	defer s.setLoading(false)

	sess, err := s.gw.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.setErr(err.Error())
		return err
	}
	user := sess.User
	s.setUser(&user)
	s.FetchUserProfile(ctx)
	return nil
}

// Logout revokes the session remotely, clears the local user and profile and
// navigates home. Local state is cleared even when the remote call fails; the
// failure is recorded.
func (s *Store) Logout(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.gw.SignOut(ctx); err != nil {
		s.log.Warn("remote sign-out failed", zap.Error(err))
		s.setErr(err.Error())
	}

	s.mu.Lock()
	s.user = nil
	s.profile = nil
	s.mu.Unlock()

	s.nav.Navigate(HomePath)
}
