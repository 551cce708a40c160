// Package gateway is the data gateway used by the stores: identity, session tokens
// and row access on top of a storage.Backend, with row-level access rules applied
// on behalf of the signed-in caller.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/auth"
	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/storage"
)

// Session is an established authentication state.
type Session struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        models.User `json:"user"`
	tokenID     string
}

// Client talks to the backend on behalf of one caller. It holds that caller's
// access token the way a browser client holds its session.
type Client struct {
	backend     storage.Backend
	tokens      *auth.TokenManager
	revocations storage.Revocations
	policy      *bluemonday.Policy
	log         *zap.Logger

	mu    sync.Mutex
	token string
}

// New builds a client without a session. revocations may be nil, in which case
// signed-out tokens stay valid until they expire.
func New(backend storage.Backend, tokens *auth.TokenManager, revocations storage.Revocations, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		backend:     backend,
		tokens:      tokens,
		revocations: revocations,
		policy:      bluemonday.StrictPolicy(),
		log:         log,
	}
}

// WithAccessToken returns a client sharing the same backend but bound to token.
func (c *Client) WithAccessToken(token string) *Client {
	return &Client{
		backend:     c.backend,
		tokens:      c.tokens,
		revocations: c.revocations,
		policy:      c.policy,
		log:         c.log,
		token:       strings.TrimSpace(token),
	}
}

// AccessToken returns the token currently held, or "".
func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// GetSession returns the current session, or nil when there is none or the held
// token is invalid, expired or revoked.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	token := c.AccessToken()
	if token == "" {
		return nil, nil
	}
	claims, err := c.tokens.Parse(token)
	if err != nil {
		c.log.Debug("discarding unusable access token", zap.Error(err))
		return nil, nil
	}
	if c.revocations != nil {
		revoked, err := c.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("get session: %w", err)
		}
		if revoked {
			return nil, nil
		}
	}
	user, err := c.backend.FindUserByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &Session{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user,
		tokenID:     claims.ID,
	}, nil
}

// SignUp creates an identity and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email address is invalid", ErrValidation)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := c.backend.CreateUser(ctx, models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}
	c.log.Info("identity created", zap.String("user_id", user.ID))
	return c.startSession(user)
}

// SignInWithPassword checks credentials and signs the identity in.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	user, err := c.backend.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return c.startSession(user)
}

// SignOut revokes the held token and forgets it. Signing out without a session is a no-op.
func (c *Client) SignOut(ctx context.Context) error {
	token := c.AccessToken()
	if token == "" {
		return nil
	}
	claims, err := c.tokens.Parse(token)
	if err != nil {
		c.setToken("")
		return nil
	}
	if c.revocations != nil {
		if err := c.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
	}
	c.setToken("")
	c.log.Info("session revoked", zap.String("user_id", claims.UserID()))
	return nil
}

func (c *Client) startSession(user models.User) (*Session, error) {
	token, claims, err := c.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	c.setToken(token)
	return &Session{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user,
		tokenID:     claims.ID,
	}, nil
}

// viewer is the signed-in caller as seen by the row-level rules.
type viewer struct {
	id   string
	role models.Role
}

func (v *viewer) isAdmin() bool {
	return v != nil && v.role == models.RoleAdmin
}

// currentViewer resolves the caller; nil means anonymous.
func (c *Client) currentViewer(ctx context.Context) (*viewer, error) {
	session, err := c.GetSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	v := &viewer{id: session.User.ID}
	profile, err := c.backend.ProfileByUserID(ctx, session.User.ID)
	switch {
	case err == nil:
		v.role = profile.Role
	case errors.Is(err, storage.ErrNotFound):
	default:
		return nil, fmt.Errorf("resolve caller role: %w", err)
	}
	return v, nil
}

func (c *Client) requireViewer(ctx context.Context) (*viewer, error) {
	v, err := c.currentViewer(ctx)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNoSession
	}
	return v, nil
}

// clean strips markup from free text. The strict policy escapes entities, which
// are turned back into plain characters since the stored value is text, not HTML.
func (c *Client) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(s)))
}
