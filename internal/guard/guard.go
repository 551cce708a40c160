// Package guard decides, per navigation attempt, whether to allow it or redirect.
package guard

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/gateway"
	"github.com/hongminglow/club-finder/internal/models"
)

const (
	// LoginPath receives callers without a session.
	LoginPath = "/login"
	// HomePath receives callers lacking the required role.
	HomePath = "/"
	// RedirectParam carries the originally requested path to the login page.
	RedirectParam = "redirect"
)

// Gateway is the slice of the data gateway the guard needs.
type Gateway interface {
	GetSession(ctx context.Context) (*gateway.Session, error)
	ProfileRole(ctx context.Context, userID string) (models.Role, error)
}

// Outcome is the kind of decision.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	if o == Redirect {
		return "redirect"
	}
	return "allow"
}

// Decision is the result of a check. Path and Query are set for redirects.
type Decision struct {
	Outcome Outcome
	Path    string
	Query   url.Values
}

// Allowed reports whether navigation may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Location renders the redirect target with its query string.
func (d Decision) Location() string {
	if d.Outcome != Redirect {
		return ""
	}
	if len(d.Query) == 0 {
		return d.Path
	}
	return d.Path + "?" + d.Query.Encode()
}

func allow() Decision {
	return Decision{Outcome: Allow}
}

func redirectTo(path string, query url.Values) Decision {
	return Decision{Outcome: Redirect, Path: path, Query: query}
}

// Guard checks routes against the caller's session and role.
type Guard struct {
	gw  Gateway
	log *zap.Logger
}

// New creates a guard bound to gw.
func New(gw Gateway, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{gw: gw, log: log}
}

// Check decides a navigation to route, where fullPath is the path the caller asked for.
// The role is always read fresh from the gateway. Lookup failures never allow:
// a failed session lookup counts as signed out and a failed role lookup as no role.
func (g *Guard) Check(ctx context.Context, route Route, fullPath string) Decision {
	sess, err := g.gw.GetSession(ctx)
	if err != nil {
		g.log.Warn("session lookup failed during navigation", zap.String("path", fullPath), zap.Error(err))
		sess = nil
	}

	if route.RequiresAuth && sess == nil {
		return redirectTo(LoginPath, url.Values{RedirectParam: {fullPath}})
	}

	if route.RequiresRole != "" && sess != nil {
		role, err := g.gw.ProfileRole(ctx, sess.User.ID)
		if err != nil {
			g.log.Warn("role lookup failed during navigation",
				zap.String("path", fullPath), zap.String("user_id", sess.User.ID), zap.Error(err))
			role = ""
		}
		if role == "" || role != route.RequiresRole {
			return redirectTo(HomePath, nil)
		}
	}

	return allow()
}

// CheckPath matches fullPath against the route table and checks the result.
func (g *Guard) CheckPath(ctx context.Context, fullPath string) (Route, Decision) {
	route, _ := Match(fullPath)
	return route, g.Check(ctx, route, fullPath)
}
