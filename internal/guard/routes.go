package guard

import (
	"strings"

	"github.com/hongminglow/club-finder/internal/models"
)

// Route names.
const (
	RouteHome           = "home"
	RouteLogin          = "login"
	RouteRegister       = "register"
	RouteLogout         = "logout"
	RouteClubs          = "clubs"
	RouteClubDetails    = "club-details"
	RouteClubReviews    = "club-reviews"
	RouteWriteReview    = "write-review"
	RouteClubBookings   = "club-bookings"
	RouteProfile        = "profile"
	RouteOwnerDashboard = "club-owner-dashboard"
	RouteAddClub        = "add-club"
	RouteOwnerClub      = "club-owner-club"
	RouteAdminDashboard = "admin-dashboard"
	RouteClubApprovals  = "club-approvals"
	RouteApproveClub    = "approve-club"
	RouteNotFound       = "not-found"
)

// Route is one navigable location and its access requirements.
type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
	RequiresRole models.Role
}

// Routes is the navigation surface, most specific first. Match returns the first
// hit, so a write-only route sharing a path sits after the readable one and is
// reached through ByName.
var Routes = []Route{
	{Name: RouteHome, Path: "/"},
	{Name: RouteLogin, Path: "/login"},
	{Name: RouteRegister, Path: "/register"},
	{Name: RouteLogout, Path: "/logout", RequiresAuth: true},
	{Name: RouteClubs, Path: "/clubs"},
	{Name: RouteClubReviews, Path: "/clubs/:id/reviews"},
	{Name: RouteWriteReview, Path: "/clubs/:id/reviews", RequiresAuth: true},
	{Name: RouteClubBookings, Path: "/clubs/:id/bookings", RequiresAuth: true},
	{Name: RouteClubDetails, Path: "/clubs/:id"},
	{Name: RouteProfile, Path: "/profile", RequiresAuth: true},
	{Name: RouteOwnerDashboard, Path: "/club-owner", RequiresAuth: true, RequiresRole: models.RoleClubOwner},
	{Name: RouteAddClub, Path: "/club-owner/add-club", RequiresAuth: true, RequiresRole: models.RoleClubOwner},
	{Name: RouteOwnerClub, Path: "/club-owner/clubs/:id", RequiresAuth: true, RequiresRole: models.RoleClubOwner},
	{Name: RouteAdminDashboard, Path: "/admin", RequiresAuth: true, RequiresRole: models.RoleAdmin},
	{Name: RouteClubApprovals, Path: "/admin/club-approvals", RequiresAuth: true, RequiresRole: models.RoleAdmin},
	{Name: RouteApproveClub, Path: "/admin/club-approvals/:id", RequiresAuth: true, RequiresRole: models.RoleAdmin},
}

// NotFound is the catch-all route.
var NotFound = Route{Name: RouteNotFound, Path: "/*"}

// ByName returns the route with the given name.
func ByName(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	if name == RouteNotFound {
		return NotFound, true
	}
	return Route{}, false
}

// Match resolves a path (query string ignored) to a route and its parameters.
// Unknown paths resolve to NotFound.
func Match(path string) (Route, map[string]string) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segments := split(path)
	for _, r := range Routes {
		if params, ok := matchSegments(split(r.Path), segments); ok {
			return r, params
		}
	}
	return NotFound, map[string]string{}
}

func matchSegments(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segments[i] == "" {
				return nil, false
			}
			params[p[1:]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
