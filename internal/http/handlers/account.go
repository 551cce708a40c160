package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/catalog"
	"github.com/hongminglow/club-finder/internal/guard"
	"github.com/hongminglow/club-finder/internal/http/respond"
	"github.com/hongminglow/club-finder/internal/middleware"
	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/models/dto"
	"github.com/hongminglow/club-finder/internal/session"
	"github.com/hongminglow/club-finder/internal/storage"
)

// AccountHandler serves the signed-in areas: profile, club-owner dashboard and admin approvals.
type AccountHandler struct {
	log *zap.Logger
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(log *zap.Logger) *AccountHandler {
	return &AccountHandler{log: log.Named("account")}
}

// Register attaches the guarded account routes to the router.
func (h *AccountHandler) Register(r chi.Router) {
	guarded(r, h.log, guard.RouteProfile, http.MethodGet, "/profile", h.handleProfile)
	guarded(r, h.log, guard.RouteOwnerDashboard, http.MethodGet, "/club-owner", h.handleOwnerDashboard)
	guarded(r, h.log, guard.RouteAddClub, http.MethodPost, "/club-owner/add-club", h.handleAddClub)
	guarded(r, h.log, guard.RouteOwnerClub, http.MethodPatch, "/club-owner/clubs/{id}", h.handleUpdateClub)
	guarded(r, h.log, guard.RouteAdminDashboard, http.MethodGet, "/admin", h.handleAdminDashboard)
	guarded(r, h.log, guard.RouteClubApprovals, http.MethodGet, "/admin/club-approvals", h.handlePending)
	guarded(r, h.log, guard.RouteApproveClub, http.MethodPost, "/admin/club-approvals/{id}", h.handleApprove)
}

// signedIn restores the request's session; it writes the error response and returns nil on failure.
func (h *AccountHandler) signedIn(w http.ResponseWriter, r *http.Request) *session.Store {
	store := sessionFor(r, h.log, nil)
	store.InitializeAuth(r.Context())
	if store.User() == nil {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return nil
	}
	return store
}

func (h *AccountHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	store := h.signedIn(w, r)
	if store == nil {
		return
	}
	bookings, err := middleware.Client(r).ListBookings(r.Context(), storage.BookingQuery{})
	if err != nil {
		respondErr(w, h.log, "list bookings", err)
		return
	}
	respond.JSON(w, http.StatusOK, "profile", map[string]any{
		"user":     store.User(),
		"profile":  store.Profile(),
		"bookings": bookings,
	})
}

func (h *AccountHandler) handleOwnerDashboard(w http.ResponseWriter, r *http.Request) {
	sess := h.signedIn(w, r)
	if sess == nil {
		return
	}
	clubs := catalogFor(r, h.log)
	clubs.FetchByOwner(r.Context(), sess.User().ID)
	if msg := clubs.Err(); msg != "" {
		h.log.Error("fetch owner clubs failed", zap.String("error", msg))
		respond.Error(w, http.StatusBadGateway, "failed to fetch clubs")
		return
	}
	respond.JSON(w, http.StatusOK, "club owner dashboard", dto.OwnerDashboard{Clubs: clubs.Clubs()})
}

func (h *AccountHandler) handleAddClub(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClubRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := h.signedIn(w, r)
	if sess == nil {
		return
	}
	created, err := catalogFor(r, h.log).Create(r.Context(), catalog.ClubInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		OwnerID:     sess.User().ID,
		Sports:      req.Sports,
		Facilities:  req.Facilities,
		PriceRange:  req.PriceRange,
		Images:      req.Images,
		City:        req.City,
		IsApproved:  req.IsApproved,
		IsPremium:   req.IsPremium,
	})
	if err != nil {
		respondErr(w, h.log, "create club", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "club submitted for approval", created)
}

func (h *AccountHandler) handleUpdateClub(w http.ResponseWriter, r *http.Request) {
	var patch models.ClubPatch
	if err := respond.Decode(r, &patch); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := h.signedIn(w, r)
	if sess == nil {
		return
	}
	clubs := catalogFor(r, h.log)
	clubs.FetchByOwner(r.Context(), sess.User().ID)
	updated, err := clubs.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondErr(w, h.log, "update club", err)
		return
	}
	respond.JSON(w, http.StatusOK, "club updated", updated)
}

func (h *AccountHandler) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	pending := catalogFor(r, h.log)
	pending.FetchPending(r.Context())
	approved := catalogFor(r, h.log)
	approved.FetchAll(r.Context())
	for _, s := range []*catalog.Store{pending, approved} {
		if msg := s.Err(); msg != "" {
			h.log.Error("fetch clubs failed", zap.String("error", msg))
			respond.Error(w, http.StatusBadGateway, "failed to fetch clubs")
			return
		}
	}
	respond.JSON(w, http.StatusOK, "admin dashboard", dto.AdminDashboard{
		PendingClubs:  len(pending.Clubs()),
		ApprovedClubs: len(approved.Clubs()),
	})
}

func (h *AccountHandler) handlePending(w http.ResponseWriter, r *http.Request) {
	store := catalogFor(r, h.log)
	store.ReplaceFilters(filtersFromQuery(r.URL.Query()))
	store.FetchPending(r.Context())
	if msg := store.Err(); msg != "" {
		h.log.Error("fetch pending clubs failed", zap.String("error", msg))
		respond.Error(w, http.StatusBadGateway, "failed to fetch clubs")
		return
	}
	respond.JSON(w, http.StatusOK, "clubs awaiting approval", store.Filtered())
}

func (h *AccountHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req dto.ApproveClubRequest
	if r.Body != nil && r.Body != http.NoBody {
		if err := respond.Decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	approved, err := catalogFor(r, h.log).Approve(r.Context(), chi.URLParam(r, "id"), req.Premium)
	if err != nil {
		respondErr(w, h.log, "approve club", err)
		return
	}
	respond.JSON(w, http.StatusOK, "club approved", approved)
}
