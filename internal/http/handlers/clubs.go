package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/guard"
	"github.com/hongminglow/club-finder/internal/http/respond"
	"github.com/hongminglow/club-finder/internal/middleware"
	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/models/dto"
)

// ClubsHandler serves the public catalog, club details, reviews and bookings.
type ClubsHandler struct {
	log *zap.Logger
}

// NewClubsHandler constructs the handler.
func NewClubsHandler(log *zap.Logger) *ClubsHandler {
	return &ClubsHandler{log: log.Named("clubs")}
}

// Register attaches catalog routes to the router.
func (h *ClubsHandler) Register(r chi.Router) {
	guarded(r, h.log, guard.RouteHome, http.MethodGet, "/", h.handleHome)
	guarded(r, h.log, guard.RouteClubs, http.MethodGet, "/clubs", h.handleList)
	guarded(r, h.log, guard.RouteClubDetails, http.MethodGet, "/clubs/{id}", h.handleDetails)
	guarded(r, h.log, guard.RouteClubReviews, http.MethodGet, "/clubs/{id}/reviews", h.handleListReviews)
	guarded(r, h.log, guard.RouteWriteReview, http.MethodPost, "/clubs/{id}/reviews", h.handleCreateReview)
	guarded(r, h.log, guard.RouteClubBookings, http.MethodPost, "/clubs/{id}/bookings", h.handleCreateBooking)
}

func (h *ClubsHandler) handleHome(w http.ResponseWriter, r *http.Request) {
	store := catalogFor(r, h.log)
	store.FetchAll(r.Context())
	if msg := store.Err(); msg != "" {
		h.log.Error("fetch clubs failed", zap.String("error", msg))
		respond.Error(w, http.StatusBadGateway, "failed to fetch clubs")
		return
	}
	featured := []models.Club{}
	for _, club := range store.Clubs() {
		if club.IsPremium {
			featured = append(featured, club)
		}
	}
	respond.JSON(w, http.StatusOK, "featured clubs", featured)
}

func (h *ClubsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	store := catalogFor(r, h.log)
	store.ReplaceFilters(filtersFromQuery(r.URL.Query()))
	store.FetchAll(r.Context())
	if msg := store.Err(); msg != "" {
		h.log.Error("fetch clubs failed", zap.String("error", msg))
		respond.Error(w, http.StatusBadGateway, "failed to fetch clubs")
		return
	}
	respond.JSON(w, http.StatusOK, "clubs", store.Filtered())
}

func (h *ClubsHandler) handleDetails(w http.ResponseWriter, r *http.Request) {
	store := catalogFor(r, h.log)
	club := store.FetchByID(r.Context(), chi.URLParam(r, "id"))
	if club == nil {
		if msg := store.Err(); msg != "" {
			h.log.Error("fetch club failed", zap.String("error", msg))
			respond.Error(w, http.StatusBadGateway, "failed to fetch club")
			return
		}
		respond.Error(w, http.StatusNotFound, "club not found")
		return
	}
	reviews, err := middleware.Client(r).ListReviews(r.Context(), club.ID)
	if err != nil {
		respondErr(w, h.log, "list reviews", err)
		return
	}
	respond.JSON(w, http.StatusOK, "club", dto.ClubDetails{Club: *club, Reviews: reviews})
}

func (h *ClubsHandler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := middleware.Client(r).ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, h.log, "list reviews", err)
		return
	}
	respond.JSON(w, http.StatusOK, "reviews", reviews)
}

func (h *ClubsHandler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReviewRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	review, err := middleware.Client(r).InsertReview(r.Context(), models.Review{
		ClubID:  chi.URLParam(r, "id"),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondErr(w, h.log, "create review", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "review recorded", review)
}

func (h *ClubsHandler) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	booking, err := middleware.Client(r).InsertBooking(r.Context(), models.Booking{
		ClubID: chi.URLParam(r, "id"),
		Date:   req.Date,
		Amount: req.Amount,
	})
	if err != nil {
		respondErr(w, h.log, "create booking", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "booking recorded", booking)
}
