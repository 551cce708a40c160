package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/guard"
	"github.com/hongminglow/club-finder/internal/http/respond"
	"github.com/hongminglow/club-finder/internal/middleware"
	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/models/dto"
	"github.com/hongminglow/club-finder/internal/session"
)

// AuthHandler owns the register, login, logout and session endpoints.
type AuthHandler struct {
	log *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(log *zap.Logger) *AuthHandler {
	return &AuthHandler{log: log.Named("auth")}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r chi.Router) {
	guarded(r, h.log, guard.RouteLogin, http.MethodGet, "/login", h.handleLoginForm)
	guarded(r, h.log, guard.RouteLogin, http.MethodPost, "/login", h.handleLogin)
	guarded(r, h.log, guard.RouteRegister, http.MethodGet, "/register", h.handleRegisterForm)
	guarded(r, h.log, guard.RouteRegister, http.MethodPost, "/register", h.handleRegister)
	guarded(r, h.log, guard.RouteLogout, http.MethodPost, "/logout", h.handleLogout)
	r.Get("/session", h.handleSession)
}

func (h *AuthHandler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "submit email and password", map[string]string{
		"redirect": r.URL.Query().Get(guard.RedirectParam),
	})
}

func (h *AuthHandler) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "submit email, password, full_name and role", map[string][]models.Role{
		"roles": {models.RoleUser, models.RoleClubOwner},
	})
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	role := models.RoleUser
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			respond.Error(w, http.StatusBadRequest, fmt.Sprintf("unknown role %q", req.Role))
			return
		}
		role = parsed
	}
	if role == models.RoleAdmin {
		respond.Error(w, http.StatusForbidden, "admin accounts cannot self-register")
		return
	}

	store := sessionFor(r, h.log, nil)
	if err := store.Register(r.Context(), req.Email, req.Password, req.FullName, role); err != nil {
		respondErr(w, h.log, "register", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "User created successfully", h.sessionResponse(r, store))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	store := sessionFor(r, h.log, nil)
	if err := store.Login(r.Context(), req.Email, req.Password); err != nil {
		respondErr(w, h.log, "login", err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", h.sessionResponse(r, store))
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var location string
	store := sessionFor(r, h.log, session.NavigatorFunc(func(path string) { location = path }))
	store.Logout(r.Context())
	if msg := store.Err(); msg != "" {
		respond.JSON(w, http.StatusOK, "signed out locally; remote sign-out failed: "+msg, map[string]string{"location": location})
		return
	}
	respond.JSON(w, http.StatusOK, "logout successful", map[string]string{"location": location})
}

func (h *AuthHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	store := sessionFor(r, h.log, nil)
	store.InitializeAuth(r.Context())
	if msg := store.Err(); msg != "" {
		h.log.Error("initialize auth failed", zap.String("error", msg))
		respond.Error(w, http.StatusInternalServerError, "session lookup failed")
		return
	}
	if store.User() == nil {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	respond.JSON(w, http.StatusOK, "session active", h.sessionResponse(r, store))
}

func (h *AuthHandler) sessionResponse(r *http.Request, store *session.Store) dto.SessionResponse {
	client := middleware.Client(r)
	out := dto.SessionResponse{Token: client.AccessToken(), Profile: store.Profile()}
	if user := store.User(); user != nil {
		out.User = *user
	}
	if sess, err := client.GetSession(r.Context()); err == nil && sess != nil {
		out.ExpiresAt = sess.ExpiresAt
	}
	return out
}
