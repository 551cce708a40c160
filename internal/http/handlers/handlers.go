package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/catalog"
	"github.com/hongminglow/club-finder/internal/gateway"
	"github.com/hongminglow/club-finder/internal/guard"
	"github.com/hongminglow/club-finder/internal/http/respond"
	"github.com/hongminglow/club-finder/internal/middleware"
	"github.com/hongminglow/club-finder/internal/session"
	"github.com/hongminglow/club-finder/internal/storage"
)

// guarded mounts a handler behind the guard check for the named route.
func guarded(r chi.Router, log *zap.Logger, routeName, method, pattern string, h http.HandlerFunc) {
	route, ok := guard.ByName(routeName)
	if !ok {
		panic("handlers: unknown route " + routeName)
	}
	r.With(middleware.Guard(route, log)).Method(method, pattern, h)
}

// stores builds request-scoped stores bound to the request's gateway client.
func catalogFor(r *http.Request, log *zap.Logger) *catalog.Store {
	return catalog.NewStore(middleware.Client(r), log.Named("catalog"))
}

func sessionFor(r *http.Request, log *zap.Logger, nav session.Navigator) *session.Store {
	return session.NewStore(middleware.Client(r), nav, log.Named("session"))
}

// statusFor maps gateway and store errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gateway.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrInvalidCredentials), errors.Is(err, gateway.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, gateway.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, catalog.ErrClubNotFound):
		return http.StatusNotFound
	case errors.Is(err, gateway.ErrUserExists), errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondErr(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(op+" failed", zap.Error(err))
		respond.Error(w, status, op+" failed")
		return
	}
	respond.Error(w, status, err.Error())
}

// filtersFromQuery reads catalog filters from ?city=&sport=&facility=&price=&q=.
// sport and facility may repeat or carry comma-separated values.
func filtersFromQuery(q url.Values) catalog.Filters {
	return catalog.Filters{
		City:        strings.TrimSpace(q.Get("city")),
		Sports:      multi(q["sport"]),
		PriceRange:  strings.TrimSpace(q.Get("price")),
		Facilities:  multi(q["facility"]),
		SearchQuery: strings.TrimSpace(q.Get("q")),
	}
}

func multi(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
