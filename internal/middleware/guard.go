package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/guard"
)

// Guard runs the route guard before next and turns a redirect decision into a 303.
func Guard(route guard.Route, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := guard.New(Client(r), log).Check(r.Context(), route, r.URL.RequestURI())
			if !decision.Allowed() {
				log.Debug("navigation redirected",
					zap.String("route", route.Name),
					zap.String("location", decision.Location()))
				http.Redirect(w, r, decision.Location(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
