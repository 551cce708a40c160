package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hongminglow/club-finder/internal/gateway"
)

type ctxKey string

const clientKey ctxKey = "gatewayClient"

// WithClient binds a gateway client carrying the request's bearer token to the request context.
func WithClient(root *gateway.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := root.WithAccessToken(BearerToken(r))
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientKey, client)))
		})
	}
}

// Client returns the request's gateway client. It panics when WithClient is not installed.
func Client(r *http.Request) *gateway.Client {
	client, ok := r.Context().Value(clientKey).(*gateway.Client)
	if !ok {
		panic("middleware: gateway client missing from request context")
	}
	return client
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
