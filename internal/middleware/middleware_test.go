package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/auth"
	"github.com/hongminglow/club-finder/internal/gateway"
	"github.com/hongminglow/club-finder/internal/guard"
	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/storage/storagetest"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer   abc  ", "abc"},
		{"BEARER abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, BearerToken(r), tt.header)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://clubs.example"})(ok)

	r := httptest.NewRequest(http.MethodGet, "/clubs", nil)
	r.Header.Set("Origin", "https://CLUBS.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://CLUBS.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	r = httptest.NewRequest(http.MethodGet, "/clubs", nil)
	r.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodOptions, "/clubs", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSWildcard(t *testing.T) {
	h := CORS([]string{"*"})(ok)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://anywhere.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func newRoot() *gateway.Client {
	backend := storagetest.New()
	tokens := auth.NewTokenManager("secret", "club-finder", time.Hour)
	return gateway.New(backend, tokens, backend, nil)
}

func TestWithClientBindsBearerToken(t *testing.T) {
	var got string
	h := WithClient(newRoot())(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = Client(r).AccessToken()
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "tok", got)
}

func TestClientPanicsWithoutMiddleware(t *testing.T) {
	assert.Panics(t, func() { Client(httptest.NewRequest(http.MethodGet, "/", nil)) })
}

func TestGuardMiddleware(t *testing.T) {
	root := newRoot()
	profile, found := guard.ByName(guard.RouteProfile)
	require.True(t, found)
	h := WithClient(root)(Guard(profile, zap.NewNop())(ok))

	r := httptest.NewRequest(http.MethodGet, "/profile?tab=bookings", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?redirect=%2Fprofile%3Ftab%3Dbookings", w.Header().Get("Location"))

	c := root.WithAccessToken("")
	sess, err := c.SignUp(context.Background(), "fan@example.com", "correct horse")
	require.NoError(t, err)
	_, err = c.InsertProfile(context.Background(), models.Profile{UserID: sess.User.ID, FullName: "Fan", Role: models.RoleUser})
	require.NoError(t, err)

	r = httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
