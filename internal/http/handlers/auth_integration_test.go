package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/auth"
	"github.com/hongminglow/club-finder/internal/gateway"
	"github.com/hongminglow/club-finder/internal/middleware"
	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/models/dto"
	"github.com/hongminglow/club-finder/internal/storage/postgres"
)

// TestAuthIntegration exercises register, login, session and logout against a live Postgres.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	secret := mustGetEnv(t, "JWT_SECRET")
	issuer := mustGetEnv(t, "JWT_ISSUER")
	ttl := mustGetTTL(t)
	tokens := auth.NewTokenManager(secret, issuer, ttl)
	client := gateway.New(store, tokens, store, zap.NewNop())

	r := chi.NewRouter()
	r.Use(middleware.WithClient(client))
	NewAuthHandler(zap.NewNop()).Register(r)

	ts := httptest.NewServer(r)
	defer ts.Close()

	email := fmt.Sprintf("apitest_%d@example.com", time.Now().UnixNano())
	password := fmt.Sprintf("Pass!%d", time.Now().UnixNano())

	registered := requestSession(t, ts.URL+"/register", "", http.StatusCreated, dto.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "API Test",
		Role:     string(models.RoleClubOwner),
	})
	if registered.User.Email != email {
		t.Fatalf("register mismatch: got %+v", registered.User)
	}
	if registered.Profile == nil || registered.Profile.Role != models.RoleClubOwner {
		t.Fatalf("register returned profile %+v", registered.Profile)
	}

	loggedIn := requestSession(t, ts.URL+"/login", "", http.StatusOK, dto.LoginRequest{Email: email, Password: password})
	if loggedIn.User.ID != registered.User.ID {
		t.Fatalf("login returned wrong user id: want %s got %s", registered.User.ID, loggedIn.User.ID)
	}
	if strings.TrimSpace(loggedIn.Token) == "" {
		t.Fatal("login response missing token")
	}

	current := requestSession(t, ts.URL+"/session", loggedIn.Token, http.StatusOK, nil)
	if current.User.ID != registered.User.ID {
		t.Fatalf("session returned wrong user id: want %s got %s", registered.User.ID, current.User.ID)
	}

	doRequest(t, http.MethodPost, ts.URL+"/logout", loggedIn.Token, nil, http.StatusOK)
	doRequest(t, http.MethodGet, ts.URL+"/session", loggedIn.Token, nil, http.StatusUnauthorized)

	t.Logf("registered %s (id=%s), logged in and revoked the session", email, registered.User.ID)
}

type envelopeBody struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func requestSession(t *testing.T, url, token string, wantStatus int, payload any) dto.SessionResponse {
	t.Helper()
	method := http.MethodPost
	if payload == nil {
		method = http.MethodGet
	}
	env := doRequest(t, method, url, token, payload, wantStatus)

	var out dto.SessionResponse
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	return out
}

func doRequest(t *testing.T, method, url, token string, payload any, wantStatus int) envelopeBody {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s status = %d, want %d", method, url, resp.StatusCode, wantStatus)
	}

	var env envelopeBody
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func mustGetTTL(t *testing.T) time.Duration {
	t.Helper()
	minutesStr := mustGetEnv(t, "JWT_TTL_MINUTES")
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes <= 0 {
		t.Fatalf("invalid JWT_TTL_MINUTES value: %q", minutesStr)
	}
	return time.Duration(minutes) * time.Minute
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
		"../../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
