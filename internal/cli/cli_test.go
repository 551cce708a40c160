package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/club-finder/internal/auth"
	"github.com/hongminglow/club-finder/internal/gateway"
	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/storage/storagetest"
)

type fixture struct {
	backend  *storagetest.Backend
	client   *gateway.Client
	released int
}

func newFixture() *fixture {
	backend := storagetest.New()
	tokens := auth.NewTokenManager("cli-secret", "club-finder", time.Hour)
	return &fixture{backend: backend, client: gateway.New(backend, tokens, backend, nil)}
}

func (f *fixture) connect(context.Context) (*gateway.Client, func(), error) {
	return f.client, func() { f.released++ }, nil
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(f.connect)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func (f *fixture) account(t *testing.T, email string, role models.Role) string {
	t.Helper()
	c := f.client.WithAccessToken("")
	sess, err := c.SignUp(context.Background(), email, "correct horse")
	require.NoError(t, err)
	_, err = c.InsertProfile(context.Background(), models.Profile{UserID: sess.User.ID, FullName: email, Role: role})
	require.NoError(t, err)
	return sess.AccessToken
}

func TestInvalidFormat(t *testing.T) {
	f := newFixture()
	_, err := f.run(t, "--format", "yaml", "clubs", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestConnectFailure(t *testing.T) {
	cmd := NewRootCommand(func(context.Context) (*gateway.Client, func(), error) {
		return nil, nil, errors.New("no database")
	})
	cmd.SetArgs([]string{"clubs", "list"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	assert.EqualError(t, err, "no database")
}

func TestClubsListFilters(t *testing.T) {
	f := newFixture()
	f.backend.SeedClub(models.Club{ID: "c1", Name: "Ace", City: "NY", Sports: []string{"tennis"}, IsApproved: true})
	f.backend.SeedClub(models.Club{ID: "c2", Name: "Fairway", City: "LA", Sports: []string{"golf"}, IsApproved: true, IsPremium: true})
	f.backend.SeedClub(models.Club{ID: "c3", Name: "Pending", City: "NY", Sports: []string{"tennis"}})

	out, err := f.run(t, "clubs", "list", "--city", "NY")
	require.NoError(t, err)
	assert.Contains(t, out, "Ace")
	assert.NotContains(t, out, "Fairway")
	assert.NotContains(t, out, "Pending")
	assert.Equal(t, 1, f.released)

	out, err = f.run(t, "--format", "json", "clubs", "list", "--sport", "golf")
	require.NoError(t, err)
	var clubs []models.Club
	require.NoError(t, json.Unmarshal([]byte(out), &clubs))
	require.Len(t, clubs, 1)
	assert.Equal(t, "c2", clubs[0].ID)
}

func TestClubsApproveRequiresAdmin(t *testing.T) {
	f := newFixture()
	pending := f.backend.SeedClub(models.Club{Name: "Pending", OwnerID: "someone", City: "NY"})
	fan := f.account(t, "fan@example.com", models.RoleUser)
	admin := f.account(t, "admin@example.com", models.RoleAdmin)

	_, err := f.run(t, "--token", fan, "clubs", "approve", pending.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrForbidden)

	out, err := f.run(t, "--token", admin, "clubs", "list", "--pending")
	require.NoError(t, err)
	assert.Contains(t, out, pending.ID)

	out, err = f.run(t, "--token", admin, "clubs", "approve", pending.ID, "--premium")
	require.NoError(t, err)
	assert.Contains(t, out, "status:     premium")

	out, err = f.run(t, "clubs", "show", pending.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Pending ("+pending.ID+")")

	_, err = f.run(t, "--token", admin, "clubs", "approve", "missing")
	assert.EqualError(t, err, "club missing not found")
}

func TestClubsShowHidesPending(t *testing.T) {
	f := newFixture()
	pending := f.backend.SeedClub(models.Club{Name: "Pending"})

	_, err := f.run(t, "clubs", "show", pending.ID)
	assert.Error(t, err)
}

func TestAuthRegisterLoginWhoami(t *testing.T) {
	f := newFixture()

	out, err := f.run(t, "auth", "register", "--email", "owner@example.com", "--password", "correct horse",
		"--name", "Olive", "--role", "club_owner")
	require.NoError(t, err)
	assert.Contains(t, out, "role:  club_owner")
	assert.Contains(t, out, "export "+tokenEnv+"=")

	_, err = f.run(t, "auth", "login", "--email", "owner@example.com", "--password", "wrong password")
	assert.ErrorIs(t, err, gateway.ErrInvalidCredentials)

	out, err = f.run(t, "--format", "json", "auth", "login", "--email", "owner@example.com", "--password", "correct horse")
	require.NoError(t, err)
	var view sessionView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.NotEmpty(t, view.Token)

	out, err = f.run(t, "--token", view.Token, "auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "owner@example.com")
	assert.NotContains(t, out, "token:")

	out, err = f.run(t, "auth", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "not signed in", strings.TrimSpace(out))
}

func TestNavigate(t *testing.T) {
	f := newFixture()
	owner := f.account(t, "owner@example.com", models.RoleClubOwner)

	out, err := f.run(t, "navigate", "/club-owner")
	require.NoError(t, err)
	assert.Equal(t, "redirect /club-owner -> /login?redirect=%2Fclub-owner\n", out)

	out, err = f.run(t, "--token", owner, "navigate", "/club-owner")
	require.NoError(t, err)
	assert.Equal(t, "allow /club-owner (club-owner-dashboard)\n", out)

	out, err = f.run(t, "--token", owner, "--format", "json", "navigate", "/admin")
	require.NoError(t, err)
	var view navigationView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, navigationView{Route: "admin-dashboard", Outcome: "redirect", Location: "/"}, view)
}
