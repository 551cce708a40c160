package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/storage"
)

type fakeGateway struct {
	clubs     []models.Club
	listErr   error
	lastQuery storage.ClubQuery

	byID   map[string]models.Club
	getErr error

	inserted  []models.Club
	insertErr error

	updateRows []models.Club
	updateErr  error

	// observe is called inside each gateway call so tests can inspect store state mid-flight.
	observe func()
}

func (f *fakeGateway) seen() {
	if f.observe != nil {
		f.observe()
	}
}

func (f *fakeGateway) ListClubs(_ context.Context, q storage.ClubQuery) ([]models.Club, error) {
	f.seen()
	f.lastQuery = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Club(nil), f.clubs...), nil
}

func (f *fakeGateway) ClubByID(_ context.Context, id string) (models.Club, error) {
	f.seen()
	if f.getErr != nil {
		return models.Club{}, f.getErr
	}
	club, ok := f.byID[id]
	if !ok {
		return models.Club{}, storage.ErrNotFound
	}
	return club, nil
}

func (f *fakeGateway) InsertClub(_ context.Context, club models.Club) (models.Club, error) {
	f.seen()
	f.inserted = append(f.inserted, club)
	if f.insertErr != nil {
		return models.Club{}, f.insertErr
	}
	club.ID = "new"
	return club, nil
}

func (f *fakeGateway) UpdateClub(_ context.Context, id string, patch models.ClubPatch) ([]models.Club, error) {
	f.seen()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateRows, nil
}

func TestFetchAllReplacesCollection(t *testing.T) {
	gw := &fakeGateway{clubs: []models.Club{{ID: "1", City: "NY"}, {ID: "2", City: "LA"}}}
	store := NewStore(gw, nil)

	var loadingDuringCall bool
	gw.observe = func() { loadingDuringCall = store.Loading() }

	store.FetchAll(context.Background())

	assert.True(t, loadingDuringCall)
	assert.False(t, store.Loading())
	assert.Empty(t, store.Err())
	assert.Len(t, store.Clubs(), 2)
	require.NotNil(t, gw.lastQuery.Approved)
	assert.True(t, *gw.lastQuery.Approved)
}

func TestFetchAllFailureKeepsCollection(t *testing.T) {
	gw := &fakeGateway{clubs: []models.Club{{ID: "1"}}}
	store := NewStore(gw, nil)
	store.FetchAll(context.Background())

	gw.listErr = errors.New("network down")
	store.FetchAll(context.Background())

	assert.Equal(t, "network down", store.Err())
	assert.False(t, store.Loading())
	assert.Equal(t, []string{"1"}, ids(store.Clubs()))
}

func TestFetchByIDDoesNotTouchCollection(t *testing.T) {
	gw := &fakeGateway{
		clubs: []models.Club{{ID: "1"}},
		byID:  map[string]models.Club{"9": {ID: "9", Name: "Hidden gem"}},
	}
	store := NewStore(gw, nil)
	store.FetchAll(context.Background())

	club := store.FetchByID(context.Background(), "9")
	require.NotNil(t, club)
	assert.Equal(t, "Hidden gem", club.Name)
	assert.Equal(t, []string{"1"}, ids(store.Clubs()))

	assert.Nil(t, store.FetchByID(context.Background(), "missing"))
	assert.Empty(t, store.Err(), "not found is not an error")

	gw.getErr = errors.New("timeout")
	assert.Nil(t, store.FetchByID(context.Background(), "9"))
	assert.Equal(t, "timeout", store.Err())
}

func TestCreateForcesModerationFlags(t *testing.T) {
	gw := &fakeGateway{}
	store := NewStore(gw, nil)

	created, err := store.Create(context.Background(), ClubInput{
		Name:       "Sneaky",
		OwnerID:    "owner-1",
		IsApproved: true,
		IsPremium:  true,
	})
	require.NoError(t, err)
	require.Len(t, gw.inserted, 1)
	assert.False(t, gw.inserted[0].IsApproved)
	assert.False(t, gw.inserted[0].IsPremium)
	assert.Equal(t, "owner-1", gw.inserted[0].OwnerID)
	assert.Equal(t, "new", created.ID)
}

func TestCreateFailureRecordsError(t *testing.T) {
	gw := &fakeGateway{insertErr: errors.New("row-level access denied")}
	store := NewStore(gw, nil)

	_, err := store.Create(context.Background(), ClubInput{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, "row-level access denied", store.Err())
	assert.False(t, store.Loading())
}

func TestUpdateReplacesOnlyMatchingEntry(t *testing.T) {
	gw := &fakeGateway{clubs: []models.Club{{ID: "1", Name: "One"}, {ID: "2", Name: "Two"}}}
	store := NewStore(gw, nil)
	store.FetchAll(context.Background())

	returned := models.Club{ID: "2", Name: "Two (renamed)", City: "LA"}
	gw.updateRows = []models.Club{returned}

	name := "ignored by the fake"
	updated, err := store.Update(context.Background(), "2", models.ClubPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, returned, updated)

	clubs := store.Clubs()
	assert.Equal(t, models.Club{ID: "1", Name: "One"}, clubs[0])
	assert.Equal(t, returned, clubs[1])
}

func TestUpdateFailureLeavesEntryStale(t *testing.T) {
	gw := &fakeGateway{clubs: []models.Club{{ID: "1", Name: "One"}}}
	store := NewStore(gw, nil)
	store.FetchAll(context.Background())

	gw.updateErr = errors.New("conflict")
	name := "New"
	_, err := store.Update(context.Background(), "1", models.ClubPatch{Name: &name})
	require.Error(t, err)
	assert.Equal(t, "conflict", store.Err())
	assert.Equal(t, "One", store.Clubs()[0].Name)

	gw.updateErr = nil
	gw.updateRows = nil
	_, err = store.Update(context.Background(), "1", models.ClubPatch{Name: &name})
	assert.ErrorIs(t, err, ErrClubNotFound)
}

func TestFilteredViewFollowsInputs(t *testing.T) {
	gw := &fakeGateway{clubs: sampleClubs()}
	store := NewStore(gw, nil)
	store.FetchAll(context.Background())

	assert.Equal(t, []string{"1", "2", "3"}, ids(store.Filtered()))

	ny := "NY"
	store.SetFilters(FilterPatch{City: &ny})
	assert.Equal(t, []string{"1", "3"}, ids(store.Filtered()))

	squash := []string{"squash"}
	store.SetFilters(FilterPatch{Sports: &squash})
	assert.Equal(t, "NY", store.Filters().City, "unspecified fields keep their value")
	assert.Equal(t, []string{"3"}, ids(store.Filtered()))

	gw.updateRows = []models.Club{{ID: "3", City: "LA", Sports: []string{"squash"}}}
	_, err := store.Update(context.Background(), "3", models.ClubPatch{City: new(string)})
	require.NoError(t, err)
	assert.Empty(t, store.Filtered(), "view is recomputed after the collection changes")

	store.ReplaceFilters(Filters{})
	assert.Len(t, store.Filtered(), 3)
}

func TestApproveSetsFlags(t *testing.T) {
	gw := &fakeGateway{updateRows: []models.Club{{ID: "1", IsApproved: true, IsPremium: true}}}
	store := NewStore(gw, nil)

	club, err := store.Approve(context.Background(), "1", true)
	require.NoError(t, err)
	assert.True(t, club.IsApproved)
}

func TestFetchPendingAndByOwnerQueries(t *testing.T) {
	gw := &fakeGateway{}
	store := NewStore(gw, nil)

	store.FetchPending(context.Background())
	require.NotNil(t, gw.lastQuery.Approved)
	assert.False(t, *gw.lastQuery.Approved)

	store.FetchByOwner(context.Background(), "owner-1")
	assert.Nil(t, gw.lastQuery.Approved)
	assert.Equal(t, "owner-1", gw.lastQuery.OwnerID)
	assert.Empty(t, store.Clubs())
}
