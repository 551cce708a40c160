// Package catalog holds the fetched club collection and the active filters and
// derives the filtered view from them.
package catalog

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/storage"
)

// Gateway is the slice of the data gateway the catalog needs.
type Gateway interface {
	ListClubs(ctx context.Context, q storage.ClubQuery) ([]models.Club, error)
	ClubByID(ctx context.Context, id string) (models.Club, error)
	InsertClub(ctx context.Context, club models.Club) (models.Club, error)
	UpdateClub(ctx context.Context, id string, patch models.ClubPatch) ([]models.Club, error)
}

// ClubInput is what a club owner submits. Moderation flags are carried so that
// callers can pass raw requests through, but Create always overrides them.
type ClubInput struct {
	Name        string
	Description string
	Address     string
	Latitude    float64
	Longitude   float64
	OwnerID     string
	Sports      []string
	Facilities  []string
	PriceRange  string
	Images      []string
	City        string
	IsApproved  bool
	IsPremium   bool
}

// ErrClubNotFound is returned by Update when the gateway updated no row.
var ErrClubNotFound = errors.New("club not found")

// Store owns the club collection, the filters and the derived view.
//
// The loading flag is advisory: overlapping calls are not serialized, and when two
// fetches overlap the one that completes last wins. The mutex only guards field
// access; it is never held across a gateway call.
type Store struct {
	gw  Gateway
	log *zap.Logger

	mu      sync.RWMutex
	clubs   []models.Club
	filters Filters
	loading bool
	err     string

	view      []models.Club
	viewValid bool
}

// NewStore creates an empty catalog bound to gw.
func NewStore(gw Gateway, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{gw: gw, log: log, clubs: []models.Club{}}
}

// Clubs returns a copy of the held collection.
func (s *Store) Clubs() []models.Club {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Club(nil), s.clubs...)
}

// Filters returns the active criteria.
func (s *Store) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last recorded error message, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Filtered returns the clubs matching the active filters. The result is memoized
// until the collection or the filters change.
func (s *Store) Filtered() []models.Club {
	s.mu.RLock()
	if s.viewValid {
		view := append([]models.Club(nil), s.view...)
		s.mu.RUnlock()
		return view
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.viewValid {
		s.view = Apply(s.clubs, s.filters)
		s.viewValid = true
	}
	return append([]models.Club(nil), s.view...)
}

// SetFilters merges patch into the active filters.
func (s *Store) SetFilters(patch FilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.Merge(patch)
	s.viewValid = false
}

// ReplaceFilters swaps the active filters wholesale.
func (s *Store) ReplaceFilters(f Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
	s.viewValid = false
}

// begin marks an operation as started and clears the previous error.
func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) fail(op string, err error) {
	s.log.Warn("catalog operation failed", zap.String("op", op), zap.Error(err))
	s.mu.Lock()
	s.err = err.Error()
	s.mu.Unlock()
}

func (s *Store) replace(clubs []models.Club) {
	if clubs == nil {
		clubs = []models.Club{}
	}
	s.mu.Lock()
	s.clubs = clubs
	s.viewValid = false
	s.mu.Unlock()
}

// FetchAll loads every approved club. On failure the held collection is kept.
func (s *Store) FetchAll(ctx context.Context) {
	approved := true
	s.fetch(ctx, "fetch_all", storage.ClubQuery{Approved: &approved})
}

// FetchByOwner loads the clubs of one owner, approved or not.
func (s *Store) FetchByOwner(ctx context.Context, ownerID string) {
	s.fetch(ctx, "fetch_by_owner", storage.ClubQuery{OwnerID: ownerID})
}

// FetchPending loads the clubs awaiting approval.
func (s *Store) FetchPending(ctx context.Context) {
	approved := false
	s.fetch(ctx, "fetch_pending", storage.ClubQuery{Approved: &approved})
}

func (s *Store) fetch(ctx context.Context, op string, q storage.ClubQuery) {
	s.begin()
	defer s.end()

	clubs, err := s.gw.ListClubs(ctx, q)
	if err != nil {
		s.fail(op, err)
		return
	}
	s.replace(clubs)
}

// FetchByID returns one club, or nil when it does not exist or the call fails.
// The held collection is not touched.
func (s *Store) FetchByID(ctx context.Context, id string) *models.Club {
	s.begin()
	defer s.end()

	club, err := s.gw.ClubByID(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.fail("fetch_by_id", err)
		}
		return nil
	}
	return &club
}

// Create submits a new listing. The listing always starts unapproved and non-premium.
func (s *Store) Create(ctx context.Context, in ClubInput) (models.Club, error) {
	s.begin()
	defer s.end()

	club := models.Club{
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		OwnerID:     in.OwnerID,
		Sports:      in.Sports,
		Facilities:  in.Facilities,
		PriceRange:  in.PriceRange,
		Images:      in.Images,
		City:        in.City,
		IsApproved:  false,
		IsPremium:   false,
	}
	created, err := s.gw.InsertClub(ctx, club)
	if err != nil {
		s.fail("create", err)
		return models.Club{}, err
	}
	s.log.Info("club submitted", zap.String("club_id", created.ID), zap.String("owner_id", created.OwnerID))
	return created, nil
}

// Update submits a partial update and, on success, swaps the matching held entry
// for the row the gateway returned. On failure the held entry is left as it was.
func (s *Store) Update(ctx context.Context, id string, patch models.ClubPatch) (models.Club, error) {
	s.begin()
	defer s.end()

	rows, err := s.gw.UpdateClub(ctx, id, patch)
	if err != nil {
		s.fail("update", err)
		return models.Club{}, err
	}
	if len(rows) == 0 {
		s.fail("update", ErrClubNotFound)
		return models.Club{}, ErrClubNotFound
	}
	updated := rows[0]

	s.mu.Lock()
	for i := range s.clubs {
		if s.clubs[i].ID == id {
			s.clubs[i] = updated
			s.viewValid = false
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Approve publishes a pending club, optionally marking it premium.
func (s *Store) Approve(ctx context.Context, id string, premium bool) (models.Club, error) {
	approved := true
	return s.Update(ctx, id, models.ClubPatch{IsApproved: &approved, IsPremium: &premium})
}
