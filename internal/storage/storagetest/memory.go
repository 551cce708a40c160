// Package storagetest provides an in-memory storage.Backend for tests.
package storagetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/storage"
)

var (
	_ storage.Backend     = (*Backend)(nil)
	_ storage.Revocations = (*Backend)(nil)
)

// Backend keeps every table in maps guarded by one mutex.
// Setting Fail makes every call return that error.
type Backend struct {
	mu       sync.Mutex
	users    map[string]models.User
	profiles map[string]models.Profile
	clubs    map[string]models.Club
	reviews  []models.Review
	bookings []models.Booking
	revoked  map[string]time.Time
	clock    func() time.Time

	Fail error
}

// New returns an empty backend.
func New() *Backend {
	return &Backend{
		users:    map[string]models.User{},
		profiles: map[string]models.Profile{},
		clubs:    map[string]models.Club{},
		revoked:  map[string]time.Time{},
		clock:    time.Now,
	}
}

// SeedClub stores a club as-is, assigning an id when empty.
func (b *Backend) SeedClub(c models.Club) models.Club {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = b.clock()
	}
	b.clubs[c.ID] = c
	return c
}

// SetRole rewrites the role of an existing profile.
func (b *Backend) SetRole(userID string, role models.Role) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.profiles[userID]; ok {
		p.Role = role
		b.profiles[userID] = p
	}
}

func (b *Backend) CreateUser(_ context.Context, user models.User) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return models.User{}, b.Fail
	}
	for _, existing := range b.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = b.clock()
	b.users[user.ID] = user
	return user, nil
}

func (b *Backend) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return models.User{}, b.Fail
	}
	for _, u := range b.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (b *Backend) FindUserByID(_ context.Context, id string) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return models.User{}, b.Fail
	}
	u, ok := b.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (b *Backend) CreateProfile(_ context.Context, p models.Profile) (models.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return models.Profile{}, b.Fail
	}
	if _, ok := b.users[p.UserID]; !ok {
		return models.Profile{}, fmt.Errorf("profile references unknown user %q", p.UserID)
	}
	if _, ok := b.profiles[p.UserID]; ok {
		return models.Profile{}, storage.ErrAlreadyExists
	}
	p.ID = uuid.NewString()
	p.CreatedAt = b.clock()
	b.profiles[p.UserID] = p
	return p, nil
}

func (b *Backend) ProfileByUserID(_ context.Context, userID string) (models.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return models.Profile{}, b.Fail
	}
	p, ok := b.profiles[userID]
	if !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	return p, nil
}

func (b *Backend) ListClubs(_ context.Context, q storage.ClubQuery) ([]models.Club, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return nil, b.Fail
	}
	out := []models.Club{}
	for _, c := range b.clubs {
		if q.Approved != nil && c.IsApproved != *q.Approved {
			continue
		}
		if q.OwnerID != "" && c.OwnerID != q.OwnerID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (b *Backend) ClubByID(_ context.Context, id string) (models.Club, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return models.Club{}, b.Fail
	}
	c, ok := b.clubs[id]
	if !ok {
		return models.Club{}, storage.ErrNotFound
	}
	return c, nil
}

func (b *Backend) InsertClub(_ context.Context, c models.Club) (models.Club, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return models.Club{}, b.Fail
	}
	c.ID = uuid.NewString()
	c.CreatedAt = b.clock()
	b.clubs[c.ID] = c
	return c, nil
}

func (b *Backend) UpdateClub(_ context.Context, id string, patch models.ClubPatch) ([]models.Club, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return nil, b.Fail
	}
	c, ok := b.clubs[id]
	if !ok {
		return []models.Club{}, nil
	}
	c = patch.Apply(c)
	b.clubs[id] = c
	return []models.Club{c}, nil
}

func (b *Backend) InsertReview(_ context.Context, r models.Review) (models.Review, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return models.Review{}, b.Fail
	}
	if _, ok := b.clubs[r.ClubID]; !ok {
		return models.Review{}, fmt.Errorf("review references unknown club %q", r.ClubID)
	}
	r.ID = uuid.NewString()
	r.CreatedAt = b.clock()
	b.reviews = append(b.reviews, r)
	return r, nil
}

func (b *Backend) ListReviews(_ context.Context, clubID string) ([]models.Review, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return nil, b.Fail
	}
	out := []models.Review{}
	for i := len(b.reviews) - 1; i >= 0; i-- {
		if b.reviews[i].ClubID == clubID {
			out = append(out, b.reviews[i])
		}
	}
	return out, nil
}

func (b *Backend) InsertBooking(_ context.Context, bk models.Booking) (models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return models.Booking{}, b.Fail
	}
	if _, ok := b.clubs[bk.ClubID]; !ok {
		return models.Booking{}, fmt.Errorf("booking references unknown club %q", bk.ClubID)
	}
	bk.ID = uuid.NewString()
	bk.CreatedAt = b.clock()
	b.bookings = append(b.bookings, bk)
	return bk, nil
}

func (b *Backend) ListBookings(_ context.Context, q storage.BookingQuery) ([]models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return nil, b.Fail
	}
	out := []models.Booking{}
	for _, bk := range b.bookings {
		if q.UserID != "" && bk.UserID != q.UserID {
			continue
		}
		if q.ClubID != "" && bk.ClubID != q.ClubID {
			continue
		}
		out = append(out, bk)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (b *Backend) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return b.Fail
	}
	b.revoked[tokenID] = expiresAt
	return nil
}

func (b *Backend) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return false, b.Fail
	}
	_, ok := b.revoked[tokenID]
	return ok, nil
}
