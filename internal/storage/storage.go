package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hongminglow/club-finder/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore persists auth identities.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
}

// ProfileStore persists the profiles table.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	ProfileByUserID(ctx context.Context, userID string) (models.Profile, error)
}

// ClubQuery narrows ListClubs. Zero values impose no constraint.
type ClubQuery struct {
	Approved *bool
	OwnerID  string
}

// ClubStore persists the clubs table.
type ClubStore interface {
	ListClubs(ctx context.Context, q ClubQuery) ([]models.Club, error)
	ClubByID(ctx context.Context, id string) (models.Club, error)
	InsertClub(ctx context.Context, club models.Club) (models.Club, error)
	// UpdateClub returns the updated rows; an unknown id yields an empty slice.
	UpdateClub(ctx context.Context, id string, patch models.ClubPatch) ([]models.Club, error)
}

// ReviewStore persists the reviews table.
type ReviewStore interface {
	InsertReview(ctx context.Context, review models.Review) (models.Review, error)
	ListReviews(ctx context.Context, clubID string) ([]models.Review, error)
}

// BookingQuery narrows ListBookings. Zero values impose no constraint.
type BookingQuery struct {
	UserID string
	ClubID string
}

// BookingStore persists the bookings table.
type BookingStore interface {
	InsertBooking(ctx context.Context, booking models.Booking) (models.Booking, error)
	ListBookings(ctx context.Context, q BookingQuery) ([]models.Booking, error)
}

// Revocations remembers signed-out token ids until they expire on their own.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Backend is the full row store behind the gateway.
type Backend interface {
	UserStore
	ProfileStore
	ClubStore
	ReviewStore
	BookingStore
}
