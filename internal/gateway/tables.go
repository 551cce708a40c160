package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/storage"
)

// ProfileByUserID reads the profile row of a user.
func (c *Client) ProfileByUserID(ctx context.Context, userID string) (models.Profile, error) {
	return c.backend.ProfileByUserID(ctx, userID)
}

// ProfileRole reads only the role column of a user's profile.
func (c *Client) ProfileRole(ctx context.Context, userID string) (models.Role, error) {
	profile, err := c.backend.ProfileByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}

// InsertProfile creates the caller's own profile row.
func (c *Client) InsertProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	v, err := c.requireViewer(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	if p.UserID != v.id {
		return models.Profile{}, ErrForbidden
	}
	role, ok := models.ParseRole(string(p.Role))
	if !ok {
		return models.Profile{}, fmt.Errorf("%w: unknown role %q", ErrValidation, p.Role)
	}
	p.Role = role
	p.FullName = c.clean(p.FullName)
	return c.backend.CreateProfile(ctx, p)
}

func canReadClub(club models.Club, v *viewer) bool {
	if club.IsApproved || v.isAdmin() {
		return true
	}
	return v != nil && club.OwnerID == v.id
}

// ListClubs returns the rows of q that the caller may read.
func (c *Client) ListClubs(ctx context.Context, q storage.ClubQuery) ([]models.Club, error) {
	rows, err := c.backend.ListClubs(ctx, q)
	if err != nil {
		return nil, err
	}
	if q.Approved != nil && *q.Approved {
		return rows, nil
	}
	v, err := c.currentViewer(ctx)
	if err != nil {
		return nil, err
	}
	visible := rows[:0]
	for _, club := range rows {
		if canReadClub(club, v) {
			visible = append(visible, club)
		}
	}
	return visible, nil
}

// ClubByID reads one club. Rows the caller may not read are reported as not found.
func (c *Client) ClubByID(ctx context.Context, id string) (models.Club, error) {
	club, err := c.backend.ClubByID(ctx, id)
	if err != nil {
		return models.Club{}, err
	}
	if club.IsApproved {
		return club, nil
	}
	v, err := c.currentViewer(ctx)
	if err != nil {
		return models.Club{}, err
	}
	if !canReadClub(club, v) {
		return models.Club{}, storage.ErrNotFound
	}
	return club, nil
}

// InsertClub stores a listing owned by the caller.
func (c *Client) InsertClub(ctx context.Context, club models.Club) (models.Club, error) {
	v, err := c.requireViewer(ctx)
	if err != nil {
		return models.Club{}, err
	}
	if !v.role.CanListClubs() {
		return models.Club{}, ErrForbidden
	}
	if club.OwnerID == "" {
		club.OwnerID = v.id
	}
	if !v.isAdmin() && (club.OwnerID != v.id || club.IsApproved || club.IsPremium) {
		return models.Club{}, ErrForbidden
	}
	club.Name = c.clean(club.Name)
	club.Description = c.clean(club.Description)
	club.Address = c.clean(club.Address)
	club.City = c.clean(club.City)
	if club.Name == "" {
		return models.Club{}, fmt.Errorf("%w: club name is required", ErrValidation)
	}
	return c.backend.InsertClub(ctx, club)
}

// UpdateClub applies patch to a club the caller owns, or any club for admins.
// Only admins may change the moderation flags or the owner.
func (c *Client) UpdateClub(ctx context.Context, id string, patch models.ClubPatch) ([]models.Club, error) {
	v, err := c.requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	existing, err := c.backend.ClubByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.Club{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !v.isAdmin() {
		if existing.OwnerID != v.id || patch.TouchesModeration() || patch.OwnerID != nil {
			return nil, ErrForbidden
		}
	}
	for _, field := range []**string{&patch.Name, &patch.Description, &patch.Address, &patch.City} {
		if *field != nil {
			cleaned := c.clean(**field)
			*field = &cleaned
		}
	}
	return c.backend.UpdateClub(ctx, id, patch)
}

// InsertReview records the caller's review of a readable club.
func (c *Client) InsertReview(ctx context.Context, r models.Review) (models.Review, error) {
	v, err := c.requireViewer(ctx)
	if err != nil {
		return models.Review{}, err
	}
	if r.UserID == "" {
		r.UserID = v.id
	}
	if r.UserID != v.id {
		return models.Review{}, ErrForbidden
	}
	if r.Rating < models.MinRating || r.Rating > models.MaxRating {
		return models.Review{}, fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, models.MinRating, models.MaxRating)
	}
	if _, err := c.ClubByID(ctx, r.ClubID); err != nil {
		return models.Review{}, err
	}
	r.Comment = c.clean(r.Comment)
	return c.backend.InsertReview(ctx, r)
}

// ListReviews returns the reviews of a club the caller may read.
func (c *Client) ListReviews(ctx context.Context, clubID string) ([]models.Review, error) {
	if _, err := c.ClubByID(ctx, clubID); err != nil {
		return nil, err
	}
	return c.backend.ListReviews(ctx, clubID)
}

// InsertBooking records a booking by the caller at an approved club.
func (c *Client) InsertBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	v, err := c.requireViewer(ctx)
	if err != nil {
		return models.Booking{}, err
	}
	if b.UserID == "" {
		b.UserID = v.id
	}
	if b.UserID != v.id {
		return models.Booking{}, ErrForbidden
	}
	if _, err := time.Parse(models.BookingDateLayout, strings.TrimSpace(b.Date)); err != nil {
		return models.Booking{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	b.Date = strings.TrimSpace(b.Date)
	if b.Amount < 0 {
		return models.Booking{}, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = models.PaymentUnpaid
	}
	if !models.ValidBookingStatus(b.Status) || !models.ValidPaymentStatus(b.PaymentStatus) {
		return models.Booking{}, fmt.Errorf("%w: unknown booking or payment status", ErrValidation)
	}
	club, err := c.backend.ClubByID(ctx, b.ClubID)
	if err != nil {
		return models.Booking{}, err
	}
	if !club.IsApproved {
		return models.Booking{}, ErrForbidden
	}
	return c.backend.InsertBooking(ctx, b)
}

// ListBookings returns bookings; non-admin callers only see their own.
func (c *Client) ListBookings(ctx context.Context, q storage.BookingQuery) ([]models.Booking, error) {
	v, err := c.requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	if !v.isAdmin() {
		if q.UserID != "" && q.UserID != v.id {
			return nil, ErrForbidden
		}
		q.UserID = v.id
	}
	return c.backend.ListBookings(ctx, q)
}
