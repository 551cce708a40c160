package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/storage"
)

// InsertReview stores a review.
func (s *Store) InsertReview(ctx context.Context, r models.Review) (models.Review, error) {
	const query = `
		INSERT INTO reviews (club_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, club_id, user_id, rating, comment;
	`
	row := s.pool.QueryRow(ctx, query, r.ClubID, r.UserID, r.Rating, r.Comment)
	var out models.Review
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.ClubID, &out.UserID, &out.Rating, &out.Comment); err != nil {
		return models.Review{}, mapError(err)
	}
	return out, nil
}

// ListReviews returns the reviews of a club, newest first.
func (s *Store) ListReviews(ctx context.Context, clubID string) ([]models.Review, error) {
	const query = `
	SELECT id, created_at, club_id, user_id, rating, comment
	FROM reviews
	WHERE club_id = $1
	ORDER BY created_at DESC;
	`
	rows, err := s.pool.Query(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.ClubID, &r.UserID, &r.Rating, &r.Comment); err != nil {
			return nil, mapError(err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

const bookingColumns = `id, created_at, club_id, user_id, to_char(date, 'YYYY-MM-DD'), status, payment_status, amount::float8`

// InsertBooking stores a booking.
func (s *Store) InsertBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	query := `
		INSERT INTO bookings (club_id, user_id, date, status, payment_status, amount)
		VALUES ($1, $2, $3::date, $4, $5, $6)
		RETURNING ` + bookingColumns + `;`
	row := s.pool.QueryRow(ctx, query, b.ClubID, b.UserID, b.Date, b.Status, b.PaymentStatus, b.Amount)
	return scanBooking(row)
}

// ListBookings returns bookings matching q, soonest date first.
func (s *Store) ListBookings(ctx context.Context, q storage.BookingQuery) ([]models.Booking, error) {
	var (
		where []string
		args  []any
	)
	if q.UserID != "" {
		args = append(args, q.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if q.ClubID != "" {
		args = append(args, q.ClubID)
		where = append(where, fmt.Sprintf("club_id = $%d", len(args)))
	}
	query := "SELECT " + bookingColumns + " FROM bookings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date ASC, created_at ASC;"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func scanBooking(row pgx.Row) (models.Booking, error) {
	var b models.Booking
	if err := row.Scan(&b.ID, &b.CreatedAt, &b.ClubID, &b.UserID, &b.Date, &b.Status, &b.PaymentStatus, &b.Amount); err != nil {
		return models.Booking{}, mapError(err)
	}
	return b, nil
}
