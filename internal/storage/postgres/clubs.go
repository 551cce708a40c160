package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/storage"
)

const clubColumns = `id, created_at, name, description, address, latitude, longitude, owner_id,
	is_premium, is_approved, sports, facilities, price_range, images, rating, city`

// ListClubs returns clubs matching q, newest first.
func (s *Store) ListClubs(ctx context.Context, q storage.ClubQuery) ([]models.Club, error) {
	var (
		where []string
		args  []any
	)
	if q.Approved != nil {
		args = append(args, *q.Approved)
		where = append(where, fmt.Sprintf("is_approved = $%d", len(args)))
	}
	if q.OwnerID != "" {
		args = append(args, q.OwnerID)
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}

	query := "SELECT " + clubColumns + " FROM clubs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC;"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	clubs := []models.Club{}
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, club)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return clubs, nil
}

// ClubByID fetches a single club.
func (s *Store) ClubByID(ctx context.Context, id string) (models.Club, error) {
	query := "SELECT " + clubColumns + " FROM clubs WHERE id = $1;"
	return scanClub(s.pool.QueryRow(ctx, query, id))
}

// InsertClub stores a new club and returns the persisted row.
func (s *Store) InsertClub(ctx context.Context, c models.Club) (models.Club, error) {
	query := `
		INSERT INTO clubs (name, description, address, latitude, longitude, owner_id,
			is_premium, is_approved, sports, facilities, price_range, images, rating, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + clubColumns + `;`
	row := s.pool.QueryRow(ctx, query,
		c.Name, c.Description, c.Address, c.Latitude, c.Longitude, c.OwnerID,
		c.IsPremium, c.IsApproved, nonNil(c.Sports), nonNil(c.Facilities), c.PriceRange, nonNil(c.Images),
		c.Rating, c.City)
	return scanClub(row)
}

// UpdateClub applies a partial update and returns the updated rows.
func (s *Store) UpdateClub(ctx context.Context, id string, p models.ClubPatch) ([]models.Club, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Address != nil {
		set("address", *p.Address)
	}
	if p.Latitude != nil {
		set("latitude", *p.Latitude)
	}
	if p.Longitude != nil {
		set("longitude", *p.Longitude)
	}
	if p.OwnerID != nil {
		set("owner_id", *p.OwnerID)
	}
	if p.IsPremium != nil {
		set("is_premium", *p.IsPremium)
	}
	if p.IsApproved != nil {
		set("is_approved", *p.IsApproved)
	}
	if p.Sports != nil {
		set("sports", nonNil(*p.Sports))
	}
	if p.Facilities != nil {
		set("facilities", nonNil(*p.Facilities))
	}
	if p.PriceRange != nil {
		set("price_range", *p.PriceRange)
	}
	if p.Images != nil {
		set("images", nonNil(*p.Images))
	}
	switch {
	case p.ClearRating:
		sets = append(sets, "rating = NULL")
	case p.Rating != nil:
		set("rating", *p.Rating)
	}
	if p.City != nil {
		set("city", *p.City)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("update club: empty patch")
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE clubs SET %s WHERE id = $%d RETURNING %s;",
		strings.Join(sets, ", "), len(args), clubColumns)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update club: %w", err)
	}
	defer rows.Close()

	updated := []models.Club{}
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		updated = append(updated, club)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("update club: %w", err)
	}
	return updated, nil
}

func scanClub(row pgx.Row) (models.Club, error) {
	var c models.Club
	err := row.Scan(&c.ID, &c.CreatedAt, &c.Name, &c.Description, &c.Address, &c.Latitude, &c.Longitude,
		&c.OwnerID, &c.IsPremium, &c.IsApproved, &c.Sports, &c.Facilities, &c.PriceRange, &c.Images,
		&c.Rating, &c.City)
	if err != nil {
		return models.Club{}, mapError(err)
	}
	return c, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
