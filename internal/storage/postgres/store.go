package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/storage"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.Backend     = (*Store)(nil)
	_ storage.Revocations = (*Store)(nil)
)

// Store provides Postgres-backed persistence for identities, profiles, clubs, reviews and bookings.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique_idx ON users (lower(email));`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			user_id TEXT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			full_name TEXT NOT NULL,
			avatar_url TEXT,
			role TEXT NOT NULL DEFAULT 'user',
			favorite_sports TEXT[]
		);`,
		`CREATE TABLE IF NOT EXISTS clubs (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			owner_id TEXT NOT NULL REFERENCES users(id),
			is_premium BOOLEAN NOT NULL DEFAULT FALSE,
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			sports TEXT[] NOT NULL DEFAULT '{}',
			facilities TEXT[] NOT NULL DEFAULT '{}',
			price_range TEXT NOT NULL DEFAULT '',
			images TEXT[] NOT NULL DEFAULT '{}',
			rating DOUBLE PRECISION,
			city TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS clubs_approved_idx ON clubs (is_approved);`,
		`CREATE INDEX IF NOT EXISTS clubs_owner_idx ON clubs (owner_id);`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			club_id TEXT NOT NULL REFERENCES clubs(id),
			user_id TEXT NOT NULL REFERENCES users(id),
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			club_id TEXT NOT NULL REFERENCES clubs(id),
			user_id TEXT NOT NULL REFERENCES users(id),
			date DATE NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			payment_status TEXT NOT NULL DEFAULT 'unpaid',
			amount NUMERIC(12,2) NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS revoked_tokens (
			token_id TEXT PRIMARY KEY,
			expires_at TIMESTAMPTZ NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new identity row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at;
	`
	row := s.pool.QueryRow(ctx, query, user.Email, user.PasswordHash)
	return scanUser(row)
}

// FindUserByEmail fetches an identity by email, ignoring case.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT id, email, password_hash, created_at
	FROM users
	WHERE lower(email) = lower($1);
	`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindUserByID fetches an identity by id.
func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	const query = `
	SELECT id, email, password_hash, created_at
	FROM users
	WHERE id = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// CreateProfile inserts the profile row for a user.
func (s *Store) CreateProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	const query = `
		INSERT INTO profiles (user_id, full_name, avatar_url, role, favorite_sports)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, user_id, full_name, avatar_url, role, favorite_sports;
	`
	row := s.pool.QueryRow(ctx, query, p.UserID, p.FullName, p.AvatarURL, string(p.Role), p.FavoriteSports)
	return scanProfile(row)
}

// ProfileByUserID fetches the profile linked to a user.
func (s *Store) ProfileByUserID(ctx context.Context, userID string) (models.Profile, error) {
	const query = `
	SELECT id, created_at, user_id, full_name, avatar_url, role, favorite_sports
	FROM profiles
	WHERE user_id = $1;
	`
	return scanProfile(s.pool.QueryRow(ctx, query, userID))
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}

func scanProfile(row pgx.Row) (models.Profile, error) {
	var p models.Profile
	var role string
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UserID, &p.FullName, &p.AvatarURL, &role, &p.FavoriteSports); err != nil {
		return models.Profile{}, mapError(err)
	}
	p.Role = models.Role(role)
	return p, nil
}

// mapError translates driver errors into storage sentinels.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.ErrAlreadyExists
	}
	return err
}
