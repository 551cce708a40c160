package models

import "time"

// User captures an authenticated identity. Profile data lives in Profile.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the one-per-user row holding display data and the role.
type Profile struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UserID         string    `json:"user_id"`
	FullName       string    `json:"full_name"`
	AvatarURL      *string   `json:"avatar_url"`
	Role           Role      `json:"role"`
	FavoriteSports []string  `json:"favorite_sports"`
}
