package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating and comment on a club.
type Review struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ClubID    string    `json:"club_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
}
