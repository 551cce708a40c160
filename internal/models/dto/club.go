package dto

import "github.com/hongminglow/club-finder/internal/models"

type CreateClubRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Sports      []string `json:"sports"`
	Facilities  []string `json:"facilities"`
	PriceRange  string   `json:"price_range"`
	Images      []string `json:"images"`
	City        string   `json:"city"`
	// Moderation flags are accepted on the wire but never honored.
	IsApproved bool `json:"is_approved"`
	IsPremium  bool `json:"is_premium"`
}

type ApproveClubRequest struct {
	Premium bool `json:"premium"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type CreateBookingRequest struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type ClubDetails struct {
	Club    models.Club     `json:"club"`
	Reviews []models.Review `json:"reviews"`
}

type OwnerDashboard struct {
	Clubs []models.Club `json:"clubs"`
}

type AdminDashboard struct {
	PendingClubs  int `json:"pending_clubs"`
	ApprovedClubs int `json:"approved_clubs"`
}
