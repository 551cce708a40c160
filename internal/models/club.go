package models

import "time"

// Club is a listed sports venue. Only approved clubs appear in public listings.
type Club struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	OwnerID     string    `json:"owner_id"`
	IsPremium   bool      `json:"is_premium"`
	IsApproved  bool      `json:"is_approved"`
	Sports      []string  `json:"sports"`
	Facilities  []string  `json:"facilities"`
	PriceRange  string    `json:"price_range"`
	Images      []string  `json:"images"`
	Rating      *float64  `json:"rating"`
	City        string    `json:"city"`
}

// ClubPatch is a partial update; nil fields are left untouched.
// ClearRating sets rating to null and wins over Rating.
type ClubPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	OwnerID     *string   `json:"owner_id,omitempty"`
	IsPremium   *bool     `json:"is_premium,omitempty"`
	IsApproved  *bool     `json:"is_approved,omitempty"`
	Sports      *[]string `json:"sports,omitempty"`
	Facilities  *[]string `json:"facilities,omitempty"`
	PriceRange  *string   `json:"price_range,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	ClearRating bool      `json:"clear_rating,omitempty"`
	City        *string   `json:"city,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ClubPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Address == nil &&
		p.Latitude == nil && p.Longitude == nil && p.OwnerID == nil &&
		p.IsPremium == nil && p.IsApproved == nil && p.Sports == nil &&
		p.Facilities == nil && p.PriceRange == nil && p.Images == nil &&
		p.Rating == nil && !p.ClearRating && p.City == nil
}

// TouchesModeration reports whether the patch changes approval or premium flags.
func (p ClubPatch) TouchesModeration() bool {
	return p.IsApproved != nil || p.IsPremium != nil
}

// Apply returns a copy of c with the patch applied.
func (p ClubPatch) Apply(c Club) Club {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Latitude != nil {
		c.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		c.Longitude = *p.Longitude
	}
	if p.OwnerID != nil {
		c.OwnerID = *p.OwnerID
	}
	if p.IsPremium != nil {
		c.IsPremium = *p.IsPremium
	}
	if p.IsApproved != nil {
		c.IsApproved = *p.IsApproved
	}
	if p.Sports != nil {
		c.Sports = append([]string(nil), (*p.Sports)...)
	}
	if p.Facilities != nil {
		c.Facilities = append([]string(nil), (*p.Facilities)...)
	}
	if p.PriceRange != nil {
		c.PriceRange = *p.PriceRange
	}
	if p.Images != nil {
		c.Images = append([]string(nil), (*p.Images)...)
	}
	if p.Rating != nil {
		r := *p.Rating
		c.Rating = &r
	}
	if p.ClearRating {
		c.Rating = nil
	}
	if p.City != nil {
		c.City = *p.City
	}
	return c
}
