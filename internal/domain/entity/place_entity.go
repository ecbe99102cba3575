package entity

import "time"

// Location is a geocoded coordinate pair.
type Location struct {
	Lat  float64
	Long float64
}

// Place is a shared location owned by exactly one User (CreatorID).
// CreatorID is immutable after creation.
type Place struct {
	ID          string
	CreatorID   string
	Title       string
	Description string
	Address     string
	ImagePath   string
	Location    Location
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
