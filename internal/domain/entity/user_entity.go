package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password holds the bcrypt hash and is never exposed outward.
// Places lists the ids of places this user created; only the place service mutates it.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	ImagePath string
	Places    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPlace reports whether placeID is linked to the user.
func (u *User) HasPlace(placeID string) bool {
	for _, id := range u.Places {
		if id == placeID {
			return true
		}
	}
	return false
}
