package repository

import (
	"context"

	"github.com/oksasatya/go-places-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create inserts u and assigns its ID. Returns ErrConflict when the email is taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	// AddPlace appends placeID to the user's place set. Adding an id twice is a no-op.
	AddPlace(ctx context.Context, userID, placeID string) error
	// RemovePlace drops placeID from the user's place set. Removing a missing id is a no-op.
	RemovePlace(ctx context.Context, userID, placeID string) error
}
