package application

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/go-places-api/internal/domain/entity"
	"github.com/oksasatya/go-places-api/pkg/helpers"
)

// ErrNoLocation is returned by a Geocoder when the address resolves to nothing.
var ErrNoLocation = errors.New("no location for address")

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (entity.Location, error)
}

// PlaceIndex is the search index for places. Writes are best-effort.
type PlaceIndex interface {
	Index(ctx context.Context, p *entity.Place) error
	Delete(ctx context.Context, placeID string) error
	Search(ctx context.Context, q string, size int) ([]*entity.Place, error)
}

// JobPublisher enqueues background jobs.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Session is the server-side record backing an access token.
type Session struct {
	UserID    string
	Email     string
	Name      string
	SessionID string
}

// SessionStore keeps at most one active session per user.
// Get returns ErrSessionNotFound when the user has none.
type SessionStore interface {
	Put(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, userID string) (Session, error)
	Delete(ctx context.Context, userID string) error
}

var ErrSessionNotFound = errors.New("session not found")

// TokenManager signs and verifies access tokens.
type TokenManager interface {
	GenerateAccessToken(userID, email, sessionID string) (string, time.Time, error)
	ParseAccessToken(token string) (*helpers.Claims, error)
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}
