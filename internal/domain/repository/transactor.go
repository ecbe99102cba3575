package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Repositories groups the repositories bound to one unit of work.
type Repositories struct {
	Users  UserRepository
	Places PlaceRepository
}

// Transactor runs fn as a single all-or-nothing unit of work.
// The unit commits when fn returns nil and is discarded otherwise; writes made
// through repos are not visible to other readers before commit.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
