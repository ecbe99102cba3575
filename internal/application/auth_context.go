package application

import (
	"context"
	"strings"

	"github.com/oksasatya/go-places-api/internal/domain/apperror"
)

// ErrAuthFailure is the single outcome of every failed token resolution.
var ErrAuthFailure = apperror.Unauthorized("authentication failed")

// Identity is the authenticated caller.
type Identity struct {
	UserID    string
	Email     string
	SessionID string
}

// Authenticator resolves bearer tokens to identities. When Sessions is set the
// token's session id must match the user's active session.
type Authenticator struct {
	Tokens   TokenManager
	Sessions SessionStore
}

func NewAuthenticator(tokens TokenManager, sessions SessionStore) *Authenticator {
	return &Authenticator{Tokens: tokens, Sessions: sessions}
}

func (a *Authenticator) Resolve(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" || a.Tokens == nil {
		return Identity{}, ErrAuthFailure
	}
	claims, err := a.Tokens.ParseAccessToken(token)
	if err != nil || claims == nil || claims.UserID == "" {
		return Identity{}, ErrAuthFailure
	}
	if a.Sessions != nil {
		s, err := a.Sessions.Get(ctx, claims.UserID)
		if err != nil || s.SessionID == "" || s.SessionID != claims.SessionID {
			return Identity{}, ErrAuthFailure
		}
	}
	return Identity{UserID: canonicalID(claims.UserID), Email: claims.Email, SessionID: claims.SessionID}, nil
}
