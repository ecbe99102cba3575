package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oksasatya/go-places-api/pkg/helpers"
)

type memSessions struct {
	mu   sync.Mutex
	data map[string]Session
	err  error
}

func newMemSessions() *memSessions { return &memSessions{data: map[string]Session{}} }

func (m *memSessions) Put(_ context.Context, s Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[s.UserID] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, userID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Session{}, m.err
	}
	s, ok := m.data[userID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessions) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	return m.err
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	jwt := helpers.NewJWTManager("secret", time.Hour)
	sessions := newMemSessions()
	auth := NewAuthenticator(jwt, sessions)

	const uid = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"
	tok, _, err := jwt.GenerateAccessToken(strings.ToUpper(uid), "ada@example.com", "sid-1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	_ = sessions.Put(ctx, Session{UserID: strings.ToUpper(uid), SessionID: "sid-1"}, time.Hour)

	id, err := auth.Resolve(ctx, tok)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id.UserID != uid || id.Email != "ada@example.com" || id.SessionID != "sid-1" {
		t.Fatalf("identity = %+v", id)
	}
}

func TestResolve_EveryFailureLooksTheSame(t *testing.T) {
	ctx := context.Background()
	jwt := helpers.NewJWTManager("secret", time.Hour)
	sessions := newMemSessions()
	auth := NewAuthenticator(jwt, sessions)

	valid, _, _ := jwt.GenerateAccessToken("u1", "a@b.c", "sid-1")
	stale, _, _ := jwt.GenerateAccessToken("u1", "a@b.c", "sid-old")
	_ = sessions.Put(ctx, Session{UserID: "u1", SessionID: "sid-1"}, time.Hour)
	forged, _, _ := helpers.NewJWTManager("other", time.Hour).GenerateAccessToken("u1", "a@b.c", "sid-1")
	noSession, _, _ := jwt.GenerateAccessToken("u2", "x@b.c", "sid-2")

	cases := map[string]string{
		"missing":    "",
		"malformed":  "not.a.jwt",
		"forged":     forged,
		"stale sid":  stale,
		"no session": noSession,
	}
	for name, tok := range cases {
		_, err := auth.Resolve(ctx, tok)
		if err != ErrAuthFailure {
			t.Fatalf("%s: expected ErrAuthFailure, got %v", name, err)
		}
	}

	sessions.err = errors.New("redis down")
	if _, err := auth.Resolve(ctx, valid); err != ErrAuthFailure {
		t.Fatalf("session store failure: expected ErrAuthFailure, got %v", err)
	}
}

func TestResolve_WithoutSessionStore(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	tok, _, _ := jwt.GenerateAccessToken("u1", "a@b.c", "sid-1")
	id, err := NewAuthenticator(jwt, nil).Resolve(context.Background(), tok)
	if err != nil || id.UserID != "u1" {
		t.Fatalf("got %+v, %v", id, err)
	}
}
