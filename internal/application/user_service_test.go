package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-places-api/internal/domain/apperror"
	"github.com/oksasatya/go-places-api/pkg/helpers"
	"github.com/oksasatya/go-places-api/pkg/jobs"
)

type userFixture struct {
	*fixture
	jwt      *helpers.JWTManager
	sessions *memSessions
	users    *Service
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := newFixture(t)
	jwt := helpers.NewJWTManager("secret", time.Hour)
	sessions := newMemSessions()
	svc := NewService(f.store.Users(), jwt, helpers.NewBcryptHasher(bcrypt.MinCost), sessions, f.pub, f.logger)
	svc.AppName = "Places"
	return &userFixture{fixture: f, jwt: jwt, sessions: sessions, users: svc}
}

func TestSignupThenLogin(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	img := f.upload(t, "avatar.png")

	res, err := f.users.Signup(ctx, SignupInput{Name: "Ada", Email: " Ada@Example.com ", Password: "secret1", Image: img})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if res.UserID == "" || res.Token == "" || res.Email != "ada@example.com" {
		t.Fatalf("result = %+v", res)
	}
	if img.State() != FileCommitted || !exists(t, img.Path()) {
		t.Fatalf("avatar should be kept")
	}
	stored, _ := f.store.Users().GetByID(ctx, res.UserID)
	if stored.Password == "secret1" || stored.ImagePath != img.Path() {
		t.Fatalf("stored user = %+v", stored)
	}
	if len(f.pub.bodies) != 1 || f.pub.bodies[0].(jobs.Job).Type != jobs.TypeWelcomeEmail {
		t.Fatalf("expected welcome job, got %v", f.pub.bodies)
	}

	id, err := NewAuthenticator(f.jwt, f.sessions).Resolve(ctx, res.Token)
	if err != nil || id.UserID != res.UserID {
		t.Fatalf("signup token should resolve: %+v %v", id, err)
	}

	login, err := f.users.Login(ctx, "ADA@example.com", "secret1")
	if err != nil || login.UserID != res.UserID {
		t.Fatalf("login: %+v %v", login, err)
	}
	if _, err := NewAuthenticator(f.jwt, f.sessions).Resolve(ctx, res.Token); err != ErrAuthFailure {
		t.Fatalf("a new login should replace the previous session, got %v", err)
	}
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.user(t, "ada@example.com")
	img := f.upload(t, "avatar.png")

	_, err := f.users.Signup(ctx, SignupInput{Name: "Ada", Email: "ADA@example.com", Password: "secret1", Image: img})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
	if exists(t, img.Path()) {
		t.Fatalf("avatar left behind for rejected signup")
	}
}

func TestLogin_Failures(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	if _, err := f.users.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, unknown := f.users.Login(ctx, "nobody@example.com", "secret1")
	_, mismatch := f.users.Login(ctx, "ada@example.com", "wrong-password")
	for _, err := range []error{unknown, mismatch} {
		if !errors.Is(err, apperror.ErrInvalidCredentials) {
			t.Fatalf("expected InvalidCredentials, got %v", err)
		}
	}
	if unknown.Error() != mismatch.Error() {
		t.Fatalf("unknown email and wrong password must look the same")
	}
}

func TestLogin_SessionStoreDownIsUnavailable(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	if _, err := f.users.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	f.sessions.err = errors.New("redis: connection refused")
	_, err := f.users.Login(ctx, "ada@example.com", "secret1")
	if !errors.Is(err, apperror.ErrUnavailable) || strings.Contains(err.Error(), "redis") {
		t.Fatalf("expected opaque Unavailable, got %v", err)
	}
}

func TestLogoutAndListUsers(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	res, err := f.users.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := f.users.Logout(ctx, res.UserID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := NewAuthenticator(f.jwt, f.sessions).Resolve(ctx, res.Token); err != ErrAuthFailure {
		t.Fatalf("token should not resolve after logout")
	}

	users, err := f.users.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("list = %v, %v", users, err)
	}
	if users[0].Password != "" {
		t.Fatalf("password hash exposed")
	}
}
