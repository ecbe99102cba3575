package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-places-api/internal/domain/apperror"
	"github.com/oksasatya/go-places-api/internal/domain/entity"
	repo "github.com/oksasatya/go-places-api/internal/domain/repository"
	"github.com/oksasatya/go-places-api/pkg/jobs"
)

var errEmailTaken = apperror.Conflict("user already exists, please login instead")

type Service struct {
	Repo     repo.UserRepository
	Tokens   TokenManager
	Hasher   PasswordHasher
	Sessions SessionStore // optional
	Jobs     JobPublisher // optional
	Logger   *logrus.Logger

	AppName      string
	SessionTTL   time.Duration
	StoreTimeout time.Duration
}

func NewService(users repo.UserRepository, tokens TokenManager, hasher PasswordHasher, sessions SessionStore, pub JobPublisher, logger *logrus.Logger) *Service {
	return &Service{
		Repo:       users,
		Tokens:     tokens,
		Hasher:     hasher,
		Sessions:   sessions,
		Jobs:       pub,
		Logger:     logger,
		SessionTTL: 24 * time.Hour,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Image    *PendingFile
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	UserID      string
	Email       string
	Name        string
	Token       string
	TokenExpiry time.Time
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	d := s.StoreTimeout
	if d <= 0 {
		d = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}

func (s *Service) logUnavailable(err error, msg string, fields logrus.Fields) {
	if s.Logger == nil || apperror.KindOf(err) != apperror.KindUnavailable {
		return
	}
	s.Logger.WithError(errors.Unwrap(err)).WithFields(fields).Error(msg)
}

// Signup registers a user. The profile image is kept once the user record is committed.
func (s *Service) Signup(ctx context.Context, in SignupInput) (res *AuthResult, err error) {
	userCreated := false
	defer func() {
		if err != nil && !userCreated {
			in.Image.Rollback(ctx)
		}
		s.logUnavailable(err, "signup failed", logrus.Fields{"email": in.Email})
	}()

	email := strings.ToLower(strings.TrimSpace(in.Email))
	c, cancel := s.storeCtx(ctx)
	_, err = s.Repo.GetByEmail(c, email)
	cancel()
	switch {
	case err == nil:
		return nil, errEmailTaken
	case !errors.Is(err, repo.ErrNotFound):
		return nil, apperror.Unavailable(err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Unavailable(err)
	}
	u := &entity.User{
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Password:  hash,
		ImagePath: in.Image.Path(),
		Places:    []string{},
	}
	c, cancel = s.storeCtx(ctx)
	err = s.Repo.Create(c, u)
	cancel()
	if errors.Is(err, repo.ErrConflict) {
		return nil, errEmailTaken
	}
	if err != nil {
		return nil, apperror.Unavailable(err)
	}
	userCreated = true
	in.Image.Commit()

	res, err = s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	s.enqueueWelcome(ctx, u)
	return res, nil
}

// Login verifies credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (res *AuthResult, err error) {
	defer func() { s.logUnavailable(err, "login failed", logrus.Fields{"email": email}) }()

	c, cancel := s.storeCtx(ctx)
	u, err := s.Repo.GetByEmail(c, strings.ToLower(strings.TrimSpace(email)))
	cancel()
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperror.Unavailable(err)
	}
	if ok := s.Hasher.Compare(u.Password, password); !ok {
		return nil, apperror.ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Logout revokes the user's active session.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if s.Sessions == nil {
		return nil
	}
	if err := s.Sessions.Delete(ctx, userID); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("session revoke failed")
		}
		return apperror.Unavailable(err)
	}
	return nil
}

// ListUsers returns all users. Password hashes are cleared.
func (s *Service) ListUsers(ctx context.Context) ([]*entity.User, error) {
	c, cancel := s.storeCtx(ctx)
	defer cancel()
	users, err := s.Repo.List(c)
	if err != nil {
		aerr := apperror.Unavailable(err)
		s.logUnavailable(aerr, "list users failed", nil)
		return nil, aerr
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

// issue generates an access token and records its session.
func (s *Service) issue(ctx context.Context, u *entity.User) (*AuthResult, error) {
	sid := uuid.NewString()
	token, exp, err := s.Tokens.GenerateAccessToken(u.ID, u.Email, sid)
	if err != nil {
		return nil, apperror.Unavailable(err)
	}
	if s.Sessions != nil {
		sess := Session{UserID: u.ID, Email: u.Email, Name: u.Name, SessionID: sid}
		if err := s.Sessions.Put(ctx, sess, s.SessionTTL); err != nil {
			return nil, apperror.Unavailable(err)
		}
	}
	return &AuthResult{UserID: u.ID, Email: u.Email, Name: u.Name, Token: token, TokenExpiry: exp}, nil
}

func (s *Service) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Jobs == nil {
		return
	}
	if err := s.Jobs.PublishJSON(ctx, jobs.WelcomeEmail(u.Email, u.Name, s.AppName)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
	}
}
