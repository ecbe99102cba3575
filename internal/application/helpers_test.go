package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/go-places-api/internal/domain/entity"
	repo "github.com/oksasatya/go-places-api/internal/domain/repository"
	"github.com/oksasatya/go-places-api/internal/infrastructure/filestore"
	"github.com/oksasatya/go-places-api/internal/infrastructure/memory"
)

type fakeGeocoder struct {
	loc   entity.Location
	err   error
	calls int
	mu    sync.Mutex
}

func (g *fakeGeocoder) Geocode(context.Context, string) (entity.Location, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.loc, g.err
}

type fakePublisher struct {
	mu     sync.Mutex
	bodies []any
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies = append(p.bodies, body)
	return p.err
}

// failingUsers fails AddPlace and RemovePlace after the place write has happened.
type failingUsers struct {
	repo.UserRepository
}

var errInjected = errors.New("injected store failure")

func (failingUsers) AddPlace(context.Context, string, string) error    { return errInjected }
func (failingUsers) RemovePlace(context.Context, string, string) error { return errInjected }

type failingTx struct{ inner repo.Transactor }

func (t failingTx) WithinTx(ctx context.Context, fn func(context.Context, repo.Repositories) error) error {
	return t.inner.WithinTx(ctx, func(ctx context.Context, repos repo.Repositories) error {
		repos.Users = failingUsers{repos.Users}
		return fn(ctx, repos)
	})
}

type fixture struct {
	store  *memory.Store
	files  *filestore.Local
	geo    *fakeGeocoder
	pub    *fakePublisher
	hook   *logtest.Hook
	logger *logrus.Logger
	res    *ResourceManager
	svc    *PlaceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	files, err := filestore.NewLocal(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatalf("filestore: %v", err)
	}
	logger, hook := logtest.NewNullLogger()
	f := &fixture{
		store:  memory.NewStore(),
		files:  files,
		geo:    &fakeGeocoder{loc: entity.Location{Lat: 48.8584, Long: 2.2945}},
		pub:    &fakePublisher{},
		hook:   hook,
		logger: logger,
	}
	f.res = NewResourceManager(files, f.pub, logger)
	f.svc = NewPlaceService(f.store.Users(), f.store.Places(), f.store, f.geo, nil, f.res, logger, 0)
	return f
}

func (f *fixture) user(t *testing.T, email string) *entity.User {
	t.Helper()
	u := &entity.User{Name: "User", Email: email, Password: "hash", ImagePath: "u.png"}
	if err := f.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// upload stores a file and registers it as pending.
func (f *fixture) upload(t *testing.T, name string) *PendingFile {
	t.Helper()
	p, err := f.files.Save(context.Background(), name, strings.NewReader("img"), "image/png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return f.res.Register(p)
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(filepath.FromSlash(path))
	return err == nil
}
