// Package memory provides an in-process entity store with transactional
// semantics. A unit of work runs against a private copy of the state that
// replaces the live state only when the unit commits.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-places-api/internal/domain/entity"
	"github.com/oksasatya/go-places-api/internal/domain/repository"
)

var _ repository.Transactor = (*Store)(nil)

type state struct {
	users  map[string]entity.User
	places map[string]entity.Place
	emails map[string]string // lower-cased email -> user id
}

func newState() state {
	return state{
		users:  map[string]entity.User{},
		places: map[string]entity.Place{},
		emails: map[string]string{},
	}
}

func (s state) clone() state {
	out := state{
		users:  make(map[string]entity.User, len(s.users)),
		places: make(map[string]entity.Place, len(s.places)),
		emails: make(map[string]string, len(s.emails)),
	}
	for k, u := range s.users {
		out.users[k] = cloneUser(u)
	}
	for k, p := range s.places {
		out.places[k] = p
	}
	for k, v := range s.emails {
		out.emails[k] = v
	}
	return out
}

func cloneUser(u entity.User) entity.User {
	u.Places = append([]string(nil), u.Places...)
	return u
}

// Store is safe for concurrent use. Units of work are serialized.
type Store struct {
	mu    sync.RWMutex
	state state
	nowFn func() time.Time
}

func NewStore() *Store {
	return &Store{state: newState(), nowFn: func() time.Time { return time.Now().UTC() }}
}

// Users returns a repository that reads and writes the committed state directly.
func (s *Store) Users() repository.UserRepository { return &userRepo{store: s} }

// Places returns a repository that reads and writes the committed state directly.
func (s *Store) Places() repository.PlaceRepository { return &placeRepo{store: s} }

// WithinTx executes fn against a transactional copy of the store state.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.state.clone()
	repos := repository.Repositories{
		Users:  &userRepo{store: s, tx: &tx},
		Places: &placeRepo{store: s, tx: &tx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = tx
	return nil
}

func (s *Store) read(tx *state, fn func(*state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

func (s *Store) write(tx *state, fn func(*state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

type userRepo struct {
	store *Store
	tx    *state
}

var _ repository.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(ctx context.Context, u *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.write(r.tx, func(st *state) error {
		key := strings.ToLower(u.Email)
		if _, taken := st.emails[key]; taken {
			return repository.ErrConflict
		}
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		now := r.store.nowFn()
		u.CreatedAt, u.UpdatedAt = now, now
		if u.Places == nil {
			u.Places = []string{}
		}
		st.users[u.ID] = cloneUser(*u)
		st.emails[key] = u.ID
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.User
	err := r.store.read(r.tx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		c := cloneUser(u)
		out = &c
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.User
	err := r.store.read(r.tx, func(st *state) error {
		id, ok := st.emails[strings.ToLower(email)]
		if !ok {
			return repository.ErrNotFound
		}
		c := cloneUser(st.users[id])
		out = &c
		return nil
	})
	return out, err
}

func (r *userRepo) List(ctx context.Context) ([]*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*entity.User
	err := r.store.read(r.tx, func(st *state) error {
		out = make([]*entity.User, 0, len(st.users))
		for _, u := range st.users {
			c := cloneUser(u)
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *userRepo) AddPlace(ctx context.Context, userID, placeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.write(r.tx, func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return repository.ErrNotFound
		}
		if u.HasPlace(placeID) {
			return nil
		}
		u.Places = append(u.Places, placeID)
		u.UpdatedAt = r.store.nowFn()
		st.users[userID] = u
		return nil
	})
}

func (r *userRepo) RemovePlace(ctx context.Context, userID, placeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.write(r.tx, func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return repository.ErrNotFound
		}
		kept := u.Places[:0]
		for _, id := range u.Places {
			if id != placeID {
				kept = append(kept, id)
			}
		}
		u.Places = kept
		u.UpdatedAt = r.store.nowFn()
		st.users[userID] = u
		return nil
	})
}

type placeRepo struct {
	store *Store
	tx    *state
}

var _ repository.PlaceRepository = (*placeRepo)(nil)

func (r *placeRepo) Create(ctx context.Context, p *entity.Place) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.write(r.tx, func(st *state) error {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, exists := st.places[p.ID]; exists {
			return repository.ErrConflict
		}
		now := r.store.nowFn()
		p.CreatedAt, p.UpdatedAt = now, now
		st.places[p.ID] = *p
		return nil
	})
}

func (r *placeRepo) GetByID(ctx context.Context, id string) (*entity.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.Place
	err := r.store.read(r.tx, func(st *state) error {
		p, ok := st.places[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *placeRepo) ListByCreator(ctx context.Context, creatorID string) ([]*entity.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*entity.Place
	err := r.store.read(r.tx, func(st *state) error {
		for _, p := range st.places {
			if p.CreatorID == creatorID {
				c := p
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *placeRepo) Update(ctx context.Context, p *entity.Place) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.write(r.tx, func(st *state) error {
		cur, ok := st.places[p.ID]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Title = p.Title
		cur.Description = p.Description
		cur.UpdatedAt = r.store.nowFn()
		st.places[p.ID] = cur
		p.UpdatedAt = cur.UpdatedAt
		return nil
	})
}

func (r *placeRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.write(r.tx, func(st *state) error {
		if _, ok := st.places[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.places, id)
		return nil
	})
}
