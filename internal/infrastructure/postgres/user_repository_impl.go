package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-places-api/internal/domain/entity"
	"github.com/oksasatya/go-places-api/internal/domain/repository"
)

const userColumns = `
	SELECT u.id::text, u.name, u.email, u.password_hash, u.image_path,
	       COALESCE(array_agg(up.place_id::text ORDER BY up.created_at) FILTER (WHERE up.place_id IS NOT NULL), '{}'),
	       u.created_at, u.updated_at
	FROM users u
	LEFT JOIN user_places up ON up.user_id = u.id`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, image_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.ImagePath)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapErr(err)
	}
	u.Places = []string{}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, userColumns+`
		WHERE u.id = $1
		GROUP BY u.id
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, userColumns+`
		WHERE lower(u.email) = $1
		GROUP BY u.id
	`, strings.ToLower(email))
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, userColumns+`
		GROUP BY u.id
		ORDER BY u.created_at
	`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, mapErr(rows.Err())
}

// AddPlace is a single-row insert, so concurrent appends for the same user never
// overwrite each other.
func (r *UserRepository) AddPlace(ctx context.Context, userID, placeID string) error {
	if !validID(userID) || !validID(placeID) {
		return repository.ErrNotFound
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_places (user_id, place_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, place_id) DO NOTHING
	`, userID, placeID)
	return mapErr(err)
}

func (r *UserRepository) RemovePlace(ctx context.Context, userID, placeID string) error {
	if !validID(userID) || !validID(placeID) {
		return repository.ErrNotFound
	}
	_, err := r.db.Exec(ctx, `
		DELETE FROM user_places
		WHERE user_id = $1 AND place_id = $2
	`, userID, placeID)
	return mapErr(err)
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.ImagePath, &u.Places,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
