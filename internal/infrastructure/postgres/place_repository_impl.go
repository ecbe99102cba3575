package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-places-api/internal/domain/entity"
	"github.com/oksasatya/go-places-api/internal/domain/repository"
)

const placeColumns = `
	SELECT id::text, creator_id::text, title, description, address, image_path, lat, lng, created_at, updated_at
	FROM places`

type PlaceRepository struct {
	db DBTX
}

func NewPlaceRepository(db DBTX) *PlaceRepository {
	return &PlaceRepository{db: db}
}

func (r *PlaceRepository) Create(ctx context.Context, p *entity.Place) error {
	if !validID(p.CreatorID) {
		return repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO places (creator_id, title, description, address, image_path, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text, created_at, updated_at
	`, p.CreatorID, p.Title, p.Description, p.Address, p.ImagePath, p.Location.Lat, p.Location.Long)

	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*entity.Place, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanPlace(r.db.QueryRow(ctx, placeColumns+` WHERE id = $1`, id))
}

func (r *PlaceRepository) ListByCreator(ctx context.Context, creatorID string) ([]*entity.Place, error) {
	if !validID(creatorID) {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, placeColumns+` WHERE creator_id = $1 ORDER BY created_at`, creatorID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []*entity.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapErr(rows.Err())
}

func (r *PlaceRepository) Update(ctx context.Context, p *entity.Place) error {
	if !validID(p.ID) {
		return repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `
		UPDATE places
		SET title = $1, description = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`, p.Title, p.Description, p.ID)
	return mapErr(row.Scan(&p.UpdatedAt))
}

func (r *PlaceRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanPlace(row pgx.Row) (*entity.Place, error) {
	p := &entity.Place{}
	if err := row.Scan(&p.ID, &p.CreatorID, &p.Title, &p.Description, &p.Address, &p.ImagePath,
		&p.Location.Lat, &p.Location.Long, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

var _ repository.PlaceRepository = (*PlaceRepository)(nil)
