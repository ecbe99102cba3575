package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-places-api/internal/domain/repository"
)

// Transactor runs units of work on a pgx transaction.
type Transactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

// WithinTx begins a read-committed transaction, hands tx-bound repositories to
// fn, and commits on success. Any error or panic rolls the transaction back.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	repos := repository.Repositories{
		Users:  NewUserRepository(tx),
		Places: NewPlaceRepository(tx),
	}
	if err = fn(ctx, repos); err != nil {
		return err
	}
	return mapErr(tx.Commit(ctx))
}

var _ repository.Transactor = (*Transactor)(nil)
