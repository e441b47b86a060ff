package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

const uniqueViolation = "23505"

// querier is the subset of pgxpool.Pool and pgx.Tx the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

type boundTx struct {
	tx       pgx.Tx
	writable bool
}

// conn returns the transaction bound to ctx, or the pool.
func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if b, ok := ctx.Value(txKey{}).(boundTx); ok {
		return b.tx
	}
	return pool
}

// forUpdate appends a row lock to a single-row SELECT when ctx carries a
// read-write transaction, so read-check-write sequences on that row serialize.
func forUpdate(ctx context.Context, sql string) string {
	if b, ok := ctx.Value(txKey{}).(boundTx); ok && b.writable {
		return sql + " FOR UPDATE"
	}
	return sql
}

// Transactor implements ports.Transactor on a pgx pool. Nested calls join the
// outer transaction.
type Transactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite}, fn)
}

func (t *Transactor) WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly}, fn)
}

func (t *Transactor) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(boundTx); ok {
		return fn(ctx)
	}
	tx, err := t.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)
	bound := boundTx{tx: tx, writable: opts.AccessMode != pgx.ReadOnly}
	if err := fn(context.WithValue(ctx, txKey{}, bound)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translate(err, nil)
	}
	return nil
}

// translate maps a unique violation to conflict. Other errors pass through.
func translate(err error, conflict error) error {
	var pgErr *pgconn.PgError
	if conflict != nil && errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return conflict
	}
	return err
}

var _ ports.Transactor = (*Transactor)(nil)
