// Package store implements Postgres access for the study corpus. All
// queries run against the ns schema (coordinates, metadata,
// annotations_terms).
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ntu-info/05-sununyunun/internal/dissociate"
)

// Querier is the read surface a request works against inside one
// schema-bound transaction.
type Querier interface {
	StudiesByTerm(ctx context.Context, term string) ([]dissociate.StudyID, error)
	StudiesAtLocation(ctx context.Context, c dissociate.Coordinate) ([]dissociate.StudyID, error)
	Titles(ctx context.Context, ids []dissociate.StudyID) (map[dissociate.StudyID]*string, error)
}

// Store owns the connection pool. Construct it once at startup and close
// it at shutdown; handlers borrow scoped transactions through WithTx.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, databaseURL string, log *zap.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// WithTx runs fn inside a transaction whose search path is bound to the
// ns schema. The connection goes back to the pool on every exit path;
// any error from fn rolls the transaction back.
func (s *Store) WithTx(ctx context.Context, fn func(q Querier) error) error {
	return s.withRawTx(ctx, func(tx pgx.Tx) error {
		return fn(&queries{tx: tx})
	})
}

func (s *Store) withRawTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, "SET LOCAL search_path TO ns, public"); err != nil {
		return fmt.Errorf("set search_path: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// queries implements Querier on top of one open transaction.
type queries struct {
	tx pgx.Tx
}
