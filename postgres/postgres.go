// Package postgres implements interview.Store on PostgreSQL via pgx.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mockmate/interview"
)

// PGStore is a PostgreSQL-backed store.
type PGStore struct {
	db *pgxpool.Pool
}

// New creates a store over an existing connection pool.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func notFoundOr(err error, wrap func(error) error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return interview.ErrNotFound
	}
	return wrap(err)
}

// Ensure PGStore implements interview.Store at compile time.
var _ interview.Store = (*PGStore)(nil)
