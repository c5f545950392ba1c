package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/workflow"
)

// PGStore implements workflow.Repository using PostgreSQL via pgx.
type PGStore struct {
	db *pgxpool.Pool
}

var (
	_ workflow.Repository    = (*PGStore)(nil)
	_ workflow.SchemaManager = (*PGStore)(nil)
)

// New creates a new PGStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// ioErr reports a database failure to callers of the repository.
func ioErr(op string, err error) error {
	return &workflow.TransientIOError{Op: op, Err: err}
}
