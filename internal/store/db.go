package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DBTX is an interface that abstracts the database access layer.
// It is implemented by both *sqlx.DB and *sqlx.Tx, allowing our code
// to work with either a pooled connection or a transaction.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)
