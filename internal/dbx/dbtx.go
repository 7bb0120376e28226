// Package dbx provides the small database layer shared by the services that
// own a PostgreSQL schema: the DBTX interface implemented by both *sql.DB and
// *sql.Tx, a transaction helper, connection opening, goose migrations and
// driver error classification.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql used by repositories.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RowLock is used by read-modify-write paths that lock their row with
// SELECT ... FOR UPDATE. Under read committed the locked row is re-read
// after a competing commit instead of failing with a serialization error.
var RowLock = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// WithTx runs fn in a transaction and commits when fn returns nil. Any
// other outcome, a panic included, rolls back. Errors from fn are returned
// unchanged so callers keep their sentinel; begin and commit failures are
// wrapped as database errors.
//
//	err := dbx.WithTx(ctx, db, dbx.RowLock, func(ctx context.Context, tx dbx.DBTX) error {
//	    p, err := products.NewPostgresRepository(tx).GetForUpdate(ctx, id)
//	    ...
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("db error: begin: %w", err)
	}

	done := false
	defer func() {
		if !done {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	done = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db error: commit: %w", err)
	}
	return nil
}
