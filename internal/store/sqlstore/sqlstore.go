// Package sqlstore implements store.Store over database/sql. The SQL is
// shared between engines; what differs is captured by a query.Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alfredjeanlab/medialib/internal/query"
	"github.com/alfredjeanlab/medialib/internal/store"
)

// Store implements store.Store backed by a *sql.DB.
type Store struct {
	queries
	db *sql.DB
}

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// New wraps an open database. The caller is responsible for migrations.
func New(db *sql.DB, d query.Dialect) *Store {
	return &Store{queries: queries{db: db, dialect: d}, db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{queries: queries{db: tx, dialect: s.dialect}}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	queries
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
