// Package repository is the hand-written data access layer over SQLite.
// Every inventory read and write is scoped by family id; a row belonging to
// another family behaves exactly like a missing row.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a row does not exist or belongs to a
// different family.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned on unique constraint violations surfaced to the
// caller (duplicate usernames, category names).
var ErrConflict = errors.New("already exists")

// Repository wraps a *sql.DB with typed queries.
type Repository struct {
	db *sql.DB
}

// New creates a repository over db.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for transaction-scoped helpers.
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Ping checks DB connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}
