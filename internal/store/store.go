// Package store is the persistence collaborator for the interchange engine:
// the live inventory graph that exports are denormalized from and that
// successfully imported records are materialized into.
//
// The engine itself never touches this package. Callers snapshot the graph
// into canonical collections before exporting, and apply an ImportResult
// with a caller-chosen restore strategy after importing.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// RestoreStrategy governs how imported records are reconciled with existing
// data. The choice is whole-dataset, not per record.
type RestoreStrategy string

const (
	// StrategyMerge upserts imported records by ID, leaving unrelated
	// existing records in place.
	StrategyMerge RestoreStrategy = "merge"

	// StrategyReplace deletes the entire existing dataset before inserting
	// the imported records.
	StrategyReplace RestoreStrategy = "replace"
)

// ParseStrategy validates a raw strategy string. An empty string defaults
// to merge, the non-destructive choice.
func ParseStrategy(s string) (RestoreStrategy, error) {
	switch RestoreStrategy(s) {
	case StrategyMerge, "":
		return StrategyMerge, nil
	case StrategyReplace:
		return StrategyReplace, nil
	}
	return "", fmt.Errorf("invalid restore strategy %q: must be merge or replace", s)
}

// Store wraps a pgx connection pool with inventory persistence operations.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS categories (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	icon       TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rooms (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	floor      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS receipts (
	id               UUID PRIMARY KEY,
	vendor           TEXT,
	total            NUMERIC,
	currency_code    TEXT,
	purchase_date    DATE,
	photo_identifier TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS items (
	id              UUID PRIMARY KEY,
	name            TEXT NOT NULL,
	brand           TEXT,
	model_number    TEXT,
	serial_number   TEXT,
	barcode         TEXT,
	purchase_price  NUMERIC,
	purchase_date   DATE,
	currency_code   TEXT,
	category_name   TEXT,
	room_name       TEXT,
	condition       TEXT,
	condition_notes TEXT,
	notes           TEXT,
	warranty_expiry DATE,
	quantity        INTEGER NOT NULL DEFAULT 1,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS item_tags (
	item_id  UUID NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	tag      TEXT NOT NULL,
	PRIMARY KEY (item_id, position)
);

CREATE TABLE IF NOT EXISTS item_photos (
	item_id          UUID NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	position         INTEGER NOT NULL,
	photo_identifier TEXT NOT NULL,
	PRIMARY KEY (item_id, position)
);

CREATE TABLE IF NOT EXISTS item_receipts (
	item_id    UUID NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	receipt_id UUID NOT NULL,
	PRIMARY KEY (item_id, position)
);
`

// EnsureSchema creates the inventory tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
