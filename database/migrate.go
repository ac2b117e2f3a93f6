// Package database owns the postgres schema and its migrations.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies all pending migrations to the database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return SchemaReady(ctx, db)
}

const schemaReadyQuery = `SELECT to_regclass('public.accounts') IS NOT NULL
	AND to_regclass('public.permissions') IS NOT NULL
	AND to_regclass('public.recovery_requests') IS NOT NULL
	AND to_regclass('public.transactions') IS NOT NULL
	AND to_regclass('public.ledger_head') IS NOT NULL`

// SchemaReady verifies the tables the repositories rely on exist.
func SchemaReady(ctx context.Context, db *sql.DB) error {
	var ready bool
	if err := db.QueryRowContext(ctx, schemaReadyQuery).Scan(&ready); err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	if !ready {
		return fmt.Errorf("database schema is missing recovery tables")
	}
	return nil
}
