package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL applied by Migrate, including the built-in exercise library.
func Schema() string {
	return schemaSQL
}

// Migrate applies the schema. All statements are idempotent, so it is safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	tag, err := pool.Exec(ctx, schemaSQL)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Debugf("db schema applied: %s", tag.String())
	return nil
}
