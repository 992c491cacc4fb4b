// Package storage holds the postgres repositories and their schema
// migrations. Repositories implement the storage interfaces declared by the
// domain packages and translate postgres errors into domain errors.
package storage

import (
	"context"
	"embed"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowdesk/glowdesk/pkg/pg"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, log *slog.Logger) error {
	return pg.Migrate(ctx, pool, cfg, migrationsFS, "migrations", log)
}
