package db

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/shunto-ishiguro/trip-plan-app/internal/config"
	"github.com/shunto-ishiguro/trip-plan-app/migrations"
)

var sqlOpenFn = sql.Open

// Migrate brings the schema up to date using the embedded migration
// files. It opens its own short-lived database/sql connection because
// goose does not speak pgxpool.
func Migrate(ctx context.Context, cfg config.Config) error {
	conn, err := sqlOpenFn("pgx", cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, conn, migrations.FS)
	if err != nil {
		return err
	}

	_, err = provider.Up(ctx)
	return err
}
