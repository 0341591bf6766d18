package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var (
	//go:embed quiz_store.up.sql
	quizStoreUp string
	//go:embed quiz_store.down.sql
	quizStoreDown string
)

// Migrations holds the schema of the quiz definition store read by the postgres loader.
var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(execSQL(quizStoreUp), execSQL(quizStoreDown))
}

func execSQL(query string) migrate.MigrationFunc {
	return func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}
