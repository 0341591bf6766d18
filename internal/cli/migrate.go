package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"party-quiz/internal/config"
	"party-quiz/internal/infra/file"
	pgstore "party-quiz/internal/infra/postgres"
	pgmigrations "party-quiz/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies database migrations and optionally imports quiz files.
func NewMigrateCmd(opts *rootOptions) *cobra.Command {
	var seedDir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			logger := cfg.NewLogger("migrate")
			if err := runMigrationsWithConfig(cmd.Context(), cfg, logger); err != nil {
				return err
			}
			if seedDir == "" {
				return nil
			}
			return seedQuizzes(cmd.Context(), cfg, seedDir, logger)
		},
	}
	cmd.Flags().StringVar(&seedDir, "seed", "", "import every <id>.json quiz of this directory")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info("database is up to date")
		return nil
	}
	logger.Info("migrations applied", "group", group.String())
	return nil
}

func seedQuizzes(ctx context.Context, cfg config.Config, dir string, logger *log.Logger) error {
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	source := file.NewQuizLoader(dir)
	ids, err := source.ListQuizzes()
	if err != nil {
		return err
	}
	store := pgstore.NewQuizLoader(pool)
	for _, id := range ids {
		quiz, err := source.LoadQuiz(ctx, id)
		if err != nil {
			return err
		}
		if err := store.SaveQuiz(ctx, quiz); err != nil {
			return err
		}
		logger.Info("quiz imported", "quiz", quiz.ID, "rounds", len(quiz.Rounds))
	}
	return nil
}
