package cli

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"party-quiz/internal/app"
	"party-quiz/internal/config"
	"party-quiz/internal/domain"
	"party-quiz/internal/infra/file"
	"party-quiz/internal/infra/memory"
	pgstore "party-quiz/internal/infra/postgres"
	redisstore "party-quiz/internal/infra/redis"
	"party-quiz/internal/round"
)

// loadConfig reads the config file. A missing file yields the defaults so that the
// commands work out of the box.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("config file not found, using defaults", "path", path)
		return config.Config{}, nil
	}
	return cfg, err
}

// backends holds the connections opened for a command.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.pool = pool
	}
	return b, nil
}

func (b *backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// quizRepository picks the quiz source (Postgres, then a directory, then the built-in demo)
// and puts the Redis or in-process cache in front of it.
func (b *backends) quizRepository(cfg config.Config, logger *log.Logger) app.QuizRepository {
	var loader memory.QuizLoader
	switch {
	case b.pool != nil:
		loader = pgstore.NewQuizLoader(b.pool)
	case cfg.Quiz.Dir != "":
		loader = file.NewQuizLoader(cfg.Quiz.Dir)
	default:
		loader = memory.NewStaticQuizLoader(sampleQuizzes())
	}

	ttl := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if b.redis != nil {
		return redisstore.NewQuizRepository(b.redis, loader, ttl, logger)
	}
	return memory.NewQuizRepository(loader, ttl)
}

func (b *backends) sessionStore(cfg config.Config) app.SessionRepository {
	if b.redis != nil {
		return redisstore.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	}
	return memory.NewSessionStore()
}

// sampleQuizzes is served when neither Postgres nor a quiz directory is configured.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"demo": {
			ID:    "demo",
			Title: "Démo",
			Rounds: []domain.RoundDefinition{
				{ID: 1, Title: "Échauffement", Points: 1, Type: round.TypeSimple, Question: "Combien font 2 + 2 ?", Answer: "4"},
				{
					ID: 2, Title: "Qui suis-je ?", Points: 4, Type: round.TypeHints, Answer: "Victor Hugo",
					Indices: []string{"Écrivain", "XIXe siècle", "Exilé à Guernesey", "Les Misérables"},
				},
				{
					ID: 3, Title: "Vrai ou faux", Points: 2, Type: round.TypeTrueFalse,
					Questions: []domain.Question{
						{Text: "Le soleil est une étoile.", Answer: domain.BoolAnswer(true)},
						{Text: "Paris est la capitale de l'Italie.", Answer: domain.BoolAnswer(false)},
					},
				},
			},
		},
	}
}
