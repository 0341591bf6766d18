package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"party-quiz/internal/domain"
	"party-quiz/internal/infra/memory"
)

// QuizRepository caches quiz definitions in Redis and falls back to a loader on cache miss.
// Definitions are stored as JSON: SET quiz:{quizID}:definition {json} EX ttl
type QuizRepository struct {
	client *redis.Client
	loader memory.QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	log    *log.Logger
}

func NewQuizRepository(client *redis.Client, loader memory.QuizLoader, ttl time.Duration, logger *log.Logger) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    logger,
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	v, err, _ := r.sf.Do(quizID, func() (any, error) {
		// Re-check: another caller may have filled the cache meanwhile.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return nil, err
		}
		r.store(ctx, quizID, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return v.(domain.Quiz), nil
}

// store caches the definition. A failed write only costs a reload.
func (r *QuizRepository) store(ctx context.Context, quizID string, quiz domain.Quiz) {
	raw, err := json.Marshal(quiz)
	if err != nil {
		r.log.Warn("quiz not cached", "quiz", quizID, "err", err)
		return
	}
	if err := r.client.Set(ctx, r.key(quizID), raw, memory.Jittered(r.ttl)).Err(); err != nil {
		r.log.Warn("quiz not cached", "quiz", quizID, "err", err)
	}
}

func (r *QuizRepository) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	raw, err := r.client.Get(ctx, r.key(quizID)).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		r.log.Warn("dropping unreadable cached quiz", "quiz", quizID, "err", err)
		_ = r.client.Del(ctx, r.key(quizID)).Err()
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) key(quizID string) string {
	return "quiz:" + quizID + ":definition"
}
