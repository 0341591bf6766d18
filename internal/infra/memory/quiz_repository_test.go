package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"party-quiz/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(quiz.Rounds) != 1 || quiz.Rounds[0].Type != "simple" {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
}

func TestQuizRepositoryExpiresAndInvalidates(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": sampleQuiz()}),
	}
	repo := NewQuizRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}

	repo.Invalidate("quiz-1")
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	if loader.calls != 3 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryUnknownQuiz(t *testing.T) {
	repo := NewQuizRepository(NewStaticQuizLoader(nil), time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestQuizRepositoryWithoutTTLAlwaysLoads(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": sampleQuiz()}),
	}
	repo := NewQuizRepository(loader, 0)
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	if loader.calls != 2 {
		t.Fatalf("expected no caching, loader calls %d", loader.calls)
	}
}

func TestJitteredStaysWithinTenPercent(t *testing.T) {
	if Jittered(0) != 0 || Jittered(-time.Second) != 0 {
		t.Fatalf("non-positive ttl must mean no expiry")
	}
	for i := 0; i < 100; i++ {
		d := Jittered(10 * time.Minute)
		if d < 10*time.Minute || d > 11*time.Minute {
			t.Fatalf("jittered ttl out of range: %v", d)
		}
	}
}

type countingLoader struct {
	QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "quiz-1",
		Rounds: []domain.RoundDefinition{
			{ID: 1, Title: "Capital", Points: 1, Type: "simple", Question: "Capital of Peru?", Answer: "Lima"},
		},
	}
}
