package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"party-quiz/internal/app"
	"party-quiz/internal/clock"
	"party-quiz/internal/domain"
	"party-quiz/internal/infra/memory"
	"party-quiz/internal/round"
)

func newTestService() (*app.QuizService, *memory.SessionStore, *clock.Manual) {
	quizzes := map[string]domain.Quiz{
		"quiz-1": {
			ID: "quiz-1",
			Rounds: []domain.RoundDefinition{
				simpleRound(2),
				{Title: "Indices", Points: 4, Type: round.TypeHints, Indices: []string{"a", "b", "c", "d"}},
				{Title: "Karaoke", Points: 1, Type: "karaoke"},
			},
		},
	}
	store := memory.NewSessionStore()
	repo := memory.NewQuizRepository(memory.NewStaticQuizLoader(quizzes), time.Minute)
	sched := clock.NewManual()
	service := app.NewQuizService(store, repo, testConfig(), app.ControllerDeps{Scheduler: sched})
	return service, store, sched
}

func TestOpenSession(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService()

	if _, err := service.Open(ctx, "s1", "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}

	first, err := service.Open(ctx, "s1", "quiz-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	second, err := service.Open(ctx, "s1", "")
	if err != nil || first != second {
		t.Fatalf("expected the same controller, err=%v", err)
	}
	if _, err := service.Open(ctx, "s1", "quiz-2"); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("expected quiz mismatch rejected, got %v", err)
	}
}

func TestServiceCheckpointsAndResumes(t *testing.T) {
	ctx := context.Background()
	service, _, sched := newTestService()

	c, err := service.Open(ctx, "s1", "quiz-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	mustJoker(t, c, "player1")
	mustAct(t, c, round.Award(domain.Player1))
	sched.Advance(2 * time.Second)

	service.Close(ctx, "s1")
	if _, err := service.Get("s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session closed, got %v", err)
	}

	resumed, err := service.Resume(ctx, "s1")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed == c {
		t.Fatalf("expected a fresh controller")
	}
	if resumed.Index() != 1 || resumed.Scores()[domain.Player1] != 4 {
		t.Fatalf("expected to resume at round 2 with 4 points, got %d/%v", resumed.Index(), resumed.Scores())
	}
	if resumed.Phase() != app.PhaseJoker {
		t.Fatalf("expected player2 joker offer, got %s", resumed.Phase())
	}
	if err := resumed.SelectJoker("player1"); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("expected spent joker to stay spent, got %v", err)
	}
}

func TestResumeUnknownSession(t *testing.T) {
	service, _, _ := newTestService()
	if _, err := service.Resume(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestSubscribeRequiresSession(t *testing.T) {
	service, _, _ := newTestService()
	if _, _, err := service.Subscribe(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
}

func TestRoundListing(t *testing.T) {
	service, _, _ := newTestService()

	types := service.RoundTypes()
	if len(types) != 7 || types[0].Tag != round.TypeBlindTest || types[0].Label != "Blind test" {
		t.Fatalf("unexpected types %+v", types)
	}

	rounds, err := service.Rounds(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("rounds: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(rounds))
	}
	if rounds[1].Label != "Indices progressifs" || !rounds[1].Registered {
		t.Fatalf("unexpected hints summary %+v", rounds[1])
	}
	if rounds[2].Label != "karaoke" || rounds[2].Registered {
		t.Fatalf("expected unknown type to fall back to its tag, got %+v", rounds[2])
	}
}
