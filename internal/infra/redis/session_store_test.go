package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"party-quiz/internal/app"
	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

func TestSessionStoreKeepsControllersInProcess(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)

	created := store.GetOrCreate("s1", func() *app.QuizController {
		return app.NewQuizController("s1", domain.Quiz{ID: "quiz-1"}, domain.GameConfig{}, app.ControllerDeps{})
	})
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("expected no redis keys before a checkpoint, got %v", keys)
	}
	if got, ok := store.Get("s1"); !ok || got != created {
		t.Fatalf("expected the created controller back")
	}

	store.Delete(context.Background(), "s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session to be dropped")
	}
}

func TestSessionStoreCheckpointRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), time.Minute)

	if _, ok, err := store.LoadCheckpoint(ctx, "s1"); ok || err != nil {
		t.Fatalf("expected no checkpoint, ok=%v err=%v", ok, err)
	}

	env, err := round.Encode(&round.HintsState{Revealed: 2, AwardedAt: 2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cp := app.Checkpoint{
		QuizID: "quiz-1",
		Next:   1,
		Game: app.GameSnapshot{
			Scores:      map[domain.Player]int{domain.Player1: 6, domain.Player2: 0},
			JokersUsed:  map[domain.Player]bool{domain.Player1: true},
			Multiplier:  1,
			RoundStates: map[int]round.Envelope{0: env},
		},
	}
	if err := store.SaveCheckpoint(ctx, "s1", cp); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL("quiz:session:s1:checkpoint"); ttl != time.Minute {
		t.Fatalf("expected checkpoint ttl, got %v", ttl)
	}

	got, ok, err := store.LoadCheckpoint(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Next != 1 || got.Game.Scores[domain.Player1] != 6 || !got.Game.JokersUsed[domain.Player1] {
		t.Fatalf("unexpected checkpoint %+v", got)
	}

	state := app.NewGameState()
	if err := state.RestoreSnapshot(got.Game); err != nil {
		t.Fatalf("restore: %v", err)
	}
	saved, ok := state.RoundState(0)
	if !ok || saved.(*round.HintsState).Revealed != 2 {
		t.Fatalf("expected hints state to survive, got %+v", saved)
	}
}
