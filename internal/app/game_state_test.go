package app_test

import (
	"encoding/json"
	"testing"

	"party-quiz/internal/app"
	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

func TestGameStateJokers(t *testing.T) {
	g := app.NewGameState()

	if g.Multiplier() != 1 || !g.AnyJokerAvailable() {
		t.Fatalf("unexpected initial state")
	}
	g.UseJoker(domain.Player1)
	if g.Multiplier() != 2 || g.HasJoker(domain.Player1) || !g.HasJoker(domain.Player2) {
		t.Fatalf("expected player1 joker spent and multiplier 2")
	}
	g.ResetMultiplier()
	g.UseJoker(domain.Player2)
	if g.AnyJokerAvailable() || len(g.AvailableJokers()) != 0 {
		t.Fatalf("expected no joker left")
	}
	if g.HasJoker("player3") {
		t.Fatalf("unknown players never hold a joker")
	}

	g.Reset()
	if !g.HasJoker(domain.Player1) || !g.HasJoker(domain.Player2) || g.Multiplier() != 1 {
		t.Fatalf("expected reset to restore jokers")
	}
}

func TestGameStateScoresAndRoundStates(t *testing.T) {
	g := app.NewGameState()
	g.AddScore(domain.Player2, 3)
	g.AddScore(domain.Player2, 0)
	g.AddScore(domain.Player1, -1)
	if g.Score(domain.Player2) != 3 || g.Score(domain.Player1) != -1 {
		t.Fatalf("unexpected scores %v", g.Scores())
	}

	if _, ok := g.RoundState(0); ok {
		t.Fatalf("expected no saved state")
	}
	g.SetRoundState(0, &round.SimpleState{QuestionRevealed: true})
	if s, ok := g.RoundState(0); !ok || s.Kind() != round.KindSimple {
		t.Fatalf("expected saved simple state, got %v", s)
	}
	g.ClearRoundState(0)
	if _, ok := g.RoundState(0); ok {
		t.Fatalf("expected state cleared")
	}
}

func TestGameStateSnapshotSurvivesJSON(t *testing.T) {
	g := app.NewGameState()
	g.AddScore(domain.Player1, 5)
	g.UseJoker(domain.Player2)
	g.SetRoundState(2, &round.BlindTestState{Volume: 70, AnswerRevealed: true})

	snap, err := g.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded app.GameSnapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored := app.NewGameState()
	if err := restored.RestoreSnapshot(decoded); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Score(domain.Player1) != 5 || restored.HasJoker(domain.Player2) || restored.Multiplier() != 2 {
		t.Fatalf("unexpected restored state %v", restored.Scores())
	}
	s, ok := restored.RoundState(2)
	if !ok || s.(*round.BlindTestState).Volume != 70 {
		t.Fatalf("expected blind test state restored, got %+v", s)
	}
}

func TestGameStateRejectsUnknownStateKind(t *testing.T) {
	g := app.NewGameState()
	g.AddScore(domain.Player1, 2)
	err := g.RestoreSnapshot(app.GameSnapshot{
		Scores:      map[domain.Player]int{domain.Player1: 9},
		RoundStates: map[int]round.Envelope{0: {Kind: "karaoke", Data: json.RawMessage(`{}`)}},
	})
	if err == nil {
		t.Fatalf("expected unknown state kind rejected")
	}
	if g.Score(domain.Player1) != 0 {
		t.Fatalf("expected state reset after a failed restore")
	}
}
