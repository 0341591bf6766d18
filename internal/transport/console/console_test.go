package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"party-quiz/internal/app"
	"party-quiz/internal/clock"
	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

func testConfig() domain.GameConfig {
	return domain.GameConfig{
		Players: map[domain.Player]domain.PlayerInfo{
			domain.Player1: {Name: "Alice"},
			domain.Player2: {Name: "Bob"},
		},
	}
}

func TestConsolePlaysARound(t *testing.T) {
	cfg := testConfig()
	quiz := domain.Quiz{ID: "q", Rounds: []domain.RoundDefinition{
		{ID: 1, Title: "Capitale", Points: 3, Type: "simple", Question: "Capitale du Pérou ?", Answer: "Lima"},
	}}
	controller := app.NewQuizController("s1", quiz, cfg, app.ControllerDeps{
		Scheduler: clock.NewManual(),
		Logger:    log.New(io.Discard),
	})

	var out bytes.Buffer
	con := New(controller, cfg, &out, log.New(io.Discard))
	input := strings.NewReader("start\njoker 2\nreveal\nanswer\naward bob\naward 2\nquit\n")
	if err := con.Run(context.Background(), input); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Manche 1/1",
		"Bob joue son joker",
		"Question simple",
		"Capitale du Pérou ?",
		"Lima",
		`unknown player "bob"`,
		"Bob marque 6 points",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output misses %q:\n%s", want, text)
		}
	}
	if got := controller.Scores()[domain.Player2]; got != 6 {
		t.Fatalf("expected 6 points for Bob, got %d", got)
	}
}

func TestConsoleBuildsTimedListsLineByLine(t *testing.T) {
	cfg := testConfig()
	cfg.TimedListDuration = 30 * time.Second
	quiz := domain.Quiz{ID: "q", Rounds: []domain.RoundDefinition{
		{ID: 1, Title: "Animaux", Points: 3, Type: round.TypeTimedList, Question: "Citez des animaux"},
	}}
	controller := app.NewQuizController("s1", quiz, cfg, app.ControllerDeps{
		Scheduler: clock.NewManual(),
		Logger:    log.New(io.Discard),
	})

	input := strings.NewReader("start\njoker none\ntext cat\ntext dog\ntext bird\ntext fish\nundo\nnext\ntext ant\nnext\nquit\n")
	var out bytes.Buffer
	if err := New(controller, cfg, &out, log.New(io.Discard)).Run(context.Background(), input); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	for _, want := range []string{"phase results", "Alice: cat", "Alice: dog", "Alice: bird", "Bob: ant", "Alice 3 - Bob 1"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output misses %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Alice: fish") {
		t.Fatalf("undo should have dropped the last item:\n%s", text)
	}
}

func TestConsoleStopsOnContext(t *testing.T) {
	cfg := testConfig()
	controller := app.NewQuizController("s1", domain.Quiz{ID: "q"}, cfg, app.ControllerDeps{Scheduler: clock.NewManual()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader, writer := io.Pipe()
	defer writer.Close()
	err := New(controller, cfg, io.Discard, log.New(io.Discard)).Run(ctx, reader)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderFinalAndView(t *testing.T) {
	r := NewRenderer(testConfig())
	p1 := domain.Player1
	final := r.Render(app.Event{Type: app.EventFinal, Payload: app.FinalResult{
		Winner: &p1, WinnerName: "Alice", Scores: map[domain.Player]int{domain.Player1: 5, domain.Player2: 3},
	}})
	if !strings.Contains(final, "Alice gagne !") || !strings.Contains(final, "Alice 5 - Bob 3") {
		t.Fatalf("unexpected final rendering:\n%s", final)
	}

	view := r.Render(app.Event{Type: app.EventView, Payload: round.View{
		Phase:    "answering",
		Prompt:   "Couleur du ciel ?",
		Choices:  map[string]string{"A": "Bleu", "B": "Vert"},
		Selected: []string{"A"},
		Actions:  []round.ActionKind{round.ActionValidate},
	}})
	for _, want := range []string{"answering", "Couleur du ciel ?", "[x] A: Bleu", "[ ] B: Vert", "validate"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}

	if r.Render(app.Event{Type: "unknown", Payload: 42}) != "" {
		t.Fatalf("unknown payloads render as nothing")
	}
}
