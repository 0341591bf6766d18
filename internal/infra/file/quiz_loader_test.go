package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

const sampleQuiz = `{
  "title": "Soirée quiz",
  "rounds": [
    {"id": 1, "title": "Échauffement", "points": 1, "type": "simple", "question": "2+2?", "answer": "4", "difficulty": "easy"},
    {"id": 2, "title": "Vrai ou faux", "points": 2, "type": "vraifaux",
     "questions": [{"question": "The sun is a star", "answer": true}]},
    {"id": 3, "title": "QCM", "points": 3, "type": "qcm",
     "questions": [{"question": "Primes?", "choices": {"A": "2", "B": "4", "C": "5"}, "answer": ["A", "C"]}]}
  ]
}`

func writeQuiz(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write quiz: %v", err)
	}
}

func TestLoadQuiz(t *testing.T) {
	dir := t.TempDir()
	writeQuiz(t, dir, "party.json", sampleQuiz)
	loader := NewQuizLoader(dir)

	quiz, err := loader.LoadQuiz(context.Background(), "party")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if quiz.ID != "party" || len(quiz.Rounds) != 3 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
	if string(quiz.Rounds[0].Extra["difficulty"]) != `"easy"` {
		t.Fatalf("expected unknown field kept, got %v", quiz.Rounds[0].Extra)
	}
	if b := quiz.Rounds[1].Questions[0].Answer.Bool; b == nil || !*b {
		t.Fatalf("expected boolean answer, got %+v", quiz.Rounds[1].Questions[0].Answer)
	}
	if labels := quiz.Rounds[2].Questions[0].Answer.ChoiceLabels(); len(labels) != 2 {
		t.Fatalf("expected two labels, got %v", labels)
	}
}

func TestLoadQuizErrors(t *testing.T) {
	dir := t.TempDir()
	writeQuiz(t, dir, "broken.json", "{")
	loader := NewQuizLoader(dir)

	for _, id := range []string{"missing", "../etc/passwd", ""} {
		if _, err := loader.LoadQuiz(context.Background(), id); !errors.Is(err, domain.ErrQuizNotFound) {
			t.Fatalf("%q: expected quiz not found, got %v", id, err)
		}
	}
	if _, err := loader.LoadQuiz(context.Background(), "broken"); err == nil || errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestListQuizzes(t *testing.T) {
	dir := t.TempDir()
	writeQuiz(t, dir, "b.json", sampleQuiz)
	writeQuiz(t, dir, "a.json", sampleQuiz)
	writeQuiz(t, dir, "notes.txt", "x")

	ids, err := NewQuizLoader(dir).ListQuizzes()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestShippedQuizzesStart(t *testing.T) {
	loader := NewQuizLoader(filepath.Join("..", "..", "..", "quizzes"))
	ids, err := loader.ListQuizzes()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) == 0 {
		t.Fatalf("expected at least one shipped quiz")
	}
	factory := round.NewDefaultFactory()
	for _, id := range ids {
		quiz, err := loader.LoadQuiz(context.Background(), id)
		if err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		for _, def := range quiz.Rounds {
			r, err := factory.Create(def, round.Env{})
			if err != nil {
				t.Fatalf("%s round %d: %v", id, def.ID, err)
			}
			if err := r.Restore(r.InitialState()); err != nil {
				t.Fatalf("%s round %d restore: %v", id, def.ID, err)
			}
			if err := r.Start(); err != nil {
				t.Fatalf("%s round %d start: %v", id, def.ID, err)
			}
			r.Release()
		}
	}
}
