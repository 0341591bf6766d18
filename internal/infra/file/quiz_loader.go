// Package file loads quiz definitions from JSON files on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"party-quiz/internal/domain"
)

// QuizLoader reads <dir>/<quizID>.json.
type QuizLoader struct {
	dir string
}

func NewQuizLoader(dir string) *QuizLoader {
	return &QuizLoader{dir: dir}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quizID == "" || strings.ContainsAny(quizID, `/\`) || strings.HasPrefix(quizID, ".") {
		return domain.Quiz{}, fmt.Errorf("quiz %q: %w", quizID, domain.ErrQuizNotFound)
	}
	path := filepath.Join(l.dir, quizID+".json")
	quiz, err := ReadQuiz(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Quiz{}, fmt.Errorf("quiz %q: %w", quizID, domain.ErrQuizNotFound)
	}
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.ID == "" {
		quiz.ID = quizID
	}
	return quiz, nil
}

// ListQuizzes returns the ids of the quizzes found in the directory, sorted.
func (l *QuizLoader) ListQuizzes() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// ReadQuiz decodes a single quiz file.
func ReadQuiz(path string) (domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Quiz{}, err
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if quiz.ID == "" {
		quiz.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return quiz, nil
}
