package memory

import (
	"context"
	"sync"

	"party-quiz/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Checkpoints live next to the sessions and disappear with the process.
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*app.QuizController
	checkpoints map[string]app.Checkpoint
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*app.QuizController),
		checkpoints: make(map[string]app.Checkpoint),
	}
}

func (s *SessionStore) GetOrCreate(sessionID string, create func() *app.QuizController) *app.QuizController {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.sessions[sessionID]; ok {
		return c
	}
	c := create()
	s.sessions[sessionID] = c
	return c
}

func (s *SessionStore) Get(sessionID string) (*app.QuizController, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.sessions[sessionID]
	return c, ok
}

// Delete forgets the live session. Its checkpoint is kept so that it can be resumed.
func (s *SessionStore) Delete(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *SessionStore) SaveCheckpoint(_ context.Context, sessionID string, cp app.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[sessionID] = cp
	return nil
}

func (s *SessionStore) LoadCheckpoint(_ context.Context, sessionID string) (app.Checkpoint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp, ok := s.checkpoints[sessionID]
	return cp, ok, nil
}
