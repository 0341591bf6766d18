package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"party-quiz/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Controllers stay in process: they own timers and subscribers. Redis holds only the last
// checkpoint of each session, so a restarted process can resume it.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.QuizController
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.QuizController),
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

// Delete drops the in-process session. The checkpoint expires on its own.
func (s *SessionStore) Delete(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *SessionStore) SaveCheckpoint(ctx context.Context, sessionID string, cp app.Checkpoint) error {
	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	return s.client.Set(ctx, s.checkpointKey(sessionID), raw, s.ttl).Err()
}

func (s *SessionStore) LoadCheckpoint(ctx context.Context, sessionID string) (app.Checkpoint, bool, error) {
	raw, err := s.client.Get(ctx, s.checkpointKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return app.Checkpoint{}, false, nil
	}
	if err != nil {
		return app.Checkpoint{}, false, err
	}
	var cp app.Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		return app.Checkpoint{}, false, fmt.Errorf("decode checkpoint: %w", err)
	}
	return cp, true, nil
}

func (s *SessionStore) checkpointKey(sessionID string) string {
	return "quiz:session:" + sessionID + ":checkpoint"
}
