package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"party-quiz/internal/domain"
)

// SessionRepository abstracts where live sessions and their checkpoints are kept (in-memory, Redis).
type SessionRepository interface {
	Checkpointer
	GetOrCreate(sessionID string, create func() *QuizController) *QuizController
	Get(sessionID string) (*QuizController, bool)
	Delete(ctx context.Context, sessionID string)
	LoadCheckpoint(ctx context.Context, sessionID string) (Checkpoint, bool, error)
}

// QuizRepository loads quiz definitions (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// RoundType describes a registered round type.
type RoundType struct {
	Tag   string `json:"type"`
	Label string `json:"label"`
}

// RoundSummary describes one round of a quiz without playing it.
type RoundSummary struct {
	Index      int    `json:"index"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	Label      string `json:"label"`
	Points     int    `json:"points"`
	Registered bool   `json:"registered"`
}

// QuizService contains the session use cases: opening, resuming and closing quiz sessions.
type QuizService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	cfg      domain.GameConfig
	deps     ControllerDeps
	log      *log.Logger
}

func NewQuizService(sessions SessionRepository, quizzes QuizRepository, cfg domain.GameConfig, deps ControllerDeps) *QuizService {
	deps = deps.withDefaults()
	if deps.Checkpoints == nil {
		deps.Checkpoints = sessions
	}
	return &QuizService{
		sessions: sessions,
		quizzes:  quizzes,
		cfg:      cfg,
		deps:     deps,
		log:      deps.Logger.WithPrefix("service"),
	}
}

// Open returns the session's controller, creating it for quizID when the session is new.
func (s *QuizService) Open(ctx context.Context, sessionID, quizID string) (*QuizController, error) {
	if c, ok := s.sessions.Get(sessionID); ok {
		if quizID != "" && c.QuizID() != quizID {
			return nil, fmt.Errorf("session %s plays quiz %s: %w", sessionID, c.QuizID(), domain.ErrInvalidAction)
		}
		return c, nil
	}
	// Sessions cannot be opened on unknown quizzes.
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	c := s.sessions.GetOrCreate(sessionID, func() *QuizController {
		s.log.Info("session opened", "session", sessionID, "quiz", quizID)
		return NewQuizController(sessionID, quiz, s.cfg, s.deps)
	})
	return c, nil
}

// Get returns a live session.
func (s *QuizService) Get(sessionID string) (*QuizController, error) {
	c, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return c, nil
}

// Resume reopens a session from its last checkpoint.
func (s *QuizService) Resume(ctx context.Context, sessionID string) (*QuizController, error) {
	cp, ok, err := s.sessions.LoadCheckpoint(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	c, err := s.Open(ctx, sessionID, cp.QuizID)
	if err != nil {
		return nil, err
	}
	if err := c.Resume(cp); err != nil {
		return nil, err
	}
	return c, nil
}

// Subscribe returns a channel that receives the events of a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan Event, func(), error) {
	c, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := c.Subscribe()
	return ch, cancel, nil
}

// Close releases the session's round, checkpoints it and forgets the live session.
func (s *QuizService) Close(ctx context.Context, sessionID string) {
	c, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	c.Cleanup()
	if cp, err := c.Snapshot(); err == nil {
		if err := s.sessions.SaveCheckpoint(ctx, sessionID, cp); err != nil {
			s.log.Warn("checkpoint not saved", "session", sessionID, "err", err)
		}
	}
	s.sessions.Delete(ctx, sessionID)
	s.log.Info("session closed", "session", sessionID)
}

// RoundTypes lists the registered round types with their labels.
func (s *QuizService) RoundTypes() []RoundType {
	tags := s.deps.Factory.ListTypes()
	out := make([]RoundType, 0, len(tags))
	for _, tag := range tags {
		out = append(out, RoundType{Tag: tag, Label: s.deps.Factory.LabelFor(tag)})
	}
	return out
}

// Rounds lists the rounds of a quiz, flagging types no constructor is registered for.
func (s *QuizService) Rounds(ctx context.Context, quizID string) ([]RoundSummary, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	out := make([]RoundSummary, 0, len(quiz.Rounds))
	for i, def := range quiz.Rounds {
		out = append(out, RoundSummary{
			Index:      i,
			Title:      def.Title,
			Type:       def.Type,
			Label:      s.deps.Factory.LabelFor(def.Type),
			Points:     def.Points,
			Registered: s.deps.Factory.IsRegistered(def.Type),
		})
	}
	return out, nil
}
