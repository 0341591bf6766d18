package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"party-quiz/internal/clock"
	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

const defaultAdvanceDelay = 2 * time.Second

// Phase is the step the controller is waiting in.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseJoker     Phase = "joker"
	PhasePlaying   Phase = "playing"
	PhaseAdvancing Phase = "advancing"
	PhaseBlocked   Phase = "blocked"
	PhaseFinished  Phase = "finished"
)

// JokerNone is the joker choice that declines both jokers for the coming round.
const JokerNone = "none"

// Checkpointer persists controller checkpoints. Failures are logged, never fatal.
type Checkpointer interface {
	SaveCheckpoint(ctx context.Context, sessionID string, cp Checkpoint) error
}

// Checkpoint is what is needed to continue a session later. Next is the index of the round to
// play next; it equals the number of rounds once the session is over.
type Checkpoint struct {
	QuizID   string       `json:"quizId"`
	Next     int          `json:"next"`
	Finished bool         `json:"finished"`
	Game     GameSnapshot `json:"game"`
}

// ControllerDeps are the collaborators of a controller. Zero fields get defaults.
type ControllerDeps struct {
	Factory     *round.Factory
	Scheduler   round.Scheduler
	Media       round.MediaPlayer
	Checkpoints Checkpointer
	Logger      *log.Logger
}

func (d ControllerDeps) withDefaults() ControllerDeps {
	if d.Factory == nil {
		d.Factory = round.NewDefaultFactory()
	}
	if d.Scheduler == nil {
		d.Scheduler = clock.Real{}
	}
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	return d
}

// QuizController sequences the rounds of one quiz for one session. Every entry point and every
// timer callback runs under mu, so the GameState has a single writer.
type QuizController struct {
	id    string
	quiz  domain.Quiz
	cfg   domain.GameConfig
	deps  ControllerDeps
	log   *log.Logger
	state *GameState

	mu          sync.Mutex
	phase       Phase
	index       int
	current     round.Round
	generation  int
	advance     round.Timer
	final       *FinalResult
	lastView    *round.View
	subscribers map[chan Event]struct{}
}

func NewQuizController(sessionID string, quiz domain.Quiz, cfg domain.GameConfig, deps ControllerDeps) *QuizController {
	deps = deps.withDefaults()
	return &QuizController{
		id:          sessionID,
		quiz:        quiz,
		cfg:         cfg,
		deps:        deps,
		log:         deps.Logger.With("session", sessionID, "quiz", quiz.ID),
		state:       NewGameState(),
		phase:       PhaseIdle,
		subscribers: make(map[chan Event]struct{}),
	}
}

func (c *QuizController) ID() string { return c.id }

func (c *QuizController) QuizID() string { return c.quiz.ID }

// Phase returns the step the controller is in.
func (c *QuizController) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Index returns the current round index.
func (c *QuizController) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Scores returns a copy of both scores.
func (c *QuizController) Scores() map[domain.Player]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Scores()
}

// View returns the last rendering of the active round.
func (c *QuizController) View() (round.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastView == nil {
		return round.View{}, false
	}
	return *c.lastView, true
}

// Final returns the final result once the session is over.
func (c *QuizController) Final() (FinalResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.final == nil {
		return FinalResult{}, false
	}
	return *c.final, true
}

// Start resets the game and enters the first round.
func (c *QuizController) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked(false)
	c.state.Reset()
	c.index = 0
	c.final = nil
	c.log.Info("quiz started", "rounds", len(c.quiz.Rounds))
	c.broadcastLocked(scoresEvent(c.state.Scores()))
	return c.enterLocked()
}

// Resume continues a checkpointed session at its saved round.
func (c *QuizController) Resume(cp Checkpoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked(false)
	if err := c.state.RestoreSnapshot(cp.Game); err != nil {
		c.log.Error("restore checkpoint", "err", err)
		return err
	}
	c.final = nil
	c.index = min(max(cp.Next, 0), len(c.quiz.Rounds))
	c.log.Info("quiz resumed", "next", c.index)
	c.broadcastLocked(scoresEvent(c.state.Scores()))
	if c.state.Multiplier() == 2 && c.index < len(c.quiz.Rounds) {
		// The joker was already played for this round before the session was interrupted.
		c.broadcastLocked(c.progressLocked())
		return c.loadLocked()
	}
	return c.enterLocked()
}

// SelectJoker answers the joker offer with a player key or JokerNone.
func (c *QuizController) SelectJoker(choice string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseJoker {
		return c.rejectLocked(domain.InvalidAction("no joker decision pending"))
	}
	if choice == JokerNone {
		c.state.ResetMultiplier()
		return c.loadLocked()
	}
	p, err := domain.ParsePlayer(choice)
	if err != nil {
		return c.rejectLocked(err)
	}
	if !c.state.HasJoker(p) {
		return c.rejectLocked(domain.InvalidAction("%s already used their joker", c.cfg.PlayerName(p)))
	}
	c.state.UseJoker(p)
	c.log.Info("joker used", "player", p, "round", c.index)
	c.broadcastLocked(Event{Type: EventJokerUsed, Payload: JokerUsed{Player: p, Name: c.cfg.PlayerName(p)}})
	return c.loadLocked()
}

// Act delivers one operator action to the active round.
func (c *QuizController) Act(a round.Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhasePlaying || c.current == nil {
		return c.rejectLocked(domain.InvalidAction("no round in play"))
	}
	r := c.current
	if err := r.Apply(a); err != nil {
		c.log.Debug("action rejected", "action", a.Kind, "err", err)
		c.broadcastLocked(errorEvent(err))
		return err
	}
	if c.current == r {
		c.presentLocked()
	}
	return nil
}

// Retry loads the current round again after it was refused.
func (c *QuizController) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseBlocked {
		return c.rejectLocked(domain.InvalidAction("nothing to retry"))
	}
	return c.loadLocked()
}

// Cleanup releases the active round and cancels pending work. The state of an abandoned round
// is saved so that it can be resumed. Safe to call at any time, any number of times.
func (c *QuizController) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked(true)
}

// Snapshot returns a checkpoint of the session as it stands.
func (c *QuizController) Snapshot() (Checkpoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkpointLocked()
}

// Subscribe returns a channel of controller events. The first events describe the current
// situation. The caller must invoke cancel to avoid leaks.
func (c *QuizController) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	ch <- scoresEvent(c.state.Scores())
	switch {
	case c.final != nil:
		ch <- Event{Type: EventFinal, Payload: *c.final}
	case c.phase == PhaseJoker:
		ch <- c.jokerOfferLocked()
	case c.lastView != nil:
		ch <- viewEvent(*c.lastView)
	}
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *QuizController) enterLocked() error {
	if c.index >= len(c.quiz.Rounds) {
		c.finishLocked()
		return nil
	}
	c.broadcastLocked(c.progressLocked())
	if c.state.AnyJokerAvailable() {
		c.phase = PhaseJoker
		c.broadcastLocked(c.jokerOfferLocked())
		return nil
	}
	c.state.ResetMultiplier()
	return c.loadLocked()
}

func (c *QuizController) progressLocked() Event {
	total := len(c.quiz.Rounds)
	return Event{Type: EventProgress, Payload: Progress{
		Index:    c.index,
		Total:    total,
		Fraction: float64(c.index+1) / float64(total),
	}}
}

func (c *QuizController) jokerOfferLocked() Event {
	return Event{Type: EventJokerOffer, Payload: JokerOffer{Index: c.index, Players: c.state.AvailableJokers()}}
}

func (c *QuizController) loadLocked() error {
	def := c.quiz.Rounds[c.index]
	c.generation++
	gen := c.generation
	env := round.Env{
		Config:    c.cfg,
		Scheduler: guardedScheduler{c: c, gen: gen},
		Media:     c.deps.Media,
	}

	r, err := c.deps.Factory.Create(def, env)
	if err != nil {
		return c.blockLocked(def, err)
	}
	saved, ok := c.state.RoundState(c.index)
	if !ok {
		saved = r.InitialState()
	}
	if err := r.Restore(saved); err != nil {
		c.log.Error("saved round state does not fit the round", "round", c.index, "type", def.Type, "err", err)
		return c.blockLocked(def, err)
	}
	r.OnEnd(func() { c.roundEndedLocked(gen) })
	if err := r.Start(); err != nil {
		r.Release()
		return c.blockLocked(def, err)
	}

	c.current = r
	c.phase = PhasePlaying
	c.log.Info("round started", "round", c.index, "type", def.Type, "multiplier", c.state.Multiplier())
	c.broadcastLocked(Event{Type: EventRoundStarted, Payload: RoundStarted{
		Index:      c.index,
		Title:      def.Title,
		Type:       def.Type,
		Label:      c.deps.Factory.LabelFor(def.Type),
		Points:     def.Points,
		Multiplier: c.state.Multiplier(),
	}})
	c.presentLocked()
	return nil
}

// blockLocked refuses a round that cannot be loaded. The controller stays on it until a retry,
// a restart or a cleanup.
func (c *QuizController) blockLocked(def domain.RoundDefinition, err error) error {
	c.current = nil
	c.lastView = nil
	c.phase = PhaseBlocked
	if !errors.Is(err, round.ErrStateMismatch) {
		c.log.Warn("round refused", "round", c.index, "type", def.Type, "err", err)
	}
	c.broadcastLocked(errorEvent(err))
	return err
}

func (c *QuizController) presentLocked() {
	if c.current == nil {
		return
	}
	c.current.Present(round.SurfaceFunc(func(v round.View) {
		c.lastView = &v
		c.broadcastLocked(viewEvent(v))
	}))
}

// roundEndedLocked runs from inside the round, while the controller already holds mu.
func (c *QuizController) roundEndedLocked(gen int) {
	if gen != c.generation || c.current == nil || c.phase != PhasePlaying {
		return
	}
	r := c.current
	out := r.Finish()
	c.state.SetRoundState(c.index, r.State())

	multiplier := c.state.Multiplier()
	ended := RoundEnded{Index: c.index, Winner: out.Winner, Multiplier: multiplier, Details: out.Details}
	if out.Winner != nil {
		ended.Awarded = out.Points * multiplier
		ended.WinnerName = c.cfg.PlayerName(*out.Winner)
		c.state.AddScore(*out.Winner, ended.Awarded)
	}
	c.state.ResetMultiplier()

	r.Release()
	c.current = nil
	c.lastView = nil
	c.phase = PhaseAdvancing
	c.log.Info("round ended", "round", c.index, "winner", ended.WinnerName, "awarded", ended.Awarded)
	c.broadcastLocked(Event{Type: EventRoundEnded, Payload: ended})
	c.broadcastLocked(scoresEvent(c.state.Scores()))
	c.saveCheckpointLocked()

	delay := c.cfg.AdvanceDelay
	if delay <= 0 {
		delay = defaultAdvanceDelay
	}
	c.advance = c.deps.Scheduler.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation || c.phase != PhaseAdvancing {
			return
		}
		c.advance = nil
		c.index++
		if err := c.enterLocked(); err != nil {
			c.log.Warn("next round not loaded", "round", c.index, "err", err)
		}
	})
}

func (c *QuizController) finishLocked() {
	c.phase = PhaseFinished
	scores := c.state.Scores()
	result := FinalResult{Scores: scores}
	s1, s2 := scores[domain.Player1], scores[domain.Player2]
	switch {
	case s1 > s2:
		p := domain.Player1
		result.Winner = &p
	case s2 > s1:
		p := domain.Player2
		result.Winner = &p
	default:
		result.Draw = true
	}
	if result.Winner != nil {
		result.WinnerName = c.cfg.PlayerName(*result.Winner)
	}
	c.final = &result
	c.log.Info("quiz finished", "winner", result.WinnerName, "draw", result.Draw)
	c.broadcastLocked(Event{Type: EventFinal, Payload: result})
	c.saveCheckpointLocked()
}

func (c *QuizController) cleanupLocked(keepState bool) {
	c.generation++
	if c.advance != nil {
		c.advance.Stop()
		c.advance = nil
	}
	if c.current != nil {
		c.current.Release()
		if keepState {
			c.state.SetRoundState(c.index, c.current.State())
		}
		c.current = nil
	}
	c.lastView = nil
	switch c.phase {
	case PhaseFinished:
	case PhaseAdvancing:
		// The ended round is settled; a resume starts at the next one.
		c.index++
		c.phase = PhaseIdle
	default:
		c.phase = PhaseIdle
	}
}

func (c *QuizController) rejectLocked(err error) error {
	c.broadcastLocked(errorEvent(err))
	return err
}

func (c *QuizController) checkpointLocked() (Checkpoint, error) {
	game, err := c.state.Snapshot()
	if err != nil {
		return Checkpoint{}, err
	}
	next := c.index
	if c.phase == PhaseAdvancing {
		next++
	}
	if c.final != nil {
		next = len(c.quiz.Rounds)
	}
	return Checkpoint{QuizID: c.quiz.ID, Next: next, Finished: c.final != nil, Game: game}, nil
}

func (c *QuizController) saveCheckpointLocked() {
	if c.deps.Checkpoints == nil {
		return
	}
	cp, err := c.checkpointLocked()
	if err == nil {
		err = c.deps.Checkpoints.SaveCheckpoint(context.Background(), c.id, cp)
	}
	if err != nil {
		c.log.Warn("checkpoint not saved", "err", err)
	}
}

func (c *QuizController) broadcastLocked(ev Event) {
	for ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop its oldest event.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// guardedScheduler serializes round timer callbacks with operator input and drops callbacks
// scheduled by a round that has since been replaced.
type guardedScheduler struct {
	c   *QuizController
	gen int
}

func (s guardedScheduler) AfterFunc(d time.Duration, fn func()) round.Timer {
	c := s.c
	return c.deps.Scheduler.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if s.gen != c.generation || c.current == nil {
			return
		}
		r := c.current
		fn()
		if c.current == r {
			c.presentLocked()
		}
	})
}
