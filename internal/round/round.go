// Package round implements the playable round types of a quiz and the factory that builds them.
//
// A round owns its state exclusively while it is active. It never touches the session score:
// it only flips to ended, records a winner and reports an Outcome when asked.
package round

import (
	"errors"
	"fmt"
	"time"

	"party-quiz/internal/domain"
)

// ErrStateMismatch is returned when a round is handed state that belongs to another round type.
var ErrStateMismatch = errors.New("round state does not match round type")

// Round is the contract every round type satisfies.
type Round interface {
	// TypeLabel is the human-readable name of the round type. It does not depend on instance state.
	TypeLabel() string
	// InitialState returns the default state used the first time a round index is entered.
	InitialState() State
	// Restore injects saved or initial state before the round starts.
	Restore(State) error
	// Start enters the active phase and acquires any resources the round needs.
	Start() error
	// Present renders the current state. Calling it again with the same state renders the same view.
	Present(Surface)
	// Apply delivers one operator action.
	Apply(Action) error
	// State returns a copy of the current state for checkpointing.
	State() State
	Ended() bool
	Winner() (domain.Player, bool)
	// OnEnd registers the callback fired once when the round ends.
	OnEnd(func())
	// Finish reports the outcome. Only valid once Ended is true.
	Finish() domain.Outcome
	// Release stops timers and closes handles. Safe to call more than once, or before Start.
	Release()
}

// State is a round-type specific state value. The controller stores it without looking inside.
type State interface {
	Kind() string
}

// Scheduler runs fn after d. Production code uses time.AfterFunc; the controller wraps it so
// callbacks run serialized with operator input.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Env is the read-only environment a round is constructed with.
type Env struct {
	Config    domain.GameConfig
	Scheduler Scheduler
	Media     MediaPlayer
}

// Constructor builds a round from its definition. It must not acquire resources.
type Constructor func(def domain.RoundDefinition, env Env) Round

// base carries the bookkeeping shared by every round type.
type base struct {
	def    domain.RoundDefinition
	env    Env
	ended  bool
	winner *domain.Player
	onEnd  func()
}

func newBase(def domain.RoundDefinition, env Env) base {
	return base{def: def, env: env}
}

func (b *base) Ended() bool {
	return b.ended
}

func (b *base) Winner() (domain.Player, bool) {
	if !b.ended || b.winner == nil {
		return "", false
	}
	return *b.winner, true
}

func (b *base) OnEnd(fn func()) {
	b.onEnd = fn
}

// end flips the round to ended and fires the completion callback. Later calls are ignored.
func (b *base) end(winner *domain.Player) {
	if b.ended {
		return
	}
	b.ended = true
	b.winner = winner
	if b.onEnd != nil {
		b.onEnd()
	}
}

func (b *base) award(raw domain.Player) error {
	if !raw.Valid() {
		return domain.InvalidAction("unknown player %q", raw)
	}
	p := raw
	b.end(&p)
	return nil
}

func (b *base) skip() {
	b.end(nil)
}

// fixedOutcome pays the definition points to the winner, if any.
func (b *base) fixedOutcome(details any) domain.Outcome {
	out := domain.Outcome{Winner: b.winner, Details: details}
	if b.winner != nil {
		out.Points = b.def.Points
	}
	return out
}

func (b *base) playerName(p domain.Player) string {
	return b.env.Config.PlayerName(p)
}

func (b *base) view(phase string) View {
	return View{
		Type:   b.def.Type,
		Title:  b.def.Title,
		Points: b.def.Points,
		Phase:  phase,
	}
}

func (b *base) after(d time.Duration, fn func()) Timer {
	if b.env.Scheduler == nil {
		return nil
	}
	return b.env.Scheduler.AfterFunc(d, fn)
}

func stopTimer(t Timer) {
	if t != nil {
		t.Stop()
	}
}

func mismatch(want string, got State) error {
	kind := "<nil>"
	if got != nil {
		kind = got.Kind()
	}
	return fmt.Errorf("%w: want %s, got %s", ErrStateMismatch, want, kind)
}

func unsupported(a Action, phase string) error {
	return domain.InvalidAction("%s is not available during %s", a.Kind, phase)
}

func pickWinner(scores map[domain.Player]int) *domain.Player {
	s1, s2 := scores[domain.Player1], scores[domain.Player2]
	switch {
	case s1 > s2:
		p := domain.Player1
		return &p
	case s2 > s1:
		p := domain.Player2
		return &p
	default:
		return nil
	}
}

func copyScores(src map[domain.Player]int) map[domain.Player]int {
	dst := make(map[domain.Player]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func zeroScores() map[domain.Player]int {
	return map[domain.Player]int{domain.Player1: 0, domain.Player2: 0}
}
