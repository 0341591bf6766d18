package app

import (
	"fmt"

	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

// GameState holds the session-wide scores, joker flags, joker multiplier and the saved state of
// every visited round. It is not safe for concurrent use; the controller is its only writer.
type GameState struct {
	scores      map[domain.Player]int
	jokersUsed  map[domain.Player]bool
	multiplier  int
	roundStates map[int]round.State
}

func NewGameState() *GameState {
	g := &GameState{}
	g.Reset()
	return g
}

// Reset returns every field to its initial value.
func (g *GameState) Reset() {
	g.scores = map[domain.Player]int{domain.Player1: 0, domain.Player2: 0}
	g.jokersUsed = map[domain.Player]bool{domain.Player1: false, domain.Player2: false}
	g.multiplier = 1
	g.roundStates = make(map[int]round.State)
}

// AddScore adds points to p. Negative values are not rejected.
func (g *GameState) AddScore(p domain.Player, points int) {
	g.scores[p] += points
}

func (g *GameState) Score(p domain.Player) int {
	return g.scores[p]
}

// Scores returns a copy of both scores.
func (g *GameState) Scores() map[domain.Player]int {
	out := make(map[domain.Player]int, len(g.scores))
	for p, s := range g.scores {
		out[p] = s
	}
	return out
}

// UseJoker marks p's joker as spent and doubles the next round. Callers check HasJoker first.
func (g *GameState) UseJoker(p domain.Player) {
	g.jokersUsed[p] = true
	g.multiplier = 2
}

// HasJoker reports whether p still holds an unused joker.
func (g *GameState) HasJoker(p domain.Player) bool {
	return p.Valid() && !g.jokersUsed[p]
}

func (g *GameState) AnyJokerAvailable() bool {
	for _, p := range domain.Players {
		if g.HasJoker(p) {
			return true
		}
	}
	return false
}

// AvailableJokers lists the players who can still play their joker, in turn order.
func (g *GameState) AvailableJokers() []domain.Player {
	var out []domain.Player
	for _, p := range domain.Players {
		if g.HasJoker(p) {
			out = append(out, p)
		}
	}
	return out
}

func (g *GameState) ResetMultiplier() {
	g.multiplier = 1
}

func (g *GameState) Multiplier() int {
	return g.multiplier
}

// RoundState returns the saved state of round index i, if any.
func (g *GameState) RoundState(i int) (round.State, bool) {
	s, ok := g.roundStates[i]
	return s, ok
}

func (g *GameState) SetRoundState(i int, s round.State) {
	g.roundStates[i] = s
}

func (g *GameState) ClearRoundState(i int) {
	delete(g.roundStates, i)
}

// GameSnapshot is the plain, JSON-serializable form of a GameState.
type GameSnapshot struct {
	Scores      map[domain.Player]int  `json:"scores"`
	JokersUsed  map[domain.Player]bool `json:"jokersUsed"`
	Multiplier  int                    `json:"multiplier"`
	RoundStates map[int]round.Envelope `json:"roundStates"`
}

// Snapshot copies the state into its serializable form.
func (g *GameState) Snapshot() (GameSnapshot, error) {
	snap := GameSnapshot{
		Scores:      g.Scores(),
		JokersUsed:  make(map[domain.Player]bool, len(g.jokersUsed)),
		Multiplier:  g.multiplier,
		RoundStates: make(map[int]round.Envelope, len(g.roundStates)),
	}
	for p, used := range g.jokersUsed {
		snap.JokersUsed[p] = used
	}
	for i, s := range g.roundStates {
		env, err := round.Encode(s)
		if err != nil {
			return GameSnapshot{}, fmt.Errorf("round %d: %w", i, err)
		}
		snap.RoundStates[i] = env
	}
	return snap, nil
}

// RestoreSnapshot replaces the state with snap. On error the state is left reset.
func (g *GameState) RestoreSnapshot(snap GameSnapshot) error {
	g.Reset()
	for i, env := range snap.RoundStates {
		s, err := round.Decode(env)
		if err != nil {
			g.Reset()
			return fmt.Errorf("round %d: %w", i, err)
		}
		g.roundStates[i] = s
	}
	for _, p := range domain.Players {
		g.scores[p] = snap.Scores[p]
		g.jokersUsed[p] = snap.JokersUsed[p]
	}
	if snap.Multiplier == 2 {
		g.multiplier = 2
	}
	return nil
}
