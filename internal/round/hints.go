package round

import (
	"fmt"

	"party-quiz/internal/domain"
)

const KindHints = "hints"

// HintCount is the number of hints a hints round reveals.
const HintCount = 4

// DefaultProgression is the point value by number of revealed hints.
var DefaultProgression = []int{4, 3, 2, 1}

// HintsState is the state of a progressive hints round.
type HintsState struct {
	Revealed       int  `json:"revealed"`
	AnswerRevealed bool `json:"answerRevealed"`
	AwardedAt      int  `json:"awardedAt"`
}

func (*HintsState) Kind() string { return KindHints }

// Hints reveals up to four hints; the sooner the winner is found, the more it pays.
type Hints struct {
	base
	state HintsState
}

func NewHints(def domain.RoundDefinition, env Env) Round {
	return &Hints{base: newBase(def, env)}
}

func (*Hints) TypeLabel() string { return "Indices progressifs" }

func (r *Hints) InitialState() State { return &HintsState{} }

func (r *Hints) Restore(s State) error {
	st, ok := s.(*HintsState)
	if !ok {
		return mismatch(KindHints, s)
	}
	r.state = *st
	return nil
}

// Start refuses definitions that do not carry exactly four hints, or a progression override of
// another length.
func (r *Hints) Start() error {
	if len(r.def.Indices) != HintCount {
		return fmt.Errorf("%w: %q needs %d hints, has %d", domain.ErrInvalidDefinition, r.def.Title, HintCount, len(r.def.Indices))
	}
	if n := len(r.def.PointsProgression); n != 0 && n != HintCount {
		return fmt.Errorf("%w: %q point progression needs %d values, has %d", domain.ErrInvalidDefinition, r.def.Title, HintCount, n)
	}
	return nil
}

func (r *Hints) State() State {
	st := r.state
	return &st
}

func (r *Hints) progression() []int {
	if len(r.def.PointsProgression) > 0 {
		return r.def.PointsProgression
	}
	return DefaultProgression
}

// pointsAt is the value of a win after n hints. Zero hints pays the same as one.
func (r *Hints) pointsAt(n int) int {
	return r.progression()[max(n-1, 0)]
}

func (r *Hints) Present(s Surface) {
	v := r.view("hints")
	v.Prompt = r.def.Question
	for i := 0; i < r.state.Revealed && i < len(r.def.Indices); i++ {
		v.Items = append(v.Items, r.def.Indices[i])
	}
	if r.state.AnswerRevealed {
		v.Answer = r.def.Answer
	}
	v.Points = r.pointsAt(r.state.Revealed)
	if r.state.Revealed < HintCount {
		v.Actions = append(v.Actions, ActionNextHint)
	}
	v.Actions = append(v.Actions, ActionToggleAnswer, ActionAward, ActionSkip)
	s.Render(v)
}

func (r *Hints) Apply(a Action) error {
	switch a.Kind {
	case ActionNextHint:
		if r.state.Revealed < HintCount {
			r.state.Revealed++
		}
		return nil
	case ActionToggleAnswer:
		r.state.AnswerRevealed = !r.state.AnswerRevealed
		return nil
	case ActionAward:
		if !a.Player.Valid() {
			return domain.InvalidAction("unknown player %q", a.Player)
		}
		r.state.AwardedAt = r.state.Revealed
		return r.award(a.Player)
	case ActionSkip:
		r.skip()
		return nil
	default:
		return unsupported(a, "hints")
	}
}

func (r *Hints) Finish() domain.Outcome {
	out := domain.Outcome{Winner: r.winner, Details: map[string]int{"hintsRevealed": r.state.AwardedAt}}
	if r.winner != nil {
		out.Points = r.pointsAt(r.state.AwardedAt)
	}
	return out
}

func (r *Hints) Release() {}
