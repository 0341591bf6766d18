package round

import "party-quiz/internal/domain"

const KindSimple = "simple"

// SimpleState is the state of a simple question round.
type SimpleState struct {
	QuestionRevealed bool `json:"questionRevealed"`
	AnswerRevealed   bool `json:"answerRevealed"`
}

func (*SimpleState) Kind() string { return KindSimple }

// Simple is a single question; the operator picks the winner or skips.
// With TwoPhase set, the question stays hidden until revealed.
type Simple struct {
	base
	state SimpleState
}

func NewSimple(def domain.RoundDefinition, env Env) Round {
	return &Simple{base: newBase(def, env)}
}

func (*Simple) TypeLabel() string { return "Question simple" }

func (r *Simple) InitialState() State {
	return &SimpleState{QuestionRevealed: !r.def.TwoPhase}
}

func (r *Simple) Restore(s State) error {
	st, ok := s.(*SimpleState)
	if !ok {
		return mismatch(KindSimple, s)
	}
	r.state = *st
	return nil
}

func (r *Simple) Start() error { return nil }

func (r *Simple) State() State {
	st := r.state
	return &st
}

func (r *Simple) phase() string {
	if !r.state.QuestionRevealed {
		return "hidden"
	}
	return "open"
}

func (r *Simple) Present(s Surface) {
	v := r.view(r.phase())
	if r.state.QuestionRevealed {
		v.Prompt = r.def.Question
		v.Actions = []ActionKind{ActionToggleAnswer, ActionAward, ActionSkip}
	} else {
		v.Actions = []ActionKind{ActionRevealQuestion, ActionSkip}
	}
	if r.state.AnswerRevealed {
		v.Answer = r.def.Answer
	}
	s.Render(v)
}

func (r *Simple) Apply(a Action) error {
	switch a.Kind {
	case ActionRevealQuestion:
		r.state.QuestionRevealed = true
		return nil
	case ActionToggleAnswer:
		if !r.state.QuestionRevealed {
			return unsupported(a, r.phase())
		}
		if r.def.Answer != "" {
			r.state.AnswerRevealed = !r.state.AnswerRevealed
		}
		return nil
	case ActionAward:
		if !r.state.QuestionRevealed {
			return unsupported(a, r.phase())
		}
		return r.award(a.Player)
	case ActionSkip:
		r.skip()
		return nil
	default:
		return unsupported(a, r.phase())
	}
}

func (r *Simple) Finish() domain.Outcome {
	return r.fixedOutcome(nil)
}

func (r *Simple) Release() {}
