package round

import (
	"fmt"

	"party-quiz/internal/domain"
)

const KindTrueFalse = "truefalse"

const phaseAnswering = "answering"

// TrueFalsePair holds both players' answers to one question.
type TrueFalsePair struct {
	Player1 bool `json:"player1"`
	Player2 bool `json:"player2"`
}

func (p TrueFalsePair) of(player domain.Player) bool {
	if player == domain.Player1 {
		return p.Player1
	}
	return p.Player2
}

// TrueFalseState is the state of a true/false round.
type TrueFalseState struct {
	Phase         string                 `json:"phase"`
	Current       domain.Player          `json:"currentPlayer"`
	QuestionIndex int                    `json:"questionIndex"`
	Answers       []TrueFalsePair        `json:"answers"`
	Pending       map[domain.Player]bool `json:"pending"`
	Scores        map[domain.Player]int  `json:"scores"`
}

func (*TrueFalseState) Kind() string { return KindTrueFalse }

func (s *TrueFalseState) clone() *TrueFalseState {
	c := *s
	c.Answers = append([]TrueFalsePair(nil), s.Answers...)
	c.Pending = make(map[domain.Player]bool, len(s.Pending))
	for k, v := range s.Pending {
		c.Pending[k] = v
	}
	c.Scores = copyScores(s.Scores)
	return &c
}

// TrueFalse asks both players every question in turn; the better record wins.
type TrueFalse struct {
	base
	state *TrueFalseState
}

func NewTrueFalse(def domain.RoundDefinition, env Env) Round {
	return &TrueFalse{base: newBase(def, env)}
}

func (*TrueFalse) TypeLabel() string { return "Vrai ou Faux" }

func (r *TrueFalse) InitialState() State {
	st := &TrueFalseState{
		Phase:   phaseAnswering,
		Current: domain.Player1,
		Pending: map[domain.Player]bool{},
		Scores:  zeroScores(),
	}
	if len(r.def.Questions) == 0 {
		st.Phase = phaseResults
	}
	return st
}

func (r *TrueFalse) Restore(s State) error {
	st, ok := s.(*TrueFalseState)
	if !ok {
		return mismatch(KindTrueFalse, s)
	}
	r.state = st.clone()
	return nil
}

func (r *TrueFalse) Start() error {
	for i, q := range r.def.Questions {
		if q.Answer.Bool == nil {
			return fmt.Errorf("%w: question %d of %q has no boolean answer", domain.ErrInvalidDefinition, i+1, r.def.Title)
		}
	}
	return nil
}

func (r *TrueFalse) State() State { return r.state.clone() }

func (r *TrueFalse) Present(s Surface) {
	v := r.view(r.state.Phase)
	if r.state.Phase == phaseAnswering {
		q := r.def.Questions[r.state.QuestionIndex]
		v.Prompt = q.Text
		v.Turn = r.state.Current
		v.TurnName = r.playerName(r.state.Current)
		if answer, ok := r.state.Pending[r.state.Current]; ok {
			v.Selected = []string{truthLabel(answer)}
		}
		v.Feedback = fmt.Sprintf("question %d/%d", r.state.QuestionIndex+1, len(r.def.Questions))
		v.Actions = []ActionKind{ActionAnswer, ActionConfirm}
	} else {
		for i, q := range r.def.Questions {
			if i >= len(r.state.Answers) {
				break
			}
			pair := r.state.Answers[i]
			v.Items = append(v.Items, fmt.Sprintf("%s [%s] %s: %s, %s: %s", q.Text, truthLabel(*q.Answer.Bool),
				r.playerName(domain.Player1), truthLabel(pair.Player1),
				r.playerName(domain.Player2), truthLabel(pair.Player2)))
		}
		v.Scores = copyScores(r.state.Scores)
		v.Actions = []ActionKind{ActionDetermineWinner}
	}
	s.Render(v)
}

func truthLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func (r *TrueFalse) Apply(a Action) error {
	if r.state.Phase == phaseResults {
		if a.Kind == ActionDetermineWinner {
			r.end(pickWinner(r.state.Scores))
			return nil
		}
		return unsupported(a, phaseResults)
	}

	switch a.Kind {
	case ActionAnswer:
		if a.Flag == nil {
			return domain.InvalidAction("answer needs true or false")
		}
		r.state.Pending[r.state.Current] = *a.Flag
		return nil
	case ActionConfirm:
		return r.confirm()
	}
	return unsupported(a, phaseAnswering)
}

func (r *TrueFalse) confirm() error {
	if _, ok := r.state.Pending[r.state.Current]; !ok {
		return domain.InvalidAction("%s has not answered yet", r.playerName(r.state.Current))
	}
	if r.state.Current == domain.Player1 {
		r.state.Current = domain.Player2
		return nil
	}

	r.state.Answers = append(r.state.Answers, TrueFalsePair{
		Player1: r.state.Pending[domain.Player1],
		Player2: r.state.Pending[domain.Player2],
	})
	r.state.Pending = map[domain.Player]bool{}
	r.state.QuestionIndex++
	r.state.Current = domain.Player1
	if r.state.QuestionIndex >= len(r.def.Questions) {
		r.state.Phase = phaseResults
		r.score()
	}
	return nil
}

func (r *TrueFalse) score() {
	r.state.Scores = zeroScores()
	for i, q := range r.def.Questions {
		if i >= len(r.state.Answers) {
			break
		}
		for _, p := range domain.Players {
			if r.state.Answers[i].of(p) == *q.Answer.Bool {
				r.state.Scores[p]++
			}
		}
	}
}

func (r *TrueFalse) Finish() domain.Outcome {
	return r.fixedOutcome(map[string]any{
		"scores":  copyScores(r.state.Scores),
		"answers": append([]TrueFalsePair(nil), r.state.Answers...),
	})
}

func (r *TrueFalse) Release() {}
