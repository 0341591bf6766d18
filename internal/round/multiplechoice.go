package round

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"party-quiz/internal/domain"
)

const KindMultipleChoice = "multiplechoice"

// ChoiceLabels are the labels a multiple-choice question may offer, in display order.
var ChoiceLabels = []string{"A", "B", "C", "D"}

// ChoiceRecord is one validated answer.
type ChoiceRecord struct {
	QuestionIndex int           `json:"questionIndex"`
	Player        domain.Player `json:"player"`
	Selected      []string      `json:"selected"`
	Correct       []string      `json:"correct"`
	IsCorrect     bool          `json:"isCorrect"`
}

// MultipleChoiceState is the state of a multiple-choice round.
type MultipleChoiceState struct {
	QuestionIndex int                   `json:"questionIndex"`
	Turn          domain.Player         `json:"turn"`
	Selected      []string              `json:"selected"`
	Validated     bool                  `json:"validated"`
	Scores        map[domain.Player]int `json:"scores"`
	History       []ChoiceRecord        `json:"history"`
}

func (*MultipleChoiceState) Kind() string { return KindMultipleChoice }

func (s *MultipleChoiceState) clone() *MultipleChoiceState {
	c := *s
	c.Selected = append([]string(nil), s.Selected...)
	c.Scores = copyScores(s.Scores)
	c.History = make([]ChoiceRecord, len(s.History))
	for i, rec := range s.History {
		rec.Selected = append([]string(nil), rec.Selected...)
		rec.Correct = append([]string(nil), rec.Correct...)
		c.History[i] = rec
	}
	return &c
}

// MultipleChoice alternates questions between the players. The tally is informational:
// the host confirms the winner.
type MultipleChoice struct {
	base
	state *MultipleChoiceState
}

func NewMultipleChoice(def domain.RoundDefinition, env Env) Round {
	return &MultipleChoice{base: newBase(def, env)}
}

func (*MultipleChoice) TypeLabel() string { return "QCM - Questions à Choix Multiples" }

func (r *MultipleChoice) InitialState() State {
	return &MultipleChoiceState{Turn: domain.Player1, Scores: zeroScores()}
}

func (r *MultipleChoice) Restore(s State) error {
	st, ok := s.(*MultipleChoiceState)
	if !ok {
		return mismatch(KindMultipleChoice, s)
	}
	r.state = st.clone()
	return nil
}

func (r *MultipleChoice) Start() error {
	for i, q := range r.def.Questions {
		if len(q.Answer.ChoiceLabels()) == 0 {
			return fmt.Errorf("%w: question %d of %q has no correct choice", domain.ErrInvalidDefinition, i+1, r.def.Title)
		}
	}
	return nil
}

func (r *MultipleChoice) State() State { return r.state.clone() }

func (r *MultipleChoice) done() bool {
	return r.state.QuestionIndex >= len(r.def.Questions)
}

func (r *MultipleChoice) phase() string {
	switch {
	case r.done():
		return phaseResults
	case r.state.Validated:
		return "feedback"
	default:
		return phaseAnswering
	}
}

// SameChoices compares two label lists regardless of order. Duplicates count.
func SameChoices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	return slices.Equal(x, y)
}

func (r *MultipleChoice) Present(s Surface) {
	v := r.view(r.phase())
	v.Scores = copyScores(r.state.Scores)
	if r.done() {
		v.Actions = []ActionKind{ActionAward, ActionSkip}
		s.Render(v)
		return
	}

	q := r.def.Questions[r.state.QuestionIndex]
	v.Prompt = q.Text
	v.Choices = q.Choices
	v.Turn = r.state.Turn
	v.TurnName = r.playerName(r.state.Turn)
	v.Selected = append([]string(nil), r.state.Selected...)
	if r.state.Validated {
		last := r.state.History[len(r.state.History)-1]
		verdict := "incorrect"
		if last.IsCorrect {
			verdict = "correct"
		}
		v.Feedback = fmt.Sprintf("%s, expected %s", verdict, strings.Join(last.Correct, ", "))
		v.Actions = []ActionKind{ActionNextQuestion}
	} else {
		v.Actions = []ActionKind{ActionToggleChoice, ActionValidate}
	}
	s.Render(v)
}

func (r *MultipleChoice) Apply(a Action) error {
	if r.done() {
		switch a.Kind {
		case ActionAward:
			return r.award(a.Player)
		case ActionSkip:
			r.skip()
			return nil
		}
		return unsupported(a, phaseResults)
	}

	switch a.Kind {
	case ActionToggleChoice:
		return r.toggle(a.Key)
	case ActionValidate:
		return r.validate()
	case ActionNextQuestion:
		if !r.state.Validated {
			return domain.InvalidAction("validate the answer first")
		}
		r.state.Validated = false
		r.state.Selected = nil
		r.state.Turn = r.state.Turn.Other()
		r.state.QuestionIndex++
		return nil
	}
	return unsupported(a, r.phase())
}

func (r *MultipleChoice) toggle(label string) error {
	if r.state.Validated {
		return domain.InvalidAction("answer already validated")
	}
	q := r.def.Questions[r.state.QuestionIndex]
	if _, ok := q.Choices[label]; !ok {
		return domain.InvalidAction("no choice %q", label)
	}
	if i := slices.Index(r.state.Selected, label); i >= 0 {
		r.state.Selected = slices.Delete(r.state.Selected, i, i+1)
		return nil
	}
	r.state.Selected = append(r.state.Selected, label)
	return nil
}

func (r *MultipleChoice) validate() error {
	if r.state.Validated {
		return domain.InvalidAction("answer already validated")
	}
	if len(r.state.Selected) == 0 {
		return domain.InvalidAction("select at least one choice")
	}
	correct := r.def.Questions[r.state.QuestionIndex].Answer.ChoiceLabels()
	ok := SameChoices(r.state.Selected, correct)
	r.state.History = append(r.state.History, ChoiceRecord{
		QuestionIndex: r.state.QuestionIndex,
		Player:        r.state.Turn,
		Selected:      append([]string(nil), r.state.Selected...),
		Correct:       append([]string(nil), correct...),
		IsCorrect:     ok,
	})
	if ok {
		r.state.Scores[r.state.Turn]++
	}
	r.state.Validated = true
	return nil
}

func (r *MultipleChoice) Finish() domain.Outcome {
	st := r.state.clone()
	return r.fixedOutcome(map[string]any{
		"scores":  st.Scores,
		"history": st.History,
	})
}

func (r *MultipleChoice) Release() {}
