package round

import (
	"strings"
	"time"

	"party-quiz/internal/domain"
)

const KindTimedList = "timedlist"

const (
	phaseInput   = "input"
	phaseResults = "results"
)

// TimedListState is the state of a timed list round.
type TimedListState struct {
	Phase          string                   `json:"phase"`
	Current        domain.Player            `json:"currentPlayer"`
	Answers        map[domain.Player]string `json:"answers"`
	Counts         map[domain.Player]int    `json:"counts"`
	AnswerRevealed bool                     `json:"answerRevealed"`
	Remaining      int                      `json:"remaining"`
	Running        bool                     `json:"running"`
	TimeUp         bool                     `json:"timeUp"`
}

func (*TimedListState) Kind() string { return KindTimedList }

func (s *TimedListState) clone() *TimedListState {
	c := *s
	c.Answers = make(map[domain.Player]string, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	c.Counts = copyScores(s.Counts)
	return &c
}

// TimedList has each player write a list against the clock, one after the other.
type TimedList struct {
	base
	state *TimedListState
	timer Timer
}

func NewTimedList(def domain.RoundDefinition, env Env) Round {
	return &TimedList{base: newBase(def, env)}
}

func (*TimedList) TypeLabel() string { return "Liste" }

func (r *TimedList) InitialState() State {
	return &TimedListState{
		Phase:     phaseInput,
		Current:   domain.Player1,
		Answers:   map[domain.Player]string{domain.Player1: "", domain.Player2: ""},
		Counts:    zeroScores(),
		Remaining: r.durationSeconds(),
	}
}

func (r *TimedList) Restore(s State) error {
	st, ok := s.(*TimedListState)
	if !ok {
		return mismatch(KindTimedList, s)
	}
	r.state = st.clone()
	// Countdowns do not survive a reload.
	r.state.Running = false
	return nil
}

func (r *TimedList) Start() error { return nil }

func (r *TimedList) State() State { return r.state.clone() }

func (r *TimedList) durationSeconds() int {
	return int(r.env.Config.TimedListDuration / time.Second)
}

func (r *TimedList) tick() time.Duration {
	if r.env.Config.CountdownTick > 0 {
		return r.env.Config.CountdownTick
	}
	return time.Second
}

// CountItems counts the non-blank lines of a list.
func CountItems(text string) int {
	return len(listItems(text))
}

func listItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			items = append(items, line)
		}
	}
	return items
}

func (r *TimedList) Present(s Surface) {
	v := r.view(r.state.Phase)
	if r.state.Phase == phaseInput {
		v.Prompt = r.def.Question
		v.Turn = r.state.Current
		v.TurnName = r.playerName(r.state.Current)
		v.Items = listItems(r.state.Answers[r.state.Current])
		v.Remaining = r.state.Remaining
		if !r.state.Running && !r.state.TimeUp {
			v.Actions = append(v.Actions, ActionStartTimer)
		}
		if !r.state.TimeUp {
			v.Actions = append(v.Actions, ActionSetText, ActionAddItem, ActionRemoveItem)
		}
		v.Actions = append(v.Actions, ActionNextPlayer)
	} else {
		for _, p := range domain.Players {
			for _, item := range listItems(r.state.Answers[p]) {
				v.Items = append(v.Items, r.playerName(p)+": "+item)
			}
		}
		v.Scores = copyScores(r.state.Counts)
		if r.state.AnswerRevealed {
			v.Answer = r.def.Answer
		}
		v.Actions = []ActionKind{ActionToggleAnswer, ActionDetermineWinner}
	}
	s.Render(v)
}

func (r *TimedList) Apply(a Action) error {
	if r.state.Phase == phaseInput {
		switch a.Kind {
		case ActionStartTimer:
			r.startTimer()
			return nil
		case ActionSetText:
			if r.state.TimeUp {
				return domain.InvalidAction("time is up for %s", r.playerName(r.state.Current))
			}
			r.state.Answers[r.state.Current] = a.Text
			return nil
		case ActionAddItem, ActionRemoveItem:
			if r.state.TimeUp {
				return domain.InvalidAction("time is up for %s", r.playerName(r.state.Current))
			}
			return r.editList(a)
		case ActionNextPlayer:
			r.nextPlayer()
			return nil
		}
		return unsupported(a, phaseInput)
	}

	switch a.Kind {
	case ActionToggleAnswer:
		r.state.AnswerRevealed = !r.state.AnswerRevealed
		return nil
	case ActionDetermineWinner:
		r.end(pickWinner(r.state.Counts))
		return nil
	}
	return unsupported(a, phaseResults)
}

// editList appends one item to the current list, or drops its last item.
func (r *TimedList) editList(a Action) error {
	items := listItems(r.state.Answers[r.state.Current])
	if a.Kind == ActionAddItem {
		item := strings.TrimSpace(a.Text)
		if item == "" || strings.Contains(item, "\n") {
			return domain.InvalidAction("an item is one non-empty line")
		}
		items = append(items, item)
	} else {
		if len(items) == 0 {
			return domain.InvalidAction("the list is empty")
		}
		items = items[:len(items)-1]
	}
	r.state.Answers[r.state.Current] = strings.Join(items, "\n")
	return nil
}

func (r *TimedList) startTimer() {
	if r.state.Running || r.state.TimeUp {
		return
	}
	r.state.Running = true
	r.timer = r.after(r.tick(), r.onTick)
}

func (r *TimedList) onTick() {
	if !r.state.Running {
		return
	}
	r.state.Remaining--
	if r.state.Remaining <= 0 {
		r.state.Remaining = 0
		r.state.Running = false
		r.state.TimeUp = true
		r.timer = nil
		return
	}
	r.timer = r.after(r.tick(), r.onTick)
}

func (r *TimedList) stopTimer() {
	stopTimer(r.timer)
	r.timer = nil
	r.state.Running = false
}

func (r *TimedList) nextPlayer() {
	r.stopTimer()
	if r.state.Current == domain.Player1 {
		r.state.Current = domain.Player2
		r.state.Remaining = r.durationSeconds()
		r.state.TimeUp = false
		return
	}
	r.state.Phase = phaseResults
	for _, p := range domain.Players {
		r.state.Counts[p] = CountItems(r.state.Answers[p])
	}
}

func (r *TimedList) Finish() domain.Outcome {
	lists := make(map[domain.Player][]string, 2)
	for _, p := range domain.Players {
		lists[p] = listItems(r.state.Answers[p])
	}
	return r.fixedOutcome(map[string]any{
		"counts": copyScores(r.state.Counts),
		"lists":  lists,
	})
}

func (r *TimedList) Release() {
	stopTimer(r.timer)
	r.timer = nil
	if r.state != nil {
		r.state.Running = false
	}
}
