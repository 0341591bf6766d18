package round

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"party-quiz/internal/domain"
)

const KindThemedSet = "themedset"

const (
	// ThemePicks is the total number of themes picked, two per player.
	ThemePicks = 4
	// QuestionsPerTheme is the number of questions asked in each picked theme.
	QuestionsPerTheme = 2

	phaseSelection = "selection"
	phasePlaying   = "playing"

	defaultResolveDelay = 5 * time.Second
)

// ThemedSetState is the state of a themed-set round.
type ThemedSetState struct {
	Phase          string                     `json:"phase"`
	Current        domain.Player              `json:"currentPlayer"`
	Turn           int                        `json:"turn"`
	Selected       []string                   `json:"selectedThemes"`
	PlayerThemes   map[domain.Player][]string `json:"playerThemes"`
	Owners         map[string]domain.Player   `json:"themeOwners"`
	Pending        string                     `json:"pending,omitempty"`
	Scores         map[domain.Player]int      `json:"scores"`
	ThemeIndex     int                        `json:"themeIndex"`
	QuestionIndex  int                        `json:"questionIndex"`
	AnswerRevealed bool                       `json:"answerRevealed"`
}

func (*ThemedSetState) Kind() string { return KindThemedSet }

func (s *ThemedSetState) clone() *ThemedSetState {
	c := *s
	c.Selected = append([]string(nil), s.Selected...)
	c.PlayerThemes = make(map[domain.Player][]string, len(s.PlayerThemes))
	for k, v := range s.PlayerThemes {
		c.PlayerThemes[k] = append([]string(nil), v...)
	}
	c.Owners = make(map[string]domain.Player, len(s.Owners))
	for k, v := range s.Owners {
		c.Owners[k] = v
	}
	c.Scores = copyScores(s.Scores)
	return &c
}

// ThemedSet lets each player pick two themes, then asks the picker two questions per theme.
// The winner is decided automatically once the scores have been on screen for a moment.
type ThemedSet struct {
	base
	state   *ThemedSetState
	resolve Timer
}

func NewThemedSet(def domain.RoundDefinition, env Env) Round {
	return &ThemedSet{base: newBase(def, env)}
}

func (*ThemedSet) TypeLabel() string { return "4 Thèmes" }

func (r *ThemedSet) InitialState() State {
	return &ThemedSetState{
		Phase:        phaseSelection,
		Current:      domain.Player1,
		PlayerThemes: map[domain.Player][]string{domain.Player1: nil, domain.Player2: nil},
		Owners:       map[string]domain.Player{},
		Scores:       zeroScores(),
	}
}

func (r *ThemedSet) Restore(s State) error {
	st, ok := s.(*ThemedSetState)
	if !ok {
		return mismatch(KindThemedSet, s)
	}
	r.state = st.clone()
	return nil
}

func (r *ThemedSet) Start() error {
	if len(r.def.Themes) < ThemePicks {
		return fmt.Errorf("%w: %q needs at least %d themes, has %d", domain.ErrInvalidDefinition, r.def.Title, ThemePicks, len(r.def.Themes))
	}
	for key, theme := range r.def.Themes {
		if len(theme.Questions) < QuestionsPerTheme {
			return fmt.Errorf("%w: theme %q needs %d questions", domain.ErrInvalidDefinition, key, QuestionsPerTheme)
		}
	}
	if r.state.Phase == phaseResults {
		r.scheduleResolve()
	}
	return nil
}

func (r *ThemedSet) State() State { return r.state.clone() }

// Available returns the theme keys still in the pool, sorted.
func (r *ThemedSet) Available() []string {
	var keys []string
	for key := range r.def.Themes {
		if !slices.Contains(r.state.Selected, key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (r *ThemedSet) currentQuestion() (domain.Theme, domain.Question) {
	theme := r.def.Themes[r.state.Selected[r.state.ThemeIndex]]
	return theme, theme.Questions[r.state.QuestionIndex]
}

func (r *ThemedSet) Present(s Surface) {
	v := r.view(r.state.Phase)
	v.Scores = copyScores(r.state.Scores)
	switch r.state.Phase {
	case phaseSelection:
		v.Turn = r.state.Current
		v.TurnName = r.playerName(r.state.Current)
		v.Choices = make(map[string]string)
		for _, key := range r.Available() {
			v.Choices[key] = r.def.Themes[key].Name
		}
		if r.state.Pending != "" {
			v.Selected = []string{r.state.Pending}
		}
		v.Feedback = fmt.Sprintf("theme %d of %d", len(r.state.PlayerThemes[r.state.Current])+1, ThemePicks/2)
		v.Actions = []ActionKind{ActionSelectTheme, ActionConfirmTheme}
	case phasePlaying:
		theme, q := r.currentQuestion()
		v.Turn = r.state.Current
		v.TurnName = r.playerName(r.state.Current)
		v.Feedback = fmt.Sprintf("%s, question %d/%d", theme.Name, r.state.QuestionIndex+1, QuestionsPerTheme)
		v.Prompt = q.Text
		if r.state.AnswerRevealed {
			v.Answer = q.Answer.Text
		}
		v.Actions = []ActionKind{ActionToggleAnswer, ActionMark}
	default:
		v.Actions = []ActionKind{}
	}
	s.Render(v)
}

func (r *ThemedSet) Apply(a Action) error {
	switch r.state.Phase {
	case phaseSelection:
		switch a.Kind {
		case ActionSelectTheme:
			if _, ok := r.def.Themes[a.Key]; !ok {
				return domain.InvalidAction("no theme %q", a.Key)
			}
			if slices.Contains(r.state.Selected, a.Key) {
				return domain.InvalidAction("theme %q was already picked", a.Key)
			}
			r.state.Pending = a.Key
			return nil
		case ActionConfirmTheme:
			return r.confirmTheme()
		}
	case phasePlaying:
		switch a.Kind {
		case ActionToggleAnswer:
			r.state.AnswerRevealed = !r.state.AnswerRevealed
			return nil
		case ActionMark:
			if a.Flag == nil {
				return domain.InvalidAction("mark needs found or missed")
			}
			r.mark(*a.Flag)
			return nil
		}
	}
	return unsupported(a, r.state.Phase)
}

func (r *ThemedSet) confirmTheme() error {
	if r.state.Pending == "" {
		return domain.InvalidAction("%s must pick a theme", r.playerName(r.state.Current))
	}
	key := r.state.Pending
	r.state.Selected = append(r.state.Selected, key)
	r.state.PlayerThemes[r.state.Current] = append(r.state.PlayerThemes[r.state.Current], key)
	r.state.Owners[key] = r.state.Current
	r.state.Pending = ""
	r.state.Turn++

	if r.state.Turn < ThemePicks {
		r.state.Current = r.state.Current.Other()
		return nil
	}
	r.state.Phase = phasePlaying
	r.state.ThemeIndex = 0
	r.state.QuestionIndex = 0
	r.state.Current = r.state.Owners[r.state.Selected[0]]
	return nil
}

func (r *ThemedSet) mark(found bool) {
	if found {
		r.state.Scores[r.state.Current]++
	}
	r.state.AnswerRevealed = false
	r.state.QuestionIndex++
	if r.state.QuestionIndex < QuestionsPerTheme {
		return
	}
	r.state.QuestionIndex = 0
	r.state.ThemeIndex++
	if r.state.ThemeIndex < ThemePicks {
		r.state.Current = r.state.Owners[r.state.Selected[r.state.ThemeIndex]]
		return
	}
	r.state.Phase = phaseResults
	r.scheduleResolve()
}

func (r *ThemedSet) scheduleResolve() {
	stopTimer(r.resolve)
	delay := r.env.Config.ThemedSetResolveDelay
	if delay <= 0 {
		delay = defaultResolveDelay
	}
	r.resolve = r.after(delay, func() {
		r.resolve = nil
		r.end(pickWinner(r.state.Scores))
	})
}

func (r *ThemedSet) Finish() domain.Outcome {
	return r.fixedOutcome(map[string]any{
		"scores":       copyScores(r.state.Scores),
		"playerThemes": r.state.clone().PlayerThemes,
	})
}

func (r *ThemedSet) Release() {
	stopTimer(r.resolve)
	r.resolve = nil
}
