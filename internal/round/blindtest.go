package round

import (
	"errors"

	"party-quiz/internal/domain"
)

const KindBlindTest = "blindtest"

const defaultVolume = 50

// BlindTestState is the state of a blind-test round. The volume survives reloads.
type BlindTestState struct {
	Volume         int    `json:"volume"`
	AnswerRevealed bool   `json:"answerRevealed"`
	MediaError     string `json:"mediaError,omitempty"`
}

func (*BlindTestState) Kind() string { return KindBlindTest }

// BlindTest plays a media cue; the host reveals the answer and picks the winner.
// Missing media never blocks the round.
type BlindTest struct {
	base
	state    BlindTestState
	playback Playback
	playing  bool
}

func NewBlindTest(def domain.RoundDefinition, env Env) Round {
	return &BlindTest{base: newBase(def, env)}
}

func (*BlindTest) TypeLabel() string { return "Blind test" }

func (r *BlindTest) InitialState() State {
	return &BlindTestState{Volume: defaultVolume}
}

func (r *BlindTest) Restore(s State) error {
	st, ok := s.(*BlindTestState)
	if !ok {
		return mismatch(KindBlindTest, s)
	}
	r.state = *st
	r.state.MediaError = ""
	return nil
}

func (r *BlindTest) cue() MediaCue {
	return MediaCue{
		YouTubeID: r.def.YouTubeID,
		AudioFile: r.def.AudioFile,
		StartTime: r.def.StartTime,
		Volume:    r.state.Volume,
	}
}

func (r *BlindTest) Start() error {
	if r.env.Media == nil {
		r.state.MediaError = domain.ErrMediaUnavailable.Error()
		return nil
	}
	playback, err := r.env.Media.Open(r.cue())
	if err != nil {
		// The host can still play the cue from the external link and score by hand.
		r.state.MediaError = err.Error()
		return nil
	}
	r.playback = playback
	return nil
}

func (r *BlindTest) State() State {
	st := r.state
	return &st
}

// FallbackLink is the external page for the cue, when there is one.
func (r *BlindTest) FallbackLink() string {
	if r.def.YouTubeID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + r.def.YouTubeID
}

func (r *BlindTest) Present(s Surface) {
	v := r.view("listening")
	v.Prompt = r.def.Question
	v.Media = &MediaView{
		YouTubeID: r.def.YouTubeID,
		AudioFile: r.def.AudioFile,
		StartTime: r.def.StartTime,
		Volume:    r.state.Volume,
		Playing:   r.playing,
		Error:     r.state.MediaError,
	}
	if r.state.MediaError != "" {
		v.Media.FallbackLink = r.FallbackLink()
	}
	if r.state.AnswerRevealed {
		v.Answer = r.def.Answer
	} else {
		v.Actions = append(v.Actions, ActionRevealAnswer)
	}
	if r.playback != nil {
		v.Actions = append(v.Actions, ActionPlay, ActionPause)
	}
	v.Actions = append(v.Actions, ActionSetVolume, ActionAward, ActionSkip)
	s.Render(v)
}

func (r *BlindTest) Apply(a Action) error {
	switch a.Kind {
	case ActionRevealAnswer:
		r.state.AnswerRevealed = true
		return nil
	case ActionSetVolume:
		level := min(max(a.Level, 0), 100)
		if r.playback != nil {
			if err := r.playback.SetVolume(level); err != nil {
				return err
			}
		}
		r.state.Volume = level
		return nil
	case ActionPlay, ActionPause:
		if r.playback == nil {
			return errors.Join(domain.ErrMediaUnavailable, domain.InvalidAction("no playback for this cue"))
		}
		if a.Kind == ActionPlay {
			if err := r.playback.Play(); err != nil {
				return err
			}
			r.playing = true
			return nil
		}
		if err := r.playback.Pause(); err != nil {
			return err
		}
		r.playing = false
		return nil
	case ActionAward:
		return r.award(a.Player)
	case ActionSkip:
		r.skip()
		return nil
	}
	return unsupported(a, "listening")
}

func (r *BlindTest) Finish() domain.Outcome {
	return r.fixedOutcome(nil)
}

// Release closes the playback handle exactly once.
func (r *BlindTest) Release() {
	if r.playback == nil {
		return
	}
	_ = r.playback.Close()
	r.playback = nil
	r.playing = false
}
