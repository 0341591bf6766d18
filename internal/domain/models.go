package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Player identifies one of the two contestants.
type Player string

const (
	Player1 Player = "player1"
	Player2 Player = "player2"
)

// Players lists both contestants in turn order.
var Players = []Player{Player1, Player2}

// Valid reports whether p is one of the two contestants.
func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}

// Other returns the opponent of p.
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// ParsePlayer validates a raw player key.
func ParsePlayer(raw string) (Player, error) {
	p := Player(raw)
	if !p.Valid() {
		return "", InvalidAction("unknown player %q", raw)
	}
	return p, nil
}

// PlayerInfo is the display information for a contestant.
type PlayerInfo struct {
	Name string `json:"name" yaml:"name"`
}

// GameConfig is the read-only session configuration handed to rounds.
type GameConfig struct {
	Players               map[Player]PlayerInfo
	TimedListDuration     time.Duration
	CountdownTick         time.Duration
	AdvanceDelay          time.Duration
	ThemedSetResolveDelay time.Duration
	MediaBaseDir          string
}

// PlayerName returns the configured name, or the raw key when none is set.
func (c GameConfig) PlayerName(p Player) string {
	if info, ok := c.Players[p]; ok && info.Name != "" {
		return info.Name
	}
	return string(p)
}

// Quiz is the ordered list of rounds played in a session.
type Quiz struct {
	ID     string            `json:"id"`
	Title  string            `json:"title,omitempty"`
	Rounds []RoundDefinition `json:"rounds"`
}

// Outcome is what a round yields once it has ended.
type Outcome struct {
	Winner  *Player `json:"winner"`
	Points  int     `json:"points"`
	Details any     `json:"details,omitempty"`
}

// Theme is one pickable theme of a themed-set round.
type Theme struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// Question is an item of a multi-question round.
type Question struct {
	Text    string            `json:"question"`
	Answer  Answer            `json:"answer"`
	Choices map[string]string `json:"choices,omitempty"`
}

// Answer holds a question's expected answer, which is a string, a boolean or a list of labels
// depending on the round type.
type Answer struct {
	Text   string
	Bool   *bool
	Labels []string
}

// BoolAnswer builds a true/false answer.
func BoolAnswer(v bool) Answer {
	return Answer{Bool: &v}
}

// TextAnswer builds a free-text answer.
func TextAnswer(v string) Answer {
	return Answer{Text: v}
}

// LabelAnswer builds a multiple-choice answer.
func LabelAnswer(labels ...string) Answer {
	return Answer{Labels: labels}
}

// ChoiceLabels returns the answer as a label list; a single string counts as one label.
func (a Answer) ChoiceLabels() []string {
	if len(a.Labels) > 0 {
		return a.Labels
	}
	if a.Text != "" {
		return []string{a.Text}
	}
	return nil
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case a.Bool != nil:
		return json.Marshal(*a.Bool)
	case a.Labels != nil:
		return json.Marshal(a.Labels)
	default:
		return json.Marshal(a.Text)
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = Answer{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		a.Bool = &b
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Text = s
		return nil
	}
	var labels []string
	if err := json.Unmarshal(data, &labels); err == nil {
		a.Labels = labels
		return nil
	}
	return fmt.Errorf("answer must be a string, a boolean or a list of strings: %s", data)
}

// RoundDefinition is the externally supplied, immutable description of a round.
// Fields not known here are kept in Extra and handed to the round as is.
type RoundDefinition struct {
	ID                int              `json:"id"`
	Title             string           `json:"title"`
	Points            int              `json:"points"`
	Type              string           `json:"type"`
	Question          string           `json:"question,omitempty"`
	Answer            string           `json:"answer,omitempty"`
	TwoPhase          bool             `json:"twoPhase,omitempty"`
	Indices           []string         `json:"indices,omitempty"`
	PointsProgression []int            `json:"pointsProgression,omitempty"`
	Questions         []Question       `json:"questions,omitempty"`
	Themes            map[string]Theme `json:"themes,omitempty"`
	YouTubeID         string           `json:"youtubeId,omitempty"`
	AudioFile         string           `json:"audioFile,omitempty"`
	StartTime         int              `json:"startTime,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type roundDefinitionAlias RoundDefinition

var knownDefinitionFields = map[string]struct{}{
	"id": {}, "title": {}, "points": {}, "type": {}, "question": {}, "answer": {},
	"twoPhase": {}, "indices": {}, "pointsProgression": {}, "questions": {}, "themes": {},
	"youtubeId": {}, "audioFile": {}, "startTime": {},
}

func (d *RoundDefinition) UnmarshalJSON(data []byte) error {
	var alias roundDefinitionAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = RoundDefinition(alias)
	for key, value := range raw {
		if _, ok := knownDefinitionFields[key]; ok {
			continue
		}
		if d.Extra == nil {
			d.Extra = make(map[string]json.RawMessage)
		}
		d.Extra[key] = value
	}
	return nil
}

func (d RoundDefinition) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(roundDefinitionAlias(d))
	if err != nil || len(d.Extra) == 0 {
		return base, err
	}
	merged := make(map[string]json.RawMessage, len(d.Extra)+8)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, value := range d.Extra {
		if _, ok := merged[key]; !ok {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}
