package app

import (
	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

// EventType names what a controller event carries.
type EventType string

const (
	EventProgress     EventType = "progress"
	EventJokerOffer   EventType = "joker_offer"
	EventJokerUsed    EventType = "joker_used"
	EventRoundStarted EventType = "round_started"
	EventView         EventType = "view"
	EventRoundEnded   EventType = "round_ended"
	EventScores       EventType = "scores"
	EventFinal        EventType = "final"
	EventError        EventType = "error"
)

// Event is one semantic output of the controller for the presentation surface.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// Progress reports the position of the round about to be played.
type Progress struct {
	Index    int     `json:"index"`
	Total    int     `json:"total"`
	Fraction float64 `json:"fraction"`
}

// JokerOffer lists who may still play a joker before the round at Index loads.
type JokerOffer struct {
	Index   int             `json:"index"`
	Players []domain.Player `json:"players"`
}

type JokerUsed struct {
	Player domain.Player `json:"player"`
	Name   string        `json:"name"`
}

type RoundStarted struct {
	Index      int    `json:"index"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	Label      string `json:"label"`
	Points     int    `json:"points"`
	Multiplier int    `json:"multiplier"`
}

// RoundEnded is emitted once per round, after scores have been applied.
type RoundEnded struct {
	Index      int            `json:"index"`
	Winner     *domain.Player `json:"winner"`
	WinnerName string         `json:"winnerName,omitempty"`
	Awarded    int            `json:"awarded"`
	Multiplier int            `json:"multiplier"`
	Details    any            `json:"details,omitempty"`
}

// FinalResult closes a session. Winner is nil on a draw.
type FinalResult struct {
	Winner     *domain.Player        `json:"winner"`
	WinnerName string                `json:"winnerName,omitempty"`
	Draw       bool                  `json:"draw"`
	Scores     map[domain.Player]int `json:"scores"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func viewEvent(v round.View) Event {
	return Event{Type: EventView, Payload: v}
}

func scoresEvent(scores map[domain.Player]int) Event {
	return Event{Type: EventScores, Payload: scores}
}

func errorEvent(err error) Event {
	return Event{Type: EventError, Payload: ErrorPayload{Message: err.Error()}}
}
