package round

import "party-quiz/internal/domain"

// ActionKind names an operator action.
type ActionKind string

const (
	ActionRevealQuestion  ActionKind = "reveal_question"
	ActionToggleAnswer    ActionKind = "toggle_answer"
	ActionRevealAnswer    ActionKind = "reveal_answer"
	ActionAward           ActionKind = "award"
	ActionSkip            ActionKind = "skip"
	ActionNextHint        ActionKind = "next_hint"
	ActionStartTimer      ActionKind = "start_timer"
	ActionSetText         ActionKind = "set_text"
	ActionAddItem         ActionKind = "add_item"
	ActionRemoveItem      ActionKind = "remove_item"
	ActionNextPlayer      ActionKind = "next_player"
	ActionDetermineWinner ActionKind = "determine_winner"
	ActionAnswer          ActionKind = "answer"
	ActionConfirm         ActionKind = "confirm"
	ActionToggleChoice    ActionKind = "toggle_choice"
	ActionValidate        ActionKind = "validate"
	ActionNextQuestion    ActionKind = "next_question"
	ActionSelectTheme     ActionKind = "select_theme"
	ActionConfirmTheme    ActionKind = "confirm_theme"
	ActionMark            ActionKind = "mark"
	ActionSetVolume       ActionKind = "set_volume"
	ActionPlay            ActionKind = "play"
	ActionPause           ActionKind = "pause"
)

// Action is one operator input. Which fields matter depends on Kind.
type Action struct {
	Kind   ActionKind    `json:"kind"`
	Player domain.Player `json:"player,omitempty"`
	Key    string        `json:"key,omitempty"`
	Text   string        `json:"text,omitempty"`
	Flag   *bool         `json:"flag,omitempty"`
	Level  int           `json:"level,omitempty"`
}

// Award is a convenience constructor for the award action.
func Award(p domain.Player) Action {
	return Action{Kind: ActionAward, Player: p}
}

// Flagged builds an action carrying a boolean.
func Flagged(kind ActionKind, v bool) Action {
	return Action{Kind: kind, Flag: &v}
}
