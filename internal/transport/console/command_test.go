package console

import (
	"testing"

	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

func TestParseActions(t *testing.T) {
	cases := []struct {
		line string
		want round.Action
	}{
		{"reveal", round.Action{Kind: round.ActionRevealQuestion}},
		{"hint", round.Action{Kind: round.ActionNextHint}},
		{"skip", round.Action{Kind: round.ActionSkip}},
		{"reveal_answer", round.Action{Kind: round.ActionRevealAnswer}},
		{"award 2", round.Award(domain.Player2)},
		{"AWARD player1", round.Award(domain.Player1)},
		{"text  la  tour Eiffel ", round.Action{Kind: round.ActionAddItem, Text: "la  tour Eiffel"}},
		{"undo", round.Action{Kind: round.ActionRemoveItem}},
		{"clear", round.Action{Kind: round.ActionSetText}},
		{"choose B", round.Action{Kind: round.ActionToggleChoice, Key: "B"}},
		{"theme sport", round.Action{Kind: round.ActionSelectTheme, Key: "sport"}},
		{"volume 80", round.Action{Kind: round.ActionSetVolume, Level: 80}},
	}
	for _, tc := range cases {
		cmd, err := Parse(tc.line)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.line, err)
		}
		if cmd.Kind != CommandAction {
			t.Fatalf("%q: expected an action, got kind %d", tc.line, cmd.Kind)
		}
		got := cmd.Action
		if got.Kind != tc.want.Kind || got.Player != tc.want.Player || got.Key != tc.want.Key ||
			got.Text != tc.want.Text || got.Level != tc.want.Level {
			t.Fatalf("%q: got %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	cmd, err := Parse("tf vrai")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Action.Kind != round.ActionAnswer || cmd.Action.Flag == nil || !*cmd.Action.Flag {
		t.Fatalf("unexpected action %+v", cmd.Action)
	}
	cmd, err = Parse("mark no")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Action.Kind != round.ActionMark || cmd.Action.Flag == nil || *cmd.Action.Flag {
		t.Fatalf("unexpected action %+v", cmd.Action)
	}
}

func TestParseSessionCommands(t *testing.T) {
	cmd, err := Parse("joker 1")
	if err != nil || cmd.Kind != CommandJoker || cmd.Joker != "player1" {
		t.Fatalf("unexpected joker command %+v, err %v", cmd, err)
	}
	cmd, err = Parse("joker NONE")
	if err != nil || cmd.Joker != "none" {
		t.Fatalf("unexpected joker command %+v, err %v", cmd, err)
	}
	for line, kind := range map[string]CommandKind{
		"start": CommandStart, "retry": CommandRetry, "cleanup": CommandCleanup,
		"help": CommandHelp, "quit": CommandQuit,
	} {
		cmd, err := Parse(line)
		if err != nil || cmd.Kind != kind {
			t.Fatalf("%q: got %+v, err %v", line, cmd, err)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, line := range []string{
		"", "dance", "award", "award player3", "joker", "joker player9",
		"tf maybe", "volume loud", "hint 2", "choose", "text", "undo 2",
	} {
		if _, err := Parse(line); err == nil {
			t.Fatalf("expected %q to be rejected", line)
		}
	}
}
