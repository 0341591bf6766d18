package console

import (
	"fmt"
	"strconv"
	"strings"

	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

// CommandKind is what a console line asks the controller to do.
type CommandKind int

const (
	CommandAction CommandKind = iota
	CommandStart
	CommandJoker
	CommandRetry
	CommandCleanup
	CommandHelp
	CommandQuit
)

// Command is one parsed console line.
type Command struct {
	Kind   CommandKind
	Joker  string
	Action round.Action
}

var aliases = map[string]round.ActionKind{
	"reveal":   round.ActionRevealQuestion,
	"answer":   round.ActionToggleAnswer,
	"show":     round.ActionRevealAnswer,
	"hint":     round.ActionNextHint,
	"timer":    round.ActionStartTimer,
	"next":     round.ActionNextPlayer,
	"winner":   round.ActionDetermineWinner,
	"confirm":  round.ActionConfirm,
	"validate": round.ActionValidate,
	"question": round.ActionNextQuestion,
	"pick":     round.ActionConfirmTheme,
}

var bareActions = map[round.ActionKind]struct{}{
	round.ActionRevealQuestion:  {},
	round.ActionToggleAnswer:    {},
	round.ActionRevealAnswer:    {},
	round.ActionSkip:            {},
	round.ActionNextHint:        {},
	round.ActionStartTimer:      {},
	round.ActionNextPlayer:      {},
	round.ActionDetermineWinner: {},
	round.ActionConfirm:         {},
	round.ActionValidate:        {},
	round.ActionNextQuestion:    {},
	round.ActionConfirmTheme:    {},
	round.ActionPlay:            {},
	round.ActionPause:           {},
}

// Parse turns a console line into a command. Player arguments accept the keys (player1) and the
// short forms 1 and 2.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	word, args := strings.ToLower(fields[0]), fields[1:]

	switch word {
	case "start":
		return Command{Kind: CommandStart}, nil
	case "retry":
		return Command{Kind: CommandRetry}, nil
	case "cleanup":
		return Command{Kind: CommandCleanup}, nil
	case "help", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "exit":
		return Command{Kind: CommandQuit}, nil
	case "joker":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: joker player1|player2|none")
		}
		choice := strings.ToLower(args[0])
		if choice != "none" {
			p, err := parsePlayer(choice)
			if err != nil {
				return Command{}, err
			}
			choice = string(p)
		}
		return Command{Kind: CommandJoker, Joker: choice}, nil
	case "award":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: award player1|player2")
		}
		p, err := parsePlayer(args[0])
		if err != nil {
			return Command{}, err
		}
		return action(round.Award(p)), nil
	case "text":
		// One line is one list item; the rest of the line is kept as typed, inner spacing included.
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		if text == "" {
			return Command{}, fmt.Errorf("usage: text <item>")
		}
		return action(round.Action{Kind: round.ActionAddItem, Text: text}), nil
	case "undo":
		if len(args) != 0 {
			return Command{}, fmt.Errorf("undo takes no argument")
		}
		return action(round.Action{Kind: round.ActionRemoveItem}), nil
	case "clear":
		if len(args) != 0 {
			return Command{}, fmt.Errorf("clear takes no argument")
		}
		return action(round.Action{Kind: round.ActionSetText}), nil
	case "tf", "mark":
		kind := round.ActionAnswer
		if word == "mark" {
			kind = round.ActionMark
		}
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: %s true|false", word)
		}
		v, err := parseBool(args[0])
		if err != nil {
			return Command{}, err
		}
		return action(round.Flagged(kind, v)), nil
	case "choose", "theme":
		kind := round.ActionToggleChoice
		if word == "theme" {
			kind = round.ActionSelectTheme
		}
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: %s <key>", word)
		}
		return action(round.Action{Kind: kind, Key: args[0]}), nil
	case "volume":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: volume 0-100")
		}
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("volume: %q is not a number", args[0])
		}
		return action(round.Action{Kind: round.ActionSetVolume, Level: level}), nil
	}

	kind, ok := aliases[word]
	if !ok {
		kind = round.ActionKind(word)
	}
	if _, ok := bareActions[kind]; !ok {
		return Command{}, fmt.Errorf("unknown command %q (type help)", word)
	}
	if len(args) != 0 {
		return Command{}, fmt.Errorf("%s takes no argument", word)
	}
	return action(round.Action{Kind: kind}), nil
}

func action(a round.Action) Command {
	return Command{Kind: CommandAction, Action: a}
}

func parsePlayer(raw string) (domain.Player, error) {
	switch raw {
	case "1":
		return domain.Player1, nil
	case "2":
		return domain.Player2, nil
	}
	return domain.ParsePlayer(strings.ToLower(raw))
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "vrai", "yes", "y", "1":
		return true, nil
	case "false", "faux", "no", "n", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is neither true nor false", raw)
}

const helpText = `commands:
  start                      start the quiz from the first round
  joker player1|player2|none answer the joker offer
  reveal | answer | show     reveal the question, toggle or reveal the answer
  award 1|2 | skip           end the round for a player, or with no winner
  hint                       show the next hint
  timer | next               timed list: start the countdown, pass to the next player
  text ... | undo | clear    timed list: add one item, drop the last one, empty the list
  winner                     timed list: end the round from the results
  tf true|false | confirm    true or false: answer then confirm
  choose <key> | validate    multiple choice: toggle a choice, validate
  question                   multiple choice: next question
  theme <key> | pick         themed set: select and confirm a theme
  mark true|false            themed set: mark the current question
  play | pause | volume N    blind test playback
  retry | cleanup | quit`
