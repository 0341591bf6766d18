// Package console drives a quiz session from a terminal: one command per line in, rendered
// controller events out.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"party-quiz/internal/app"
	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

// Controller is the part of app.QuizController the console needs.
type Controller interface {
	Start() error
	SelectJoker(choice string) error
	Act(a round.Action) error
	Retry() error
	Cleanup()
	Subscribe() (<-chan app.Event, func())
}

type Console struct {
	controller Controller
	renderer   *Renderer
	log        *log.Logger

	mu  sync.Mutex
	out io.Writer
}

func New(controller Controller, cfg domain.GameConfig, out io.Writer, logger *log.Logger) *Console {
	return &Console{
		controller: controller,
		renderer:   NewRenderer(cfg),
		log:        logger,
		out:        out,
	}
}

// Run reads commands from in until EOF, quit or ctx is done. The active round is cleaned up
// before returning.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	events, cancel := c.controller.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			c.print(c.renderer.Render(ev))
		}
	}()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.print(helpText)
	defer func() {
		c.controller.Cleanup()
		cancel()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if line == "" {
				continue
			}
			cmd, err := Parse(line)
			if err != nil {
				c.print(errorStyle.Render("! " + err.Error()))
				continue
			}
			if cmd.Kind == CommandQuit {
				return nil
			}
			if err := c.execute(cmd); err != nil {
				// Already reported to the terminal through the error event.
				c.log.Debug("command rejected", "line", line, "err", err)
			}
		}
	}
}

func (c *Console) execute(cmd Command) error {
	switch cmd.Kind {
	case CommandStart:
		return c.controller.Start()
	case CommandJoker:
		return c.controller.SelectJoker(cmd.Joker)
	case CommandRetry:
		return c.controller.Retry()
	case CommandCleanup:
		c.controller.Cleanup()
		return nil
	case CommandHelp:
		c.print(helpText)
		return nil
	default:
		return c.controller.Act(cmd.Action)
	}
}

func (c *Console) print(text string) {
	if text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}
