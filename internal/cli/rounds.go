package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"party-quiz/internal/app"
	"party-quiz/internal/config"
	"party-quiz/internal/domain"
	"party-quiz/internal/infra/memory"
	"party-quiz/internal/round"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// NewRoundsCmd lists the rounds of a quiz.
func NewRoundsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rounds <quiz-id>",
		Short: "List the rounds of a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			b, err := openBackends(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			service := app.NewQuizService(memory.NewSessionStore(), b.quizRepository(cfg, cfg.NewLogger("quiz")), cfg.GameConfig(), app.ControllerDeps{})
			rounds, err := service.Rounds(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), roundsTable(rounds))
			return nil
		},
	}
}

// NewTypesCmd lists the registered round types.
func NewTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the available round types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			factory := round.NewDefaultFactory()
			t := newTable("type", "label")
			for _, tag := range factory.ListTypes() {
				t.Row(tag, factory.LabelFor(tag))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

func roundsTable(rounds []app.RoundSummary) *table.Table {
	t := newTable("#", "title", "type", "points")
	for _, r := range rounds {
		label := r.Label
		if !r.Registered {
			label += " (unknown)"
		}
		t.Row(strconv.Itoa(r.Index+1), r.Title, label, strconv.Itoa(r.Points))
	}
	return t
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// loadQuiz fetches one quiz through the configured backends.
func loadQuiz(ctx context.Context, cfg config.Config, quizID string) (domain.Quiz, error) {
	b, err := openBackends(ctx, cfg)
	if err != nil {
		return domain.Quiz{}, err
	}
	defer b.Close()
	return b.quizRepository(cfg, cfg.NewLogger("quiz")).GetQuiz(ctx, quizID)
}
