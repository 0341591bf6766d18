package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"party-quiz/internal/app"
	"party-quiz/internal/domain"
	"party-quiz/internal/infra/file"
	"party-quiz/internal/media"
	"party-quiz/internal/transport/console"
)

// NewPlayCmd runs a quiz in the terminal.
func NewPlayCmd(opts *rootOptions) *cobra.Command {
	var quizFile string
	cmd := &cobra.Command{
		Use:   "play [quiz-id]",
		Short: "Host a quiz from the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quizID := "demo"
			if len(args) == 1 {
				quizID = args[0]
			}
			return runPlay(cmd.Context(), opts, quizID, quizFile)
		},
	}
	cmd.Flags().StringVar(&quizFile, "file", "", "play the quiz stored in this JSON file")
	return cmd
}

func runPlay(ctx context.Context, opts *rootOptions, quizID, quizFile string) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger("play")

	var quiz domain.Quiz
	if quizFile != "" {
		quiz, err = file.ReadQuiz(quizFile)
	} else {
		quiz, err = loadQuiz(ctx, cfg, quizID)
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	game := cfg.GameConfig()
	controller := app.NewQuizController(uuid.NewString(), quiz, game, app.ControllerDeps{
		Media:  media.NewTracker(game.MediaBaseDir, cfg.NewLogger("media")),
		Logger: cfg.NewLogger("quiz"),
	})
	logger.Debug("playing", "quiz", quiz.ID, "rounds", len(quiz.Rounds))
	return console.New(controller, game, os.Stdout, logger).Run(ctx, os.Stdin)
}
