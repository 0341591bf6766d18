package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"party-quiz/internal/app"
	"party-quiz/internal/media"
	transport "party-quiz/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}
}

func runServer(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger("server")

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	port := opts.port
	if port == "" {
		port = cfg.Server.Port
	}
	if port == "" {
		port = "8080"
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	game := cfg.GameConfig()
	tracker := media.NewTracker(game.MediaBaseDir, cfg.NewLogger("media"))
	service := app.NewQuizService(b.sessionStore(cfg), b.quizRepository(cfg, logger), game, app.ControllerDeps{
		Media:  tracker,
		Logger: cfg.NewLogger("quiz"),
	})

	server := &http.Server{
		Addr:        ":" + port,
		Handler:     transport.NewRouter(service, cfg.NewLogger("ws")),
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting party quiz", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	if n := tracker.Active(); n > 0 {
		logger.Warn("playback handles still open at shutdown", "count", n)
	}
	return err
}
