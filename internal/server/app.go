// Package server wires the application together: configuration, logging,
// storage, domain services, and the HTTP endpoint, with graceful shutdown
// on termination signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sangpi/chatvault/internal/logging"
	"github.com/sangpi/chatvault/internal/server/chat"
	"github.com/sangpi/chatvault/internal/server/config"
	"github.com/sangpi/chatvault/internal/server/gen"
	"github.com/sangpi/chatvault/internal/server/httpapi"
	"github.com/sangpi/chatvault/internal/server/messages"
	"github.com/sangpi/chatvault/internal/server/repomanager"
	"github.com/sangpi/chatvault/internal/server/users"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	repos      repomanager.RepositoryManager
	httpServer *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()

	userService := users.NewService(db, repos.Users(db), repos.ResumeTokens, cfg)
	messageService := messages.NewService(repos.Messages(db), cfg)
	generator := gen.NewGemini(cfg.GenAIAPIKey, cfg.GenAIModel, cfg.SystemPrompt)
	chatService := chat.NewService(repos.Messages(db), generator, cfg.GenerationTimeout, logger)
	feedbackRepo := repos.Feedback(db)

	api := httpapi.NewServer(cfg, logger, userService, messageService, chatService, feedbackRepo)

	httpServer := &http.Server{
		Addr:    cfg.EndpointAddrHTTP,
		Handler: api.Router(),
	}

	return &App{config: cfg, logger: logger, db: db, repos: repos, httpServer: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run migrates the database, serves HTTP until the context is cancelled or
// a termination signal arrives, then drains in-flight requests.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddrHTTP)

	errCh := make(chan error, 1)
	go func() {
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	return nil
}
