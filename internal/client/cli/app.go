// Package cli implements the interactive chatvault client: a small REPL for
// chatting, browsing past sessions, and managing the account.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sangpi/chatvault/internal/client/api"
	"github.com/sangpi/chatvault/internal/client/config"
	"github.com/sangpi/chatvault/internal/client/services"
	"github.com/sangpi/chatvault/internal/client/state"
)

// chatAPI is the slice of the API client the chat commands need.
type chatAPI interface {
	Ping(ctx context.Context) error
	NewSession(ctx context.Context) (string, error)
	ListSessions(ctx context.Context, limit int) ([]api.Session, error)
	Thread(ctx context.Context, sessionID string) ([]api.Message, error)
	SendTurn(ctx context.Context, sessionID, text, mimeType string, data []byte) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteAllSessions(ctx context.Context) error
	SendFeedback(ctx context.Context, message string) error
}

type App struct {
	config      *config.Config
	api         chatAPI
	authService services.AuthService

	reader    *bufio.Reader
	username  string
	sessionID string
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := state.InitDatabase(ctx, filepath.Join(c.DataDir, "chatvault.db"))
	if err != nil {
		return nil, fmt.Errorf("error initializing local state: %w", err)
	}

	apiClient := api.New(c.ServerURL)
	as := services.NewAuthService(apiClient, db)

	return &App{
		config:      c,
		api:         apiClient,
		authService: as,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.username != ""
}

// Run tries to silently restore the previous session, then hands control to
// the REPL. A failed auto-resume is not fatal: the user just logs in again.
func (a *App) Run(ctx context.Context) {
	username, err := a.authService.TryAutoResume(ctx)
	switch {
	case err == nil:
		a.username = username
		printlnFn(fmt.Sprintf("Welcome back, %s!", username))
	case errors.Is(err, api.ErrUnavailable):
		printlnFn("Server unavailable, try again later.")
	default:
		// nothing remembered, or the token was revoked
	}

	printlnFn("chatvault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "not logged in"
	}
	if a.sessionID == "" {
		return a.username
	}
	return fmt.Sprintf("%s @ %.8s", a.username, a.sessionID)
}
