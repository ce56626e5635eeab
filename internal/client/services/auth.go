// Package services contains application services for the chatvault CLI.
// This file defines the authentication service: register, login with
// remember-me, auto-resume on startup, and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sangpi/chatvault/internal/client/api"
	"github.com/sangpi/chatvault/internal/client/state"
	"github.com/sangpi/chatvault/internal/common"
	"github.com/sangpi/chatvault/internal/dbx"
)

// Client is the slice of the API client the auth service needs.
type Client interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (*api.TokenPair, error)
	Resume(ctx context.Context, resumeToken string) (string, *api.TokenPair, error)
	Logout(ctx context.Context, resumeToken string) error
	SetAccessToken(token string)
}

// AuthService owns the credential flows of the CLI.
//
// Contract:
//   - Register: create a new account on the server.
//   - Login: authenticate and persist the resume token locally, so the next
//     start of the CLI can skip the password prompt.
//   - TryAutoResume: exchange the locally stored resume token for a fresh
//     session. The stored token is replaced by the rotated one.
//   - Logout: revoke the resume token server-side and wipe local state.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	TryAutoResume(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

type authService struct {
	client Client
	db     *sql.DB
}

// NewAuthService constructs an AuthService bound to the given API client
// and local state database.
func NewAuthService(client Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	return a.client.Register(ctx, username, password)
}

// Login authenticates against the server and remembers the session: the
// username and the resume token are written to local state in one
// transaction, and the access token is installed on the API client.
func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	pair, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	a.client.SetAccessToken(pair.AccessToken)

	if err := a.saveSession(ctx, username, pair.ResumeToken); err != nil {
		return fmt.Errorf("saving local session: %w", err)
	}
	return nil
}

// TryAutoResume restores the previous session without a password prompt.
// It returns common.ErrNotFound when nothing is remembered locally. A
// rejected token leaves the local state alone; the caller falls back to a
// manual login, which overwrites it.
func (a *authService) TryAutoResume(ctx context.Context) (string, error) {
	repo := state.NewSQLiteRepository(a.db)

	stored, err := repo.Get(ctx, state.KeyResumeToken)
	if err != nil {
		return "", err
	}
	if len(stored) == 0 {
		return "", common.ErrNotFound
	}

	username, pair, err := a.client.Resume(ctx, string(stored))
	if err != nil {
		return "", err
	}

	a.client.SetAccessToken(pair.AccessToken)

	// the presented token was burned server-side; keep the rotated one
	if err := a.saveSession(ctx, username, pair.ResumeToken); err != nil {
		return "", fmt.Errorf("saving rotated session: %w", err)
	}
	return username, nil
}

// Logout revokes the remembered resume token and clears local state. Local
// state is wiped even when the server cannot be reached, so a later
// auto-resume never replays a token the user asked to drop.
func (a *authService) Logout(ctx context.Context) error {
	repo := state.NewSQLiteRepository(a.db)

	stored, err := repo.Get(ctx, state.KeyResumeToken)
	if err != nil {
		return err
	}

	var revokeErr error
	if len(stored) > 0 {
		revokeErr = a.client.Logout(ctx, string(stored))
	}

	a.client.SetAccessToken("")

	if err := repo.Clear(ctx); err != nil {
		return err
	}
	if revokeErr != nil && !errors.Is(revokeErr, api.ErrUnavailable) {
		return revokeErr
	}
	return nil
}

func (a *authService) saveSession(ctx context.Context, username, resumeToken string) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := state.NewSQLiteRepository(tx)
		if err := txRepo.Set(ctx, state.KeyUsername, []byte(username)); err != nil {
			return err
		}
		return txRepo.Set(ctx, state.KeyResumeToken, []byte(resumeToken))
	})
}
