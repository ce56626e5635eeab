// Package resumetokens provides a PostgreSQL-backed repository for the
// revocable resume tokens behind the remember-me flow.
package resumetokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sangpi/chatvault/internal/common"
	"github.com/sangpi/chatvault/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new resume token for username with an expiry of now+validity.
func (r *PostgresRepository) Create(ctx context.Context, username string, token string, validity time.Duration) error {
	query := `
		INSERT INTO resume_tokens (username, token, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, username, token, time.Now().Add(validity)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the resume token row for the given token string.
// If not found, it returns common.ErrNotFound.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*ResumeToken, error) {
	query := `
		SELECT username, expires_at
		FROM resume_tokens
		WHERE token = $1
	`
	resumeToken := &ResumeToken{}
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&resumeToken.Username, &resumeToken.Expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return resumeToken, nil
}

// Delete removes a resume token by its token string. Deleting an unknown
// token is a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM resume_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteForUser revokes every resume token issued to username.
func (r *PostgresRepository) DeleteForUser(ctx context.Context, username string) error {
	query := `
		DELETE FROM resume_tokens
		WHERE username = $1
	`
	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
